package raster

import "scanfill.dev/core/fixed"

// coordWeight gives near-vertical edges more influence than shallow ones
// when several edges must be coalesced onto a single shared X, matching
// the "dy*8/dx capped at 256" weighting used for triple-intersection
// stabilization.
func coordWeight(al *activeLine) int64 {
	dx := int64(al.end.X - al.start.X)
	if dx == 0 {
		return -1 // vertical: highest priority, handled separately by callers
	}
	dy := int64(al.end.Y - al.start.Y)
	w := (dy * 8) / dx
	if w < 0 {
		w = -w
	}
	if w > 256 {
		w = 256
	}
	return 1 + w
}

// resolveIntersections shortens the proposed band top y1 if any pair of
// adjacent active edges would cross before y1, then repairs any residual
// X-order violations at the (possibly shortened) y1 by coalescing them
// onto a shared, weight-averaged X. It returns the final band top.
//
// The active list is assumed already in X order at y (the current sweep
// line); xNext has been precomputed for every edge at the tentative y1.
func resolveIntersections(ll *lineList, y, y1 fixed.Int) fixed.Int {
	if y == y1 {
		return y1
	}

	for {
		shortened := false
		idx := ll.pool[0].nextX
		for idx != 0 {
			nxt := ll.pool[idx].nextX
			if nxt == 0 {
				break
			}
			a := ll.at(idx)
			b := ll.at(nxt)
			// a and b are in order at y (a.xCurrent <= b.xCurrent); if
			// they would swap by y1, find where they actually cross.
			if b.xCurrent >= a.xCurrent && b.xNext < a.xNext {
				yCross, ok := crossingY(a, b, y, y1)
				if ok && yCross < y1 {
					y1 = yCross
					shortened = true
				}
			}
			idx = nxt
		}
		if !shortened {
			break
		}
		// Recompute xNext at the new, shorter y1 for every active edge
		// before re-checking for further crossings.
		recomputeXNext(ll, y1)
	}

	repairMonotonicity(ll, y1)
	return y1
}

// crossingY solves for the Y in [y, y1] at which edges a and b (a to the
// left of b at y) would meet, given their precomputed X at y1.
func crossingY(a, b *activeLine, y, y1 fixed.Int) (fixed.Int, bool) {
	dCur := int64(b.xCurrent - a.xCurrent) // >= 0
	denom := dCur + int64(a.xNext-b.xNext)
	if denom <= dCur || denom == 0 {
		return 0, false
	}
	span := int64(y1 - y)
	offset := (span * dCur) / denom
	return y + fixed.Int(offset), true
}

// recomputeXNext linearly re-projects every active edge's xNext to the
// new band top y1 by interpolating along its current flattened
// sub-segment; called after the band has been shortened by an intersection.
func recomputeXNext(ll *lineList, y1 fixed.Int) {
	// The sweep driver recomputes the authoritative xNext once it settles
	// on the final y1 (see computeXNextAll); here we only need a consistent
	// estimate to keep detecting further crossings within the shortened
	// band, so we linearly interpolate between the endpoints of the edge's
	// current sub-segment.
	idx := ll.pool[0].nextX
	for idx != 0 {
		al := ll.at(idx)
		al.xNext = xAtY(al, y1)
		idx = al.nextX
	}
}

// xAtY returns the edge's X at the given Y, by interpolating within its
// current flattened sub-segment.
func xAtY(al *activeLine, y fixed.Int) fixed.Int {
	p0, p1 := al.iter.current()
	if p0.Y > p1.Y {
		p0, p1 = p1, p0
	}
	if p1.Y == p0.Y {
		return p0.X
	}
	dy := int64(p1.Y - p0.Y)
	return p0.X + fixed.MulDiv(p1.X-p0.X, y-p0.Y, dy)
}

// repairMonotonicity walks the active list at the settled band top y1 and
// coalesces any remaining out-of-order runs onto a shared X, weighted so
// that near-vertical edges (and genuinely vertical ones) dominate the
// average. This is the fallback pass for triple (or higher) coincidences
// that the pairwise resolver above cannot fully untangle in one scan.
func repairMonotonicity(ll *lineList, y1 fixed.Int) {
	idx := ll.pool[0].nextX
	for idx != 0 {
		nxt := ll.pool[idx].nextX
		if nxt == 0 {
			break
		}
		a, b := ll.at(idx), ll.at(nxt)
		if a.xNext > b.xNext {
			x := weightedAverageX(a, b)
			a.xNext, b.xNext = x, x
		}
		idx = nxt
	}
}

func weightedAverageX(a, b *activeLine) fixed.Int {
	wa, wb := coordWeight(a), coordWeight(b)
	if wa < 0 && wb < 0 {
		return (a.xNext + b.xNext) / 2
	}
	if wa < 0 {
		return a.xNext
	}
	if wb < 0 {
		return b.xNext
	}
	total := wa + wb
	return fixed.Int((int64(a.xNext)*wa + int64(b.xNext)*wb) / total)
}
