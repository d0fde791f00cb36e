package raster

import (
	"slices"

	"scanfill.dev/core/fixed"
)

// hSeg is a horizontal edge recorded for the dropout-prevention path: a
// zero-height run at a single Y that the trapezoid loop paints directly as
// a one-pixel-tall rectangle when fill-adjust is active, since no
// trapezoid would otherwise be generated for it.
type hSeg struct {
	y      fixed.Int
	x0, x1 fixed.Int // x0 <= x1
	dir    direction
}

// scanContours walks every subpath of p, flattening curves as needed, and
// populates ll's waiting list (one entry per monotonic, Y-clipped
// sub-segment) and the hsegs horizontal-edge list. Every sub-segment is clipped
// to [ymin, ymax] before being recorded; segments entirely outside that
// range are dropped, which is semantically equivalent to the upstream
// local-minima bookkeeping for the purposes of the active-edge-list sweep:
// what the sweep needs is a correctly Y-clipped, correctly directioned,
// monotonic edge per waiting-list entry, not a record of which extremum
// produced it.
func scanContours(p *Path, ll *lineList, ymin, ymax fixed.Int, flatness float64, hsegs *[]hSeg) error {
	for sp := range p.subpaths {
		p.ensureCloser(int32(sp))
		contourID := ll.numContours
		ll.numContours++

		s := p.subpaths[sp]
		idx := p.segs[s.first].next
		prevPt := p.segs[s.first].pt
		for idx != -1 {
			seg := &p.segs[idx]
			switch seg.kind {
			case segLine, segClose:
				addMonotonicEdge(ll, hsegs, prevPt, seg.pt, ymin, ymax, idx, contourID)
			case segCurve:
				var it flatIterator
				it.initCurve(prevPt, seg.c1, seg.c2, seg.pt, flatness)
				for {
					a, b := it.current()
					addMonotonicEdge(ll, hsegs, a, b, ymin, ymax, idx, contourID)
					if !it.next() {
						break
					}
				}
			}
			prevPt = seg.pt
			idx = seg.next
		}
	}
	ll.sortWaiting()
	slices.SortFunc(*hsegs, func(a, b hSeg) int {
		switch {
		case a.y < b.y:
			return -1
		case a.y > b.y:
			return 1
		default:
			return 0
		}
	})
	return nil
}

// addMonotonicEdge clips the sub-segment (p0,p1) to [ymin,ymax] and, if
// anything survives, records it either as a horizontal run or as a waiting
// active-line entry.
func addMonotonicEdge(ll *lineList, hsegs *[]hSeg, p0, p1 fixed.Point, ymin, ymax fixed.Int, segIdx, contourID int32) {
	if p0.Y == p1.Y {
		if p0.Y < ymin || p0.Y > ymax {
			return
		}
		x0, x1 := p0.X, p1.X
		dir := dirUp
		if x1 < x0 {
			x0, x1 = x1, x0
			dir = dirDown
		} else if x1 == x0 {
			return // zero-length, contributes nothing
		}
		*hsegs = append(*hsegs, hSeg{y: p0.Y, x0: x0, x1: x1, dir: dir})
		return
	}

	dir := dirUp
	origStart, origEnd := p0, p1
	if p1.Y < p0.Y {
		dir = dirDown
		origStart, origEnd = p1, p0
	}

	if origEnd.Y <= ymin || origStart.Y >= ymax {
		return
	}

	// Interpolate X for each clipped endpoint directly against the
	// original (unclipped) segment, so that applying both clips never
	// compounds rounding error.
	dy := int64(origEnd.Y - origStart.Y)
	dx := origEnd.X - origStart.X
	start, end := origStart, origEnd
	if start.Y < ymin {
		start.X = origStart.X + fixed.MulDiv(dx, ymin-origStart.Y, dy)
		start.Y = ymin
	}
	if end.Y > ymax {
		end.X = origStart.X + fixed.MulDiv(dx, ymax-origStart.Y, dy)
		end.Y = ymax
	}
	if start.Y >= end.Y {
		return
	}

	idx := ll.alloc()
	al := ll.at(idx)
	al.start, al.end = start, end
	al.dir = dir
	al.monotonicY = true
	al.contour = contourID
	al.segIdx = segIdx
	al.iter.initLine(start, end)
	ll.addWaiting(idx)
}
