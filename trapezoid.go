package raster

import (
	"scanfill.dev/core/fixed"
	"scanfill.dev/core/errs"
)

// FillOptions gathers the parameters that stay fixed for the whole
// duration of one fill: the winding rule, the fill-adjust margins, the
// clip box, and the algorithm/back-end selection. It is immutable once a
// fill starts.
type FillOptions struct {
	// AdjustLeft/Right/Below/Above are the "any-part-of-pixel" sub-pixel
	// pads. Compute them with ComputeAdjust.
	AdjustLeft, AdjustRight, AdjustBelow, AdjustAbove fixed.Int

	Clip fixed.Rect
	Rule Rule

	// SmartWinding enables per-contour even-odd evaluation intersected
	// across contours, for grid-fitted character fills.
	SmartWinding bool

	// IsSpotAnalyzer routes painted regions to Device's SpotAnalyzer
	// capability instead of FillTrapezoid/FillRectangleDeviceROP.
	// Horizontal runs painted by paintHorizontal still go through
	// FillRectangleDeviceROP.
	IsSpotAnalyzer bool

	// FillByTrapezoids selects the trapezoid loop; otherwise the
	// scanline/range-list loop is used.
	FillByTrapezoids bool

	// FillDirect indicates the back-end color is opaque and idempotent,
	// so the trapezoid loop's small double-paint at adjusted band seams
	// is harmless. When false (a non-idempotent logical op), the fill
	// dispatcher should prefer the scanline loop instead.
	FillDirect bool

	// Flatness is the curve-flattening tolerance in device pixels.
	Flatness float64

	// MaxBandHeight caps the vertical span of a single band, in
	// fixed-point pixel units. Zero means unlimited (bounded only by the
	// natural edge geometry). When positive it must be a power of two
	// number of pixels expressed in fixed-point (e.g. 64*fixed.One for a
	// 64-pixel band).
	MaxBandHeight fixed.Int

	Color DevColor
}

// ComputeAdjust derives the four fill-adjust margins from a single
// "radius" value, applying the fixed_half special case: when adjust ==
// Half exactly, the two sides split asymmetrically (half-epsilon versus
// half) so that a unit-radius adjustment never expands a pixel-aligned
// region by more than one full pixel in total.
func ComputeAdjust(adjustX, adjustY fixed.Int) (left, right, below, above fixed.Int) {
	left, right = splitAdjust(adjustX)
	below, above = splitAdjust(adjustY)
	return
}

func splitAdjust(a fixed.Int) (lo, hi fixed.Int) {
	if a == 0 {
		return 0, 0
	}
	if a == fixed.Half {
		return fixed.Half - fixed.Epsilon, fixed.Half
	}
	return a, a
}

// runTrapezoidFill executes the trapezoid decomposition loop (component
// 4.5): it advances the sweep line band by band, emitting one trapezoid
// per inside run detected by the winding evaluator.
func runTrapezoidFill(ll *lineList, hsegs []hSeg, opts *FillOptions, dev Device) error {
	w := newWindingState(opts.Rule, opts.SmartWinding, int(ll.numContours))
	hPos := 0
	y := fixed.MinFixed
	if len(ll.waiting) > 0 {
		y = ll.at(ll.waiting[0]).start.Y
	} else if len(hsegs) > 0 {
		y = hsegs[0].y
	} else {
		return nil // nothing to fill
	}

	for {
		// Step 1: activate every waiting edge whose start.Y == y.
		activateWaitingAt(ll, y)

		// Paint any horizontal run exactly at y immediately, guaranteeing
		// it is not lost even though it contributes no trapezoid area.
		for hPos < len(hsegs) && hsegs[hPos].y == y {
			if err := paintHorizontal(dev, opts, hsegs[hPos]); err != nil {
				return err
			}
			hPos++
		}

		if ll.pool[0].nextX == 0 {
			// Active list empty: jump to the next interesting Y.
			nextY, ok := nextEventY(ll, hsegs, hPos)
			if !ok {
				return nil
			}
			y = nextY
			continue
		}

		y1 := tentativeBandTop(ll, y, opts.MaxBandHeight)
		if wy, ok := ll.nextWaitingY(); ok && wy < y1 {
			y1 = wy
		}
		if hPos < len(hsegs) && hsegs[hPos].y < y1 {
			y1 = hsegs[hPos].y
		}

		if y1 == y {
			// Degenerate band: nothing to paint, just let the next
			// iteration's activation step pull in the new edges.
			y = y + fixed.Epsilon
			continue
		}

		computeXNextAll(ll, y1)
		y1 = resolveIntersections(ll, y, y1)
		computeXNextAll(ll, y1)

		if err := paintBand(ll, w, y, y1, opts, dev); err != nil {
			return err
		}

		advanceToY(ll, y1)
		y = y1

		if ll.pool[0].nextX == 0 && ll.waitNext >= len(ll.waiting) && hPos >= len(hsegs) {
			return nil
		}
	}
}

func activateWaitingAt(ll *lineList, y fixed.Int) {
	for ll.waitNext < len(ll.waiting) {
		idx := ll.waiting[ll.waitNext]
		al := ll.at(idx)
		if al.start.Y != y {
			break
		}
		al.xCurrent = al.start.X
		ll.insertActive(idx)
		ll.waitNext++
	}
}

func nextEventY(ll *lineList, hsegs []hSeg, hPos int) (fixed.Int, bool) {
	found := false
	var best fixed.Int
	if wy, ok := ll.nextWaitingY(); ok {
		best, found = wy, true
	}
	if hPos < len(hsegs) {
		if !found || hsegs[hPos].y < best {
			best, found = hsegs[hPos].y, true
		}
	}
	return best, found
}

// tentativeBandTop computes candidate (b): the smallest end.Y among active
// edges, further capped by the configured max band height (c): the next
// boundary of a maxBand-aligned grid strictly above y.
func tentativeBandTop(ll *lineList, y, maxBand fixed.Int) fixed.Int {
	top := fixed.MaxFixed
	idx := ll.pool[0].nextX
	for idx != 0 {
		al := ll.at(idx)
		if al.end.Y < top {
			top = al.end.Y
		}
		idx = al.nextX
	}
	if maxBand > 0 {
		q := y / maxBand
		if y < 0 && y%maxBand != 0 {
			q-- // round the quotient toward negative infinity
		}
		bandCap := (q + 1) * maxBand
		if bandCap < top {
			top = bandCap
		}
	}
	return top
}

// computeXNextAll sets xNext for every active edge at the proposed band
// top y1 by interpolating along the edge's current flattened sub-segment;
// an edge that ends at or before y1 takes its end X. It does not step
// iterators; advanceToY does that.
func computeXNextAll(ll *lineList, y1 fixed.Int) {
	idx := ll.pool[0].nextX
	for idx != 0 {
		al := ll.at(idx)
		al.xNext = edgeXAt(al, y1)
		idx = al.nextX
	}
}

func edgeXAt(al *activeLine, y fixed.Int) fixed.Int {
	if y >= al.end.Y {
		return al.end.X
	}
	p0, p1 := al.iter.current()
	if p0.Y > p1.Y {
		p0, p1 = p1, p0
	}
	if y <= p0.Y {
		return p0.X
	}
	dy := int64(p1.Y - p0.Y)
	if dy == 0 {
		return p0.X
	}
	return p0.X + fixed.MulDiv(p1.X-p0.X, y-p0.Y, dy)
}

// paintBand walks the X-ordered active list for [y,y1), advancing the
// winding counter edge by edge and emitting one trapezoid per inside run.
func paintBand(ll *lineList, w *windingState, y, y1 fixed.Int, opts *FillOptions, dev Device) error {
	w.reset()
	var haveLeft bool
	var left *activeLine
	var leftIdx int32

	idx := ll.pool[0].nextX
	for idx != 0 {
		al := ll.at(idx)
		nowInside := w.cross(al.dir, al.contour)
		if nowInside && !haveLeft {
			left, leftIdx = al, idx
			haveLeft = true
		} else if !nowInside && haveLeft {
			if err := paintRegion(ll, left, al, y, y1, opts, dev, leftIdx, idx); err != nil {
				return err
			}
			haveLeft = false
		}
		idx = al.nextX
	}
	return nil
}

func paintRegion(ll *lineList, left, right *activeLine, y, y1 fixed.Int, opts *FillOptions, dev Device, leftIdx, rightIdx int32) error {
	yBot := y - opts.AdjustBelow
	yTop := y1 + opts.AdjustAbove
	if yBot < opts.Clip.LLy {
		yBot = opts.Clip.LLy
	}
	if yTop > opts.Clip.URy {
		yTop = opts.Clip.URy
	}
	if yBot >= yTop {
		return nil
	}

	le := TrapEdge{
		Start: fixed.Point{X: left.xCurrent - opts.AdjustLeft, Y: y},
		End:   fixed.Point{X: left.xNext - opts.AdjustLeft, Y: y1},
	}
	re := TrapEdge{
		Start: fixed.Point{X: right.xCurrent + opts.AdjustRight, Y: y},
		End:   fixed.Point{X: right.xNext + opts.AdjustRight, Y: y1},
	}

	if opts.IsSpotAnalyzer {
		if sa, ok := dev.(SpotAnalyzer); ok {
			return errs.Wrap(errs.Fatal, "fill.spotTrap", sa.SpotTrap(
				yBot, yTop, le.Start.X, re.Start.X, le.End.X, re.End.X,
				left.segIdx, right.segIdx, int8(left.dir), int8(right.dir),
			))
		}
		return errs.New(errs.Unregistered, "fill.spotTrap: device lacks SpotAnalyzer")
	}

	if le.Start.X == le.End.X && re.Start.X == re.End.X {
		x0 := le.Start.X.ToIntPixround()
		x1 := re.Start.X.ToIntPixround()
		if x1 <= x0 {
			if opts.AdjustLeft == 0 && opts.AdjustRight == 0 {
				return nil // no pixel centre lies inside a zero-width region
			}
			x1 = x0 + 1 // never let fill-adjust collapse a touched column to nothing
		}
		y0 := yBot.ToIntPixround()
		y1i := yTop.ToIntPixround()
		if y1i <= y0 {
			y1i = y0 + 1
		}
		return errs.Wrap(errs.Fatal, "fill.rect", dev.FillRectangleDeviceROP(x0, y0, x1-x0, y1i-y0, opts.Color))
	}

	return errs.Wrap(errs.Fatal, "fill.trap", dev.FillTrapezoid(le, re, yBot, yTop, false, opts.Color))
}

func paintHorizontal(dev Device, opts *FillOptions, h hSeg) error {
	if opts.AdjustBelow == 0 && opts.AdjustAbove == 0 {
		return nil // zero-area horizontal contributes nothing without adjust
	}
	x0 := (h.x0 - opts.AdjustLeft).ToIntCeiling()
	x1 := (h.x1 + opts.AdjustRight).ToIntCeiling()
	if x1 <= x0 {
		x1 = x0 + 1
	}
	yBot := h.y - opts.AdjustBelow
	yTop := h.y + opts.AdjustAbove
	if yBot < opts.Clip.LLy {
		yBot = opts.Clip.LLy
	}
	if yTop > opts.Clip.URy {
		yTop = opts.Clip.URy
	}
	y0 := yBot.ToIntPixround()
	y1 := yTop.ToIntPixround()
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return errs.Wrap(errs.Fatal, "fill.horizontal", dev.FillRectangleDeviceROP(x0, y0, x1-x0, y1-y0, opts.Color))
}

// advanceToY moves every active edge's xCurrent to y1, steps flattened
// iterators whose current sub-segment ended at or before y1, removes edges
// whose sub-segments are exhausted (each path segment has its own
// waiting-list entry, so an edge is never extended into the next path
// segment here), and re-sorts the X list for any edge whose relative
// order changed.
func advanceToY(ll *lineList, y1 fixed.Int) {
	idx := ll.pool[0].nextX
	for idx != 0 {
		al := ll.at(idx)
		next := al.nextX
		al.xCurrent = al.xNext

		if al.end.Y <= y1 {
			if al.iter.more() {
				al.iter.next()
				p0, p1 := al.iter.current()
				if p0.Y > p1.Y {
					p0, p1 = p1, p0
				}
				al.start, al.end = p0, p1
			} else {
				ll.removeActive(idx)
				ll.release(idx)
				idx = next
				continue
			}
		}
		ll.resortLine(idx)
		idx = next
	}
}
