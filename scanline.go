package raster

import (
	"scanfill.dev/core/errs"
	"scanfill.dev/core/fixed"
)

// flushErr turns the range-list's error-less emit callback into one that
// records the first device error encountered, if any.
type flushErr struct{ err error }

func (f *flushErr) emit(dev Device, opts *FillOptions, yBot, yTop int) func(int, int) {
	return func(lo, hi int) {
		if f.err != nil {
			return
		}
		f.err = errs.Wrap(errs.Fatal, "fill.scanline", dev.FillRectangleDeviceROP(lo, yBot, hi-lo, yTop-yBot, opts.Color))
	}
}

// runScanlineFill executes the alternative fill loop (component 4.6): it
// forces every band to exactly one device scanline, accumulates each
// inside run's adjusted X-interval into a rangeList (which coalesces
// overlapping or touching runs), and flushes the coalesced runs once per
// row. This guarantees every pixel is written at most once per scanline,
// which matters for non-idempotent logical operations and for curves
// whose adjusted trapezoids would otherwise overlap at shallow slants.
func runScanlineFill(ll *lineList, hsegs []hSeg, opts *FillOptions, dev Device) error {
	w := newWindingState(opts.Rule, opts.SmartWinding, int(ll.numContours))
	var rl rangeList
	rl.reset()

	hPos := 0
	y := fixed.MinFixed
	if len(ll.waiting) > 0 {
		y = ll.at(ll.waiting[0]).start.Y
	} else if len(hsegs) > 0 {
		y = hsegs[0].y
	} else {
		return nil
	}

	for {
		activateWaitingAt(ll, y)

		for hPos < len(hsegs) && hsegs[hPos].y == y {
			if err := paintHorizontal(dev, opts, hsegs[hPos]); err != nil {
				return err
			}
			hPos++
		}

		if ll.pool[0].nextX == 0 {
			nextY, ok := nextEventY(ll, hsegs, hPos)
			if !ok {
				return nil
			}
			y = nextY
			continue
		}

		y1 := pixelRowTop(y)
		idx := ll.pool[0].nextX
		for idx != 0 {
			if al := ll.at(idx); al.end.Y < y1 {
				y1 = al.end.Y
			}
			idx = ll.at(idx).nextX
		}
		if wy, ok := ll.nextWaitingY(); ok && wy < y1 {
			y1 = wy
		}
		if hPos < len(hsegs) && hsegs[hPos].y < y1 {
			y1 = hsegs[hPos].y
		}
		if y1 == y {
			y = y + fixed.Epsilon
			continue
		}

		computeXNextAll(ll, y1)
		y1 = resolveIntersections(ll, y, y1)
		computeXNextAll(ll, y1)

		accumulateRuns(ll, w, opts, &rl)

		// Flush whenever we have reached an integer row boundary; a band
		// shortened by intersection or by a newly activated edge may stop
		// short of the row top, in which case the next iteration resumes
		// accumulating into the same rangeList before flushing.
		if y1 == pixelRowTop(y) {
			row := y.ToIntFloor()
			var fe flushErr
			rl.flush(fe.emit(dev, opts, row, row+1))
			if fe.err != nil {
				return fe.err
			}
		}

		advanceToY(ll, y1)
		y = y1

		if ll.pool[0].nextX == 0 && ll.waitNext >= len(ll.waiting) && hPos >= len(hsegs) {
			return nil
		}
	}
}

func pixelRowTop(y fixed.Int) fixed.Int {
	row := y.ToIntFloor()
	top := fixed.FromInt(row + 1)
	if top == y {
		top += fixed.One
	}
	return top
}

func accumulateRuns(ll *lineList, w *windingState, opts *FillOptions, rl *rangeList) {
	w.reset()
	var haveLeft bool
	var left *activeLine

	idx := ll.pool[0].nextX
	for idx != 0 {
		al := ll.at(idx)
		nowInside := w.cross(al.dir, al.contour)
		if nowInside && !haveLeft {
			left = al
			haveLeft = true
		} else if !nowInside && haveLeft {
			addRun(rl, left, al, opts)
			haveLeft = false
		}
		idx = al.nextX
	}
}

func addRun(rl *rangeList, left, right *activeLine, opts *FillOptions) {
	lx := min(left.xCurrent, left.xNext) - opts.AdjustLeft
	rx := max(right.xCurrent, right.xNext) + opts.AdjustRight
	lo := lx.ToIntCeiling()
	hi := rx.ToIntCeiling()
	if hi <= lo {
		hi = lo + 1
	}
	rl.add(lo, hi)
}
