package raster

import (
	"testing"

	"scanfill.dev/core/fixed"
)

// runScanlineOverPath is a small harness that drives scanContours and
// runScanlineFill directly, bypassing Rasterizer.Fill's algorithm-selection
// policy, so the scanline loop's per-row coalescing can be exercised
// independently of chooseTrapezoids.
func runScanlineOverPath(t *testing.T, p *Path, clip fixed.Rect, rule Rule) *recordingDevice {
	t.Helper()
	var ll lineList
	ll.reset(p)
	var hsegs []hSeg
	if err := scanContours(p, &ll, clip.LLy, clip.URy, 0.25, &hsegs); err != nil {
		t.Fatalf("scanContours: %v", err)
	}
	opts := &FillOptions{
		Clip: clip,
		Rule: rule,
	}
	var dev recordingDevice
	if err := runScanlineFill(&ll, hsegs, opts, &dev); err != nil {
		t.Fatalf("runScanlineFill: %v", err)
	}
	for sp := range p.subpaths {
		p.unspliceCloser(int32(sp))
	}
	return &dev
}

// TestScanlineFillCoalescesOverlappingContoursPerRow checks that two
// overlapping rectangles produce exactly one coalesced run per pixel row,
// not two separate overlapping rectangle calls.
func TestScanlineFillCoalescesOverlappingContoursPerRow(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).LineTo(pt(5, 0)).LineTo(pt(5, 2)).LineTo(pt(0, 2)).Close()
	p.MoveTo(pt(3, 0)).LineTo(pt(8, 0)).LineTo(pt(8, 2)).LineTo(pt(3, 2)).Close()

	dev := runScanlineOverPath(t, &p, fixed.RectFromInts(-100, -100, 100, 100), NonZero)

	if len(dev.traps) != 0 {
		t.Fatalf("the scanline loop should never emit trapezoids, got %d", len(dev.traps))
	}
	if len(dev.rects) != 2 {
		t.Fatalf("expected one coalesced rectangle per row (2 rows), got %d: %+v", len(dev.rects), dev.rects)
	}
	for i, got := range dev.rects {
		if got.x != 0 || got.w != 8 {
			t.Errorf("rect[%d] = %+v, want x=0 w=8 (union of [0,5) and [3,8))", i, got)
		}
	}
}

// TestScanlineFillSeparateContoursStayDisjoint checks the converse: two
// rectangles that do not touch in X produce two separate runs per row
// rather than being merged.
func TestScanlineFillSeparateContoursStayDisjoint(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).LineTo(pt(2, 0)).LineTo(pt(2, 1)).LineTo(pt(0, 1)).Close()
	p.MoveTo(pt(10, 0)).LineTo(pt(12, 0)).LineTo(pt(12, 1)).LineTo(pt(10, 1)).Close()

	dev := runScanlineOverPath(t, &p, fixed.RectFromInts(-100, -100, 100, 100), NonZero)

	if len(dev.rects) != 2 {
		t.Fatalf("expected two disjoint rectangle runs, got %d: %+v", len(dev.rects), dev.rects)
	}
	xs := map[int]bool{dev.rects[0].x: true, dev.rects[1].x: true}
	if !xs[0] || !xs[10] {
		t.Errorf("expected runs starting at x=0 and x=10, got %+v", dev.rects)
	}
}
