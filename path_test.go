package raster

import (
	"testing"

	"scanfill.dev/core/fixed"
)

func TestPathBBoxEmpty(t *testing.T) {
	var p Path
	if _, ok := p.bbox(); ok {
		t.Error("bbox of an empty path should report ok=false")
	}
}

func TestPathBBoxIncludesControlPoints(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).CurveTo(pt(-5, 5), pt(15, 5), pt(10, 0))
	box, ok := p.bbox()
	if !ok {
		t.Fatal("expected a bbox")
	}
	if box.LLx != fixed.FromInt(-5) {
		t.Errorf("LLx = %d, want control point's -5", box.LLx)
	}
	if box.URx != fixed.FromInt(15) {
		t.Errorf("URx = %d, want control point's 15", box.URx)
	}
}

// TestPathBBoxUnionsAcrossSubpaths checks that the bbox of a multi-subpath
// path is the union of each subpath's own extent, not just a global min/max
// that happens to produce the same answer for a single subpath.
func TestPathBBoxUnionsAcrossSubpaths(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).LineTo(pt(2, 0)).LineTo(pt(2, 2)).LineTo(pt(0, 2)).Close()
	p.MoveTo(pt(20, 20)).LineTo(pt(25, 20)).LineTo(pt(25, 25)).LineTo(pt(20, 25)).Close()

	box, ok := p.bbox()
	if !ok {
		t.Fatal("expected a bbox")
	}
	want := fixed.RectFromInts(0, 0, 25, 25)
	if box != want {
		t.Errorf("bbox = %+v, want %+v", box, want)
	}
}

func TestPathCloseNoopWhenAlreadyClosed(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).LineTo(pt(10, 0)).LineTo(pt(0, 0))
	before := len(p.segs)
	p.Close()
	if len(p.segs) != before {
		t.Errorf("Close on an already-closed subpath should be a no-op, segs %d -> %d", before, len(p.segs))
	}
}

func TestPathCloseAddsSegmentWhenOpen(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).LineTo(pt(10, 0)).LineTo(pt(10, 10))
	before := len(p.segs)
	p.Close()
	if len(p.segs) != before+1 {
		t.Fatalf("expected Close to append one closing segment, segs %d -> %d", before, len(p.segs))
	}
	last := p.segs[len(p.segs)-1]
	if last.kind != segClose || last.pt != pt(0, 0) {
		t.Errorf("closing segment = %+v, want a segClose back to (0,0)", last)
	}
}

func TestEnsureCloserAndUnspliceRoundTrip(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).LineTo(pt(10, 0)).LineTo(pt(10, 10))
	segsBefore := len(p.segs)
	lastBefore := p.subpaths[0].last

	p.ensureCloser(0)
	if p.subpaths[0].closer < 0 {
		t.Fatal("expected ensureCloser to splice a closer")
	}
	if len(p.segs) != segsBefore+1 {
		t.Fatalf("expected one new segment, got %d -> %d", segsBefore, len(p.segs))
	}

	p.unspliceCloser(0)
	if p.subpaths[0].closer != -1 {
		t.Error("expected unspliceCloser to clear the closer index")
	}
	if p.subpaths[0].last != lastBefore {
		t.Errorf("last = %d, want restored %d", p.subpaths[0].last, lastBefore)
	}
	if p.segs[lastBefore].next != -1 {
		t.Error("expected the restored last segment's next link to be cleared")
	}
}

func TestEnsureCloserNoopWhenAlreadyClosed(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).LineTo(pt(10, 0)).LineTo(pt(0, 0))
	before := len(p.segs)
	p.ensureCloser(0)
	if p.subpaths[0].closer != -1 {
		t.Error("ensureCloser should not splice when the subpath already returns to its start")
	}
	if len(p.segs) != before {
		t.Errorf("ensureCloser should be a no-op here, segs %d -> %d", before, len(p.segs))
	}
}

func TestPathResetClearsHasCurve(t *testing.T) {
	var p Path
	p.MoveTo(pt(0, 0)).CurveTo(pt(1, 1), pt(2, 2), pt(3, 3))
	if !p.hasCurve {
		t.Fatal("expected hasCurve to be set after CurveTo")
	}
	p.Reset()
	if p.hasCurve {
		t.Error("expected Reset to clear hasCurve")
	}
	if p.numSubpaths() != 0 {
		t.Error("expected Reset to clear subpaths")
	}
}
