package raster

import (
	"math"

	"scanfill.dev/core/fixed"
)

// flatIterator enumerates the straight sub-segments making up one path
// segment. For a line segment it holds exactly two points (one
// sub-segment); for a curve segment it holds the vertices of a piecewise
// linear approximation computed once, up front, from Wang's formula. An
// active line embeds one of these by value and never shares it with
// another active line.
type flatIterator struct {
	pts []fixed.Point // vertices; sub-segment i is (pts[i], pts[i+1])
	idx int           // index of the current sub-segment's first vertex
}

// initLine seeds the iterator with a single straight sub-segment.
func (it *flatIterator) initLine(p0, p1 fixed.Point) {
	it.pts = append(it.pts[:0], p0, p1)
	it.idx = 0
}

// initCurve seeds the iterator with the flattened vertices of a cubic
// Bézier curve. flatness is the device-space tolerance (in pixels) below
// which a chord is considered indistinguishable from the curve.
func (it *flatIterator) initCurve(p0, c1, c2, p3 fixed.Point, flatness float64) {
	n := wangSubdivisionCount(p0, c1, c2, p3, flatness)
	it.pts = it.pts[:0]
	it.pts = append(it.pts, p0)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		it.pts = append(it.pts, cubicBezierAt(p0, c1, c2, p3, t))
	}
	it.pts = append(it.pts, p3)
	it.idx = 0
}

// current returns the endpoints of the current sub-segment.
func (it *flatIterator) current() (fixed.Point, fixed.Point) {
	return it.pts[it.idx], it.pts[it.idx+1]
}

// more reports whether sub-segments remain after the current one.
func (it *flatIterator) more() bool {
	return it.idx+2 < len(it.pts)
}

// next advances to the following sub-segment, reporting whether it moved.
func (it *flatIterator) next() bool {
	if !it.more() {
		return false
	}
	it.idx++
	return true
}

// prev steps back to the preceding sub-segment.
func (it *flatIterator) prev() bool {
	if it.idx == 0 {
		return false
	}
	it.idx--
	return true
}

// switchToBackscan repositions the cursor at the last sub-segment. Nothing
// in this package calls it: the contour scanner walks every segment
// forward only.
func (it *flatIterator) switchToBackscan() {
	it.idx = len(it.pts) - 2
	if it.idx < 0 {
		it.idx = 0
	}
}

// atStart reports whether the cursor is on the first sub-segment.
func (it *flatIterator) atStart() bool {
	return it.idx == 0
}

// wangSubdivisionCount computes the number of flat chords needed to
// approximate a cubic within flatness device pixels, following the same
// deviation-vector heuristic used for stroke flattening: the curve is
// subdivided enough times that the maximum second-difference of the
// control polygon, halved twice, falls under the tolerance.
func wangSubdivisionCount(p0, c1, c2, p3 fixed.Point, flatness float64) int {
	d1x := p0.X.ToFloat64() - 2*c1.X.ToFloat64() + c2.X.ToFloat64()
	d1y := p0.Y.ToFloat64() - 2*c1.Y.ToFloat64() + c2.Y.ToFloat64()
	d2x := c1.X.ToFloat64() - 2*c2.X.ToFloat64() + p3.X.ToFloat64()
	d2y := c1.Y.ToFloat64() - 2*c2.Y.ToFloat64() + p3.Y.ToFloat64()

	len1 := math.Hypot(d1x, d1y)
	len2 := math.Hypot(d2x, d2y)
	m := max(len1, len2)

	if m <= 0 || flatness <= 0 {
		return 1
	}
	nFloat := math.Sqrt(3 * m / (4 * flatness))
	n := 1
	if nFloat > 1 {
		n = int(math.Ceil(nFloat))
	}
	if n > maxCurveSubdivisions {
		n = maxCurveSubdivisions
	}
	return n
}

// maxCurveSubdivisions bounds the number of chords a single curve segment
// can flatten into, guarding against pathological control points (e.g.
// coordinates near the fixed-point range limit) producing an unbounded
// vertex count.
const maxCurveSubdivisions = 4096

func cubicBezierAt(p0, c1, c2, p3 fixed.Point, t float64) fixed.Point {
	omt := 1 - t
	omt2 := omt * omt
	omt3 := omt2 * omt
	t2 := t * t
	t3 := t2 * t

	x := omt3*p0.X.ToFloat64() + 3*omt2*t*c1.X.ToFloat64() + 3*omt*t2*c2.X.ToFloat64() + t3*p3.X.ToFloat64()
	y := omt3*p0.Y.ToFloat64() + 3*omt2*t*c1.Y.ToFloat64() + 3*omt*t2*c2.Y.ToFloat64() + t3*p3.Y.ToFloat64()
	return fixed.Point{X: fixed.FromFloat64(x), Y: fixed.FromFloat64(y)}
}
