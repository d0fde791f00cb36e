package raster

import "scanfill.dev/core/fixed"

// DevColor is an opaque device color handle. The scan converter never
// inspects it; it is threaded through to the back-end calls unchanged.
type DevColor any

// TrapEdge is one side of a trapezoid: a straight run from start to end in
// fixed-point device coordinates. A vertical edge has start.X == end.X.
type TrapEdge struct {
	Start, End fixed.Point
}

// Device is the back-end the fill loops paint into. Implementations range
// from a real raster target to a clipper that forwards a restricted
// region, to a spot analyzer that only records trapezoid shapes.
type Device interface {
	// FillTrapezoid paints the region between Left and Right, clipped to
	// [yBot, yTop]. swapAxes requests an X/Y-transposed interpretation,
	// used when the fill loop itself has been run transposed to reuse the
	// same code for both orientations; the core never sets it today but
	// the back-end contract reserves the parameter.
	FillTrapezoid(left, right TrapEdge, yBot, yTop fixed.Int, swapAxes bool, color DevColor) error

	// FillRectangleDeviceROP paints an axis-aligned integer rectangle.
	FillRectangleDeviceROP(x, y, w, h int, color DevColor) error
}

// SpotAnalyzer is an optional capability a Device may implement. When
// present and selected by FillOptions.IsSpotAnalyzer, the trapezoid loop
// calls SpotTrap instead of FillTrapezoid for every region, handing over
// the raw geometry (including the owning path segment indices) instead of
// rendering it.
type SpotAnalyzer interface {
	SpotTrap(y0, y1 fixed.Int, x0l, x0r, x1l, x1r fixed.Int, segL, segR int32, dirL, dirR int8) error
}
