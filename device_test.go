package raster

import "scanfill.dev/core/fixed"

// recordingDevice captures every call made by a fill loop, for assertions
// against hand-derived expected geometry.
type recordingDevice struct {
	traps []trapCall
	rects []rectCall
}

type trapCall struct {
	left, right TrapEdge
	yBot, yTop  fixed.Int
	swapAxes    bool
	color       DevColor
}

type rectCall struct {
	x, y, w, h int
	color      DevColor
}

func (d *recordingDevice) FillTrapezoid(left, right TrapEdge, yBot, yTop fixed.Int, swapAxes bool, color DevColor) error {
	d.traps = append(d.traps, trapCall{left, right, yBot, yTop, swapAxes, color})
	return nil
}

func (d *recordingDevice) FillRectangleDeviceROP(x, y, w, h int, color DevColor) error {
	d.rects = append(d.rects, rectCall{x, y, w, h, color})
	return nil
}

// spotRecordingDevice implements both Device and SpotAnalyzer. Its Device
// methods should never be reached when Fill detects the SpotAnalyzer
// capability: everything should flow through SpotTrap instead.
type spotRecordingDevice struct {
	traps []spotTrapCall
}

type spotTrapCall struct {
	y0, y1             fixed.Int
	x0l, x0r, x1l, x1r fixed.Int
	segL, segR         int32
	dirL, dirR         int8
}

func (d *spotRecordingDevice) FillTrapezoid(left, right TrapEdge, yBot, yTop fixed.Int, swapAxes bool, color DevColor) error {
	panic("FillTrapezoid called on a SpotAnalyzer device")
}

func (d *spotRecordingDevice) FillRectangleDeviceROP(x, y, w, h int, color DevColor) error {
	panic("FillRectangleDeviceROP called on a SpotAnalyzer device")
}

func (d *spotRecordingDevice) SpotTrap(y0, y1 fixed.Int, x0l, x0r, x1l, x1r fixed.Int, segL, segR int32, dirL, dirR int8) error {
	d.traps = append(d.traps, spotTrapCall{y0, y1, x0l, x0r, x1l, x1r, segL, segR, dirL, dirR})
	return nil
}
