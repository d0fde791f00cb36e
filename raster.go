// seehuhn.de/go/raster - a 2D rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package raster scan-converts already-flattened-or-curved device-space
// paths into trapezoids or pixel runs, via either of two interchangeable
// fill loops, under a chosen winding rule and an optional sub-pixel
// fill-adjust. It does not touch color, compositing or clipping directly;
// those are the caller's Device implementation's problem.
package raster

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"scanfill.dev/core/fixed"
)

// Rasterizer converts device-space paths into trapezoids or pixel runs fed
// to a Device. Create one instance and reuse it for multiple fills: its
// internal pools (the active-line arena, the Y-list, the horizontal-edge
// list) grow as needed but never shrink and are reused from fill to fill.
// The winding state and the scanline loop's range list are still
// allocated afresh on every fill.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// Clip bounds every fill to this device-coordinate rectangle.
	Clip fixed.Rect

	// Flatness controls curve approximation accuracy, in device pixels.
	// Typical values: 0.25-1.0. Must be positive.
	Flatness float64

	// AdjustX, AdjustY are the fill-adjust radii applied on all four sides
	// under the any-part-of-pixel rule. Zero disables adjustment.
	AdjustX, AdjustY fixed.Int

	// SmartWinding switches the winding evaluator to per-contour parity
	// intersection, for grid-fitted character fills. Only meaningful
	// together with EvenOdd-like semantics; see windingState.cross.
	SmartWinding bool

	// MaxBandHeight caps the vertical span the trapezoid loop processes in
	// one step, in fixed-point pixel units. Zero means unlimited.
	MaxBandHeight fixed.Int

	// Color is passed through to every Device call unchanged.
	Color DevColor

	// CTM transforms from user space to device space; only consulted by
	// Stroke, which must offset a path in its own coordinate system before
	// handing the result to the fill core.
	CTM matrix.Matrix

	// Width sets stroke thickness in user-space units.
	Width float64
	// Cap sets the style for stroke endpoints.
	Cap graphics.LineCapStyle
	// Join sets the style for stroke corners.
	Join graphics.LineJoinStyle
	// MiterLimit caps miter join length; must be at least 1.0.
	MiterLimit float64
	// Dash specifies alternating on/off lengths in user-space units. Nil
	// means solid.
	Dash []float64
	// DashPhase offsets into the dash pattern in user-space units.
	DashPhase float64

	// Internal buffers, reused across calls.
	ll    lineList
	hsegs []hSeg

	// Stroke scratch buffers, reused across calls to Stroke; see stroke.go.
	strokeScratch     Path
	segs              []strokeSegment
	segsOffsets       []int
	subpathClosed     []bool
	degeneratePoints  []vec.Vec2
	dashedSegs        []strokeSegment
	dashedSegsOffsets []int
	stroke            []vec.Vec2
	strokeOffsets     []int
}

// NewRasterizer returns a Rasterizer with the given clip rectangle and
// PostScript-ish default values for the other parameters.
func NewRasterizer(clip fixed.Rect) *Rasterizer {
	return &Rasterizer{
		Clip:       clip,
		Flatness:   defaultFlatness,
		CTM:        matrix.Identity,
		Width:      1.0,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,
	}
}

// FillNonZero fills p using the non-zero winding rule.
func (r *Rasterizer) FillNonZero(p *Path, dev Device) error {
	return r.Fill(p, NonZero, dev)
}

// FillEvenOdd fills p using the even-odd rule.
func (r *Rasterizer) FillEvenOdd(p *Path, dev Device) error {
	return r.Fill(p, EvenOdd, dev)
}

// Fill is the fill dispatcher (component 4.9): it computes the path's
// bounding box, intersects it with the clip, derives the fill-adjust
// margins, chooses between the trapezoid and scanline loops, and runs the
// chosen loop to completion.
func (r *Rasterizer) Fill(p *Path, rule Rule, dev Device) error {
	bbox, ok := p.bbox()
	if !ok {
		return nil
	}

	left, right, below, above := ComputeAdjust(r.AdjustX, r.AdjustY)

	expanded := fixed.Rect{
		LLx: bbox.LLx - left, LLy: bbox.LLy - below,
		URx: bbox.URx + right, URy: bbox.URy + above,
	}
	clip := r.Clip.Intersect(expanded)
	if clip.IsEmpty() {
		return nil
	}

	// is_spotan is a property of the device, not something the caller
	// requests separately: a Device that implements SpotAnalyzer always
	// receives raw trapezoid descriptors instead of rendered output, and
	// always goes through the trapezoid loop since the scanline loop has
	// no spot-analysis variant. Horizontal runs painted under a vertical
	// fill-adjust still reach it through FillRectangleDeviceROP.
	_, isSpotAnalyzer := dev.(SpotAnalyzer)

	opts := &FillOptions{
		AdjustLeft: left, AdjustRight: right,
		AdjustBelow: below, AdjustAbove: above,
		Clip:             clip,
		Rule:             rule,
		SmartWinding:     r.SmartWinding,
		IsSpotAnalyzer:   isSpotAnalyzer,
		FillByTrapezoids: isSpotAnalyzer || r.chooseTrapezoids(p),
		FillDirect:       true,
		Flatness:         r.Flatness,
		MaxBandHeight:    r.MaxBandHeight,
		Color:            r.Color,
	}

	r.ll.reset(p)
	r.hsegs = r.hsegs[:0]
	err := scanContours(p, &r.ll, clip.LLy, clip.URy, r.Flatness, &r.hsegs)
	if err == nil {
		if opts.FillByTrapezoids {
			err = runTrapezoidFill(&r.ll, r.hsegs, opts, dev)
		} else {
			err = runScanlineFill(&r.ll, r.hsegs, opts, dev)
		}
	}

	for sp := range p.subpaths {
		p.unspliceCloser(int32(sp))
	}
	return err
}

// chooseTrapezoids implements the algorithm-selection policy from the
// dispatcher: trapezoids whenever the path has no curves or the flattening
// tolerance is coarse; scanlines when curves are present together with a
// fill-adjust that would otherwise double-paint overlapping adjusted
// trapezoids at shallow slants, and also once a path has enough subpaths
// that the trapezoid loop's per-band double-paint at adjusted seams would
// compound across all of them.
func (r *Rasterizer) chooseTrapezoids(p *Path) bool {
	adjusted := r.AdjustX != 0 || r.AdjustY != 0
	if adjusted && p.numSubpaths() >= bigPathSubpathThreshold {
		return false
	}
	if !p.hasCurve {
		return true
	}
	if r.Flatness >= 1.0 {
		return true
	}
	if !adjusted {
		return true
	}
	return false
}

// Default values for rasterizer parameters.
const (
	// defaultFlatness is the default curve flattening tolerance in device
	// pixels. 0.25 is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit is the default miter limit, matching PDF/PostScript.
	// This converts joins to bevels when the interior angle is less than
	// approximately 11.5 degrees.
	defaultMiterLimit = 10.0
)

// transformLinear applies only the 2x2 linear part of CTM to a vector. Used
// by Stroke's addArc for CTM-aware cap/join arc flatness, where translation
// is irrelevant: it needs the device-space scale of a user-space length,
// not its position. flattenStrokePath does not consult it.
func (r *Rasterizer) transformLinear(v fixed.Point) fixed.Point {
	x, y := v.X.ToFloat64(), v.Y.ToFloat64()
	return fixed.Point{
		X: fixed.FromFloat64(r.CTM[0]*x + r.CTM[2]*y),
		Y: fixed.FromFloat64(r.CTM[1]*x + r.CTM[3]*y),
	}
}

// Geometric tolerances for stroke outline construction, carried over
// unchanged from the coverage-based rasterizer this package started from.
const (
	// zeroLengthThreshold is the minimum length for a stroke segment.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is used to detect nearly collinear segments
	// (sin of the angle between tangents below this is treated as straight).
	collinearityThreshold = 1e-6

	// cuspCosineThreshold is the cosine threshold for detecting cusps (path
	// doubling back on itself) at a join.
	cuspCosineThreshold = -0.9999
)

// bigPathSubpathThreshold is the subpath count at or above which
// chooseTrapezoids prefers the scanline loop once fill-adjust is active:
// with many contacting contours the per-band
// double-paint at adjusted seams that the trapezoid loop tolerates for
// FillDirect back-ends compounds across contours, where the scanline loop's
// per-row coalescing stays exact regardless of subpath count.
const bigPathSubpathThreshold = 50
