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

package raster

import "scanfill.dev/core/fixed"

// segKind distinguishes the four segment variants a Path can hold.
type segKind uint8

const (
	segStart segKind = iota
	segLine
	segCurve
	segClose
)

// segment is one element of a subpath ring. Forward and backward links are
// indices into Path.segs rather than pointers, so that a Path can be
// copied, reused and reset without chasing pointers or triggering escape
// analysis on every node.
type segment struct {
	kind   segKind
	pt     fixed.Point // segment endpoint
	c1, c2 fixed.Point // control points, only meaningful for segCurve

	next, prev int32 // ring links within the owning subpath, -1 if unset
	subpath    int32 // index into Path.subpaths
}

// subpath is a ring of segments plus the bookkeeping needed to splice a
// synthetic closer in and back out again.
type subpath struct {
	first, last int32 // indices into Path.segs

	// closer is the index of an implicit closing segment spliced onto the
	// ring by the contour scanner when the subpath was not explicitly
	// closed. It is -1 when no splice is outstanding. Rasterizer.Fill
	// reverts every splice before returning, whether or not the fill failed.
	closer int32
}

// Path is an input path: a sequence of subpaths, each a ring of line and
// curve segments in device-space fixed-point coordinates. Build one with
// MoveTo/LineTo/CurveTo/Close, or reuse an existing value by calling Reset.
type Path struct {
	segs     []segment
	subpaths []subpath

	cur     fixed.Point // current point while building
	curSub  int32       // index of subpath currently open, -1 if none
	started bool

	// hasCurve records whether any CurveTo call has been made, so the fill
	// dispatcher can skip scanline-vs-trapezoid analysis for the common
	// all-straight-line case.
	hasCurve bool
}

// Reset empties the path so its backing arrays can be reused for a new
// path without reallocating.
func (p *Path) Reset() {
	p.segs = p.segs[:0]
	p.subpaths = p.subpaths[:0]
	p.curSub = -1
	p.started = false
	p.hasCurve = false
}

// MoveTo starts a new subpath at pt.
func (p *Path) MoveTo(pt fixed.Point) *Path {
	sp := subpath{closer: -1}
	spIdx := int32(len(p.subpaths))
	p.subpaths = append(p.subpaths, sp)

	segIdx := int32(len(p.segs))
	p.segs = append(p.segs, segment{
		kind: segStart, pt: pt,
		next: -1, prev: -1, subpath: spIdx,
	})
	p.subpaths[spIdx].first = segIdx
	p.subpaths[spIdx].last = segIdx

	p.cur = pt
	p.curSub = spIdx
	p.started = true
	return p
}

func (p *Path) appendSeg(s segment) int32 {
	s.subpath = p.curSub
	idx := int32(len(p.segs))
	s.prev = p.subpaths[p.curSub].last
	s.next = -1
	p.segs[s.prev].next = idx
	p.segs = append(p.segs, s)
	p.subpaths[p.curSub].last = idx
	return idx
}

// LineTo appends a straight segment ending at pt.
func (p *Path) LineTo(pt fixed.Point) *Path {
	p.appendSeg(segment{kind: segLine, pt: pt})
	p.cur = pt
	return p
}

// CurveTo appends a cubic Bézier segment with the given control points and
// endpoint.
func (p *Path) CurveTo(c1, c2, pt fixed.Point) *Path {
	p.appendSeg(segment{kind: segCurve, c1: c1, c2: c2, pt: pt})
	p.cur = pt
	p.hasCurve = true
	return p
}

// Close appends an explicit closing segment back to the subpath's start
// point, if the current point is not already there. It is legal to call
// Close on an already-closed or empty subpath; both are no-ops.
func (p *Path) Close() *Path {
	if p.curSub < 0 {
		return p
	}
	startIdx := p.subpaths[p.curSub].first
	start := p.segs[startIdx].pt
	if start != p.cur {
		p.appendSeg(segment{kind: segClose, pt: start})
	}
	p.cur = start
	return p
}

// bbox returns the path's bounding box in fixed-point, and whether the path
// has any segments at all.
func (p *Path) bbox() (fixed.Rect, bool) {
	if len(p.segs) == 0 {
		return fixed.Rect{}, false
	}

	empty := fixed.Rect{
		LLx: fixed.MaxFixed, LLy: fixed.MaxFixed,
		URx: fixed.MinFixed, URy: fixed.MinFixed,
	}
	perSubpath := make([]fixed.Rect, len(p.subpaths))
	for i := range perSubpath {
		perSubpath[i] = empty
	}
	for i := range p.segs {
		s := &p.segs[i]
		r := &perSubpath[s.subpath]
		r.LLx = fixed.Min(r.LLx, s.pt.X)
		r.LLy = fixed.Min(r.LLy, s.pt.Y)
		r.URx = fixed.Max(r.URx, s.pt.X)
		r.URy = fixed.Max(r.URy, s.pt.Y)
		if s.kind == segCurve {
			for _, c := range [2]fixed.Point{s.c1, s.c2} {
				r.LLx = fixed.Min(r.LLx, c.X)
				r.LLy = fixed.Min(r.LLy, c.Y)
				r.URx = fixed.Max(r.URx, c.X)
				r.URy = fixed.Max(r.URy, c.Y)
			}
		}
	}

	out := empty
	for _, r := range perSubpath {
		out = out.Union(r)
	}
	return out, true
}

// numSubpaths reports how many subpaths the path currently holds; used by
// the fill dispatcher's "big path" threshold.
func (p *Path) numSubpaths() int {
	return len(p.subpaths)
}

// startPointOf returns the anchor point of subpath sp.
func (p *Path) startPointOf(sp int32) fixed.Point {
	return p.segs[p.subpaths[sp].first].pt
}

// ensureCloser splices a synthetic close segment onto subpath sp if the
// subpath was left open, and records the new segment's index in the
// subpath's closer field so the caller can unsplice it later. Subpaths
// that are already closed (last segment is a close segment, or its point
// equals the start point) get no splice and closer is left at -1.
func (p *Path) ensureCloser(sp int32) {
	s := &p.subpaths[sp]
	if s.closer >= 0 {
		return
	}
	lastIdx := s.last
	last := p.segs[lastIdx]
	start := p.segs[s.first].pt
	if last.kind == segClose || last.pt == start {
		return
	}
	idx := int32(len(p.segs))
	p.segs = append(p.segs, segment{
		kind: segClose, pt: start,
		prev: lastIdx, next: -1, subpath: sp,
	})
	p.segs[lastIdx].next = idx
	s.last = idx
	s.closer = idx
}

// unspliceCloser removes a closer segment previously added by ensureCloser,
// restoring the subpath to its original open state. Safe to call even if
// no splice is outstanding.
func (p *Path) unspliceCloser(sp int32) {
	s := &p.subpaths[sp]
	if s.closer < 0 {
		return
	}
	closerIdx := s.closer
	prevIdx := p.segs[closerIdx].prev
	p.segs[prevIdx].next = -1
	s.last = prevIdx
	s.closer = -1
	// Note: the closer segment's slot in p.segs is left in place, unlinked
	// from the ring; a later ensureCloser appends a fresh closer rather than
	// reusing it, and Reset() discards all of them.
}
