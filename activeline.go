package raster

import (
	"slices"

	"scanfill.dev/core/fixed"
)

// activeLine describes one edge currently crossed by the sweep line.
// start.Y <= end.Y always holds; horizontal edges never appear here, the
// contour scanner records them as hSeg entries instead.
type activeLine struct {
	start, end fixed.Point
	xCurrent   fixed.Int // X at the current sweep Y
	xNext      fixed.Int // X at the proposed next band top
	dir        direction
	monotonicY bool // false while a curve sub-segment is mid-expansion
	contour    int32
	segIdx     int32 // path.segs index of the segment this edge is walking
	iter       flatIterator

	// prevX/nextX form the X-ordered doubly linked active ring using pool
	// indices in place of pointers. Index 0 is always the sentinel.
	prevX, nextX int32
}

// lineList is the transient per-fill container: the Y-sorted waiting list,
// the X-sorted active list (with a permanent sentinel at pool[0]), and a
// pool of active-line slots reused across fills. Horizontal edges are not
// held here; the fill loops receive them as a separate []hSeg.
type lineList struct {
	path *Path

	pool []activeLine // pool[0] is the permanent sentinel
	free []int32      // indices recycled from the active ring

	waiting  []int32 // pool indices, sorted ascending by start.Y
	waitNext int     // cursor into waiting

	hList0, hList1 []int32 // cleared by reset; the fill loops do not use them

	numContours int32
}

func (ll *lineList) reset(path *Path) {
	ll.path = path
	if len(ll.pool) == 0 {
		ll.pool = append(ll.pool, activeLine{xCurrent: fixed.MinFixed})
	}
	ll.pool = ll.pool[:1]
	ll.pool[0] = activeLine{xCurrent: fixed.MinFixed, prevX: 0, nextX: 0}
	ll.free = ll.free[:0]
	ll.waiting = ll.waiting[:0]
	ll.waitNext = 0
	ll.hList0 = ll.hList0[:0]
	ll.hList1 = ll.hList1[:0]
	ll.numContours = 0
}

// alloc returns the pool index of a fresh, zeroed active line.
func (ll *lineList) alloc() int32 {
	if n := len(ll.free); n > 0 {
		idx := ll.free[n-1]
		ll.free = ll.free[:n-1]
		ll.pool[idx] = activeLine{}
		return idx
	}
	idx := int32(len(ll.pool))
	ll.pool = slices.Grow(ll.pool, 1)
	ll.pool = append(ll.pool, activeLine{})
	return idx
}

func (ll *lineList) release(idx int32) {
	ll.free = append(ll.free, idx)
}

func (ll *lineList) at(idx int32) *activeLine {
	return &ll.pool[idx]
}

// addWaiting enqueues a freshly allocated active line onto the Y-sorted
// waiting list; the list is sorted once after contour scanning completes.
func (ll *lineList) addWaiting(idx int32) {
	ll.waiting = append(ll.waiting, idx)
}

func (ll *lineList) sortWaiting() {
	slices.SortFunc(ll.waiting, func(a, b int32) int {
		ya, yb := ll.pool[a].start.Y, ll.pool[b].start.Y
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		default:
			return 0
		}
	})
}

// nextWaitingY returns the start.Y of the next not-yet-activated waiting
// edge, and whether one exists.
func (ll *lineList) nextWaitingY() (fixed.Int, bool) {
	if ll.waitNext >= len(ll.waiting) {
		return 0, false
	}
	return ll.pool[ll.waiting[ll.waitNext]].start.Y, true
}

// xOrderLess implements the X-ordering predicate from the intersection
// resolver's specification: compare current X, then slope sign, then a
// cross-product of the two edges' (dx,dy) vectors. The cross product is
// computed in float64; fixed-point coordinates here have at most 20
// integer bits so the product cannot lose the sign bit in practice, but
// extreme device coordinates (beyond +-2^15) can still confuse this
// comparison, a limitation inherited unfixed.
func xOrderLess(a, b *activeLine) bool {
	if a.xCurrent != b.xCurrent {
		return a.xCurrent < b.xCurrent
	}
	aRight := a.end.X >= a.start.X
	bRight := b.end.X >= b.start.X
	if aRight != bRight {
		// At a shared X the edge heading left-to-right lies to the right
		// just above the current Y, so it sorts after the one heading
		// right-to-left.
		return !aRight
	}
	dxA := float64(a.end.X - a.start.X)
	dyA := float64(a.end.Y - a.start.Y)
	dxB := float64(b.end.X - b.start.X)
	dyB := float64(b.end.Y - b.start.Y)
	cross := dxA*dyB - dxB*dyA
	return cross < 0
}

// insertActive inserts the active line at idx into the X-ordered ring,
// scanning forward from the sentinel. N is small for typical fills so a
// linear scan is preferable to a balanced tree.
func (ll *lineList) insertActive(idx int32) {
	al := ll.at(idx)
	cur := int32(0) // sentinel
	for {
		next := ll.pool[cur].nextX
		if next == 0 || xOrderLess(al, &ll.pool[next]) {
			break
		}
		cur = next
	}
	next := ll.pool[cur].nextX
	al.prevX = cur
	al.nextX = next
	ll.pool[cur].nextX = idx
	if next != 0 {
		ll.pool[next].prevX = idx
	}
}

// removeActive unlinks idx from the X-ordered ring without releasing its
// pool slot to the caller (the caller decides whether to recycle it).
func (ll *lineList) removeActive(idx int32) {
	al := ll.at(idx)
	prev, next := al.prevX, al.nextX
	ll.pool[prev].nextX = next
	if next != 0 {
		ll.pool[next].prevX = prev
	}
	al.prevX, al.nextX = 0, 0
}

// resortLine re-establishes X order for idx after its xCurrent changed,
// walking it backward or forward until it is between its new neighbours.
// A nil (index 0, the sentinel) previous node is tolerated without
// special-casing, since degenerate paths can legitimately walk a line all
// the way to the head.
func (ll *lineList) resortLine(idx int32) {
	al := ll.at(idx)

	// Walk backward while out of order.
	for al.prevX != 0 && xOrderLess(al, &ll.pool[al.prevX]) {
		ll.swapWithPrev(idx)
	}
	// Walk forward while out of order.
	for al.nextX != 0 && xOrderLess(&ll.pool[al.nextX], al) {
		ll.swapWithNext(idx)
	}
}

// swapWithPrev exchanges idx with its immediate predecessor p, so the
// order ... pp, p, idx, n ... becomes ... pp, idx, p, n ...
func (ll *lineList) swapWithPrev(idx int32) {
	al := ll.at(idx)
	p := al.prevX
	pal := ll.at(p)
	pp := pal.prevX
	n := al.nextX

	ll.pool[pp].nextX = idx
	al.prevX = pp
	al.nextX = p

	pal.prevX = idx
	pal.nextX = n

	if n != 0 {
		ll.pool[n].prevX = p
	}
}

func (ll *lineList) swapWithNext(idx int32) {
	al := ll.at(idx)
	n := al.nextX
	nal := ll.at(n)

	nn := nal.nextX
	p := al.prevX

	ll.pool[p].nextX = n
	nal.prevX = p
	nal.nextX = idx
	al.prevX = n
	al.nextX = nn
	if nn != 0 {
		ll.pool[nn].prevX = idx
	}
}
