package raster

import "scanfill.dev/core/fixed"

// rangeEntry is one half-open interval [min, max) in a rangeList.
type rangeEntry struct {
	min, max int
	prev     int32
	next     int32
}

// rangeList is a doubly-linked list of disjoint, non-adjacent half-open
// integer intervals, bounded by two sentinels that never coalesce with
// real content: [minInt,minInt) at the head and [maxInt,maxInt) at the
// tail. Used by the scanline fill loop to accumulate one scanline's worth
// of covered pixel runs before flushing them to the device.
type rangeList struct {
	entries []rangeEntry // entries[0] = head sentinel, entries[1] = tail sentinel
	free    []int32
	cursor  int32 // last-touched entry, for the common monotonic-insert case
}

const (
	rangeHead int32 = 0
	rangeTail int32 = 1
	minInt          = -(1 << 30)
	maxInt          = 1 << 30
)

func (rl *rangeList) reset() {
	rl.entries = rl.entries[:0]
	rl.entries = append(rl.entries,
		rangeEntry{min: minInt, max: minInt, prev: -1, next: rangeTail},
		rangeEntry{min: maxInt, max: maxInt, prev: rangeHead, next: -1},
	)
	rl.free = rl.free[:0]
	rl.cursor = rangeHead
}

func (rl *rangeList) alloc() int32 {
	if n := len(rl.free); n > 0 {
		idx := rl.free[n-1]
		rl.free = rl.free[:n-1]
		return idx
	}
	idx := int32(len(rl.entries))
	rl.entries = append(rl.entries, rangeEntry{})
	return idx
}

// add inserts [rmin, rmax) into the list, merging with any ranges it
// touches or overlaps. rmin must be < rmax.
//
// The cursor from the previous call seeds the search: ranges tend to be
// added in increasing X order within one scanline, so starting from
// wherever the last add() left off is usually an O(1) walk rather than a
// scan from the head.
func (rl *rangeList) add(rmin, rmax int) {
	if rmin >= rmax {
		return
	}

	idx := rl.cursor
	for idx != rangeHead && rl.entries[idx].max >= rmin {
		idx = rl.entries[idx].prev
	}
	idx = rl.entries[idx].next
	for idx != rangeTail && rl.entries[idx].max < rmin {
		idx = rl.entries[idx].next
	}

	// idx is now either rangeTail, or the first real entry whose max >=
	// rmin. Merge every entry that overlaps or touches [rmin,rmax) into
	// one combined interval, removing the merged-away entries.
	lo, hi := rmin, rmax
	for idx != rangeTail && rl.entries[idx].min <= hi {
		lo = min(lo, rl.entries[idx].min)
		hi = max(hi, rl.entries[idx].max)
		nxt := rl.entries[idx].next
		rl.removeEntry(idx)
		idx = nxt
	}

	prev := rl.entries[idx].prev
	rl.cursor = rl.insertBetween(prev, idx, lo, hi)
}

func (rl *rangeList) insertBetween(prevIdx, nextIdx int32, rmin, rmax int) int32 {
	n := rl.alloc()
	rl.entries[n] = rangeEntry{min: rmin, max: rmax, prev: prevIdx, next: nextIdx}
	rl.entries[prevIdx].next = n
	rl.entries[nextIdx].prev = n
	return n
}

func (rl *rangeList) removeEntry(idx int32) {
	e := rl.entries[idx]
	rl.entries[e.prev].next = e.next
	rl.entries[e.next].prev = e.prev
	rl.free = append(rl.free, idx)
}

// flush calls emit once per real range in ascending order, then clears
// the list for the next scanline.
func (rl *rangeList) flush(emit func(min, max int)) {
	idx := rl.entries[rangeHead].next
	for idx != rangeTail {
		e := rl.entries[idx]
		emit(e.min, e.max)
		idx = e.next
	}
	rl.reset()
}

// addFixedRun is a convenience wrapper that converts a fixed-point X
// interval to an integer pixel run and adds it: both the adjusted left
// bound and the adjusted right bound round up to a whole pixel
// (ToIntCeiling). The scanline fill loop does not call it; it uses addRun.
func (rl *rangeList) addFixedRun(x0, x1, adjustLeft, adjustRight fixed.Int) {
	lo := (x0 - adjustLeft).ToIntCeiling()
	hi := (x1 + adjustRight).ToIntCeiling()
	rl.add(lo, hi)
}
