package allocator

// grow appends a new in-use block of the given payload size at the current
// break, linking it after last (nil meaning the list was empty). A new
// block always lands physically right after the current break, i.e. right
// after h.tail, so a nil last is substituted with h.tail whenever the list
// is non-empty — callers such as next-fit's search never discover the
// tail themselves and would otherwise hand in a stale nil, splicing the
// new block out of the list. It reports ok=false, without mutating any
// counters, if the break arena's reservation is exhausted.
func (h *Heap) grow(last *rawHeader, size uintptr) (blk *rawHeader, ok bool) {
	if last == nil {
		last = h.tail
	}

	recorded := h.arena.currentBreak()

	old, extended := h.arena.extend(headerSize + size)
	if !extended {
		return nil, false
	}

	if old != recorded {
		panic(errBreakMismatch(recorded, old))
	}

	blk = headerAt(old)
	blk.size = size
	blk.free = false
	blk.next = 0

	linkAfter(last, blk)

	h.tail = blk

	h.stats.grows++
	h.stats.blocks++
	h.stats.maxHeap += uint64(headerSize + size)

	return blk, true
}
