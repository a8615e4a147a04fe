package allocator

// coalesce merges c, a block that was just marked free, with any free
// neighbors. Forward merge runs first, then backward — in that order, so
// that when c sits between two free blocks, step one enlarges c before
// step two absorbs the enlarged c into its predecessor, leaving no free
// block adjacent to another free block (invariant 3) in either case.
func (h *Heap) coalesce(c *rawHeader) {
	if next := c.nextHeader(); next != nil && next.free {
		c.size += next.size + headerSize
		c.next = next.next

		if nn := next.nextHeader(); nn != nil {
			nn.prev = c.addr()
		} else {
			h.tail = c
		}

		if h.cursor == next {
			h.cursor = c
		}

		h.stats.coalesces++
	}

	if prev := c.prevHeader(); prev != nil && prev.free {
		prev.size += c.size + headerSize
		prev.next = c.next

		if n := c.nextHeader(); n != nil {
			n.prev = prev.addr()
		} else {
			h.tail = prev
		}

		if h.cursor == c {
			h.cursor = prev
		}

		h.stats.coalesces++
	}
}
