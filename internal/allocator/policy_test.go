package allocator

import (
	"testing"
	"time"
)

// buildFreeList grows sizes[0], sizes[1], ... in order and marks every one
// of them free, bypassing Release (and therefore its coalescing) so the
// resulting list has adjacent free blocks of known sizes. This is
// white-box construction of a list the public API alone cannot produce
// (adjacent free blocks violate the no-adjacent-free-blocks invariant
// between public calls), used here only to pin down findFree's traversal
// order in isolation from the coalescer.
func buildFreeList(t *testing.T, h *Heap, sizes ...uintptr) []*rawHeader {
	t.Helper()

	blocks := make([]*rawHeader, len(sizes))

	var last *rawHeader

	for i, sz := range sizes {
		blk, ok := h.grow(last, sz)
		if !ok {
			t.Fatalf("grow(%d) failed", sz)
		}

		blk.free = true
		blocks[i] = blk
		last = blk

		if i == 0 {
			h.head = blk
		}
	}

	return blocks
}

func TestFirstFitReturnsEarliestQualifier(t *testing.T) {
	h := newTestHeap(t, WithPolicy(PolicyFirstFit))
	blocks := buildFreeList(t, h, 16, 16, 32)

	got, _ := h.findFree(12)
	if got != blocks[0] {
		t.Fatalf("first-fit returned block %p, want the first 16-byte block %p", got, blocks[0])
	}
}

// TestBestFitTieBreaksToEarliest checks that among equally-sized
// qualifying blocks, best-fit returns the one encountered first.
func TestBestFitTieBreaksToEarliest(t *testing.T) {
	h := newTestHeap(t, WithPolicy(PolicyBestFit))
	blocks := buildFreeList(t, h, 16, 16, 32)

	got, _ := h.findFree(12)
	if got != blocks[0] {
		t.Fatalf("best-fit returned block %p, want the earliest 16-byte block %p", got, blocks[0])
	}

	if h.stats.reuses != 1 {
		t.Fatalf("reuses = %d, want 1", h.stats.reuses)
	}
}

// TestWorstFitReturnsLargest checks that worst-fit returns the largest
// qualifying block rather than the first or smallest.
func TestWorstFitReturnsLargest(t *testing.T) {
	h := newTestHeap(t, WithPolicy(PolicyWorstFit))
	blocks := buildFreeList(t, h, 16, 32, 24)

	got, _ := h.findFree(12)
	if got != blocks[1] {
		t.Fatalf("worst-fit returned block %p, want the 32-byte block %p", got, blocks[1])
	}
}

// TestNextFitWrapsAndResumes checks that with the cursor parked at B in
// {A, B, C}, a request starts its scan at C, and a second
// request (after the cursor advances to C) resumes at A.
func TestNextFitWrapsAndResumes(t *testing.T) {
	h := newTestHeap(t, WithPolicy(PolicyNextFit))
	blocks := buildFreeList(t, h, 16, 16, 16)

	a, b, c := blocks[0], blocks[1], blocks[2]
	h.cursor = b

	got := h.findNextFit(12)
	if got != c {
		t.Fatalf("first next-fit search returned %p, want C (%p)", got, c)
	}

	if h.cursor != c {
		t.Fatalf("cursor after first search = %p, want C (%p)", h.cursor, c)
	}

	got = h.findNextFit(12)
	if got != a {
		t.Fatalf("second next-fit search returned %p, want A (%p)", got, a)
	}

	if h.cursor != a {
		t.Fatalf("cursor after second search = %p, want A (%p)", h.cursor, a)
	}
}

func TestNextFitNoMatchReturnsNilWithoutLooping(t *testing.T) {
	h := newTestHeap(t, WithPolicy(PolicyNextFit))
	buildFreeList(t, h, 4, 4, 4)

	// Every block is smaller than the request: the circular scan must
	// terminate, not loop forever.
	done := make(chan *rawHeader, 1)
	go func() { done <- h.findNextFit(4096) }()

	select {
	case got := <-done:
		if got != nil {
			t.Fatalf("findNextFit with no qualifier = %p, want nil", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("findNextFit did not terminate — suspected infinite loop")
	}
}

func TestFindFreeLastIsAbsentForNextFit(t *testing.T) {
	h := newTestHeap(t, WithPolicy(PolicyNextFit))
	buildFreeList(t, h, 16, 16, 16)

	_, last := h.findFree(12)
	if last != nil {
		t.Fatalf("next-fit findFree reported a non-nil last: %p", last)
	}
}

// TestNextFitGrowthSplicesOntoTail drives two forced growths through the
// real Allocate path under next-fit, where findFree always reports a nil
// last (see TestFindFreeLastIsAbsentForNextFit). The second block must
// still land in the list reachable from head, not just from h.tail.
func TestNextFitGrowthSplicesOntoTail(t *testing.T) {
	h := newTestHeap(t, WithPolicy(PolicyNextFit))

	pa := h.Allocate(16)
	if pa == nil {
		t.Fatal("Allocate(16) returned nil")
	}

	a := headerFromPayload(uintptr(pa))

	// a is still in use, so findNextFit cannot find a qualifier and
	// Allocate must grow a second block right after a.
	pb := h.Allocate(16)
	if pb == nil {
		t.Fatal("Allocate(16) returned nil")
	}

	b := headerFromPayload(uintptr(pb))

	if a.next != b.addr() {
		t.Fatalf("a.next = %#x, want b's address %#x — b was not linked after a", a.next, b.addr())
	}

	if b.prev != a.addr() {
		t.Fatalf("b.prev = %#x, want a's address %#x", b.prev, a.addr())
	}

	if h.head.nextHeader() != b {
		t.Fatal("b is not reachable by walking from h.head — it was spliced out of the list")
	}

	if h.tail != b {
		t.Fatalf("h.tail = %p, want b (%p)", h.tail, b)
	}

	h.Release(pa)
	h.Release(pb)

	if st := h.Snapshot(); st.Coalesces != 1 {
		t.Fatalf("Coalesces = %d, want 1 — a and b should have merged on release", st.Coalesces)
	}
}
