// Package allocator implements a single-threaded, region-growing,
// implicit-free-list heap manager: a drop-in replacement for the
// malloc/free/calloc/realloc interface, built on top of a program-break-
// like primitive instead of relying on Go's own runtime allocator.
package allocator

import (
	"unsafe"

	allocerrors "github.com/orizon-lang/heapd/internal/errors"
)

// Heap is one independent heap: a break arena, the address-ordered block
// list it has been carved into, the active placement policy, and the
// statistics counters touched at every structural event. Its state is
// unsynchronized by contract — a single Heap value must be driven by one
// goroutine at a time. Use Guarded to share one across goroutines.
type Heap struct {
	arena  *breakArena
	policy Policy

	head   *rawHeader
	tail   *rawHeader
	cursor *rawHeader // next-fit resumption point; nil before first use

	stats counters
	sink  Sink
}

// New constructs an empty Heap. The default policy comes from whichever
// of the fit/best/worst/next build tags was set at build time (first-fit
// if none was); pass WithPolicy to override it.
func New(opts ...Option) (*Heap, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.ArenaCapacity == 0 {
		return nil, allocerrors.InvalidSize(cfg.ArenaCapacity, "WithArenaCapacity")
	}

	arena, err := newBreakArena(cfg.ArenaCapacity)
	if err != nil {
		return nil, err
	}

	return &Heap{
		arena:  arena,
		policy: cfg.Policy,
		sink:   cfg.Sink,
	}, nil
}

// alignUp4 rounds n up to the next multiple of 4. This maps 0 to 4 —
// deliberately preserved, not "fixed" — but Allocate short-circuits a zero
// request before this has any effect.
func alignUp4(n uintptr) uintptr {
	return (((n - 1) >> 2) << 2) + 4
}

// Allocate returns a payload pointer of at least n usable bytes, or nil if
// n is zero or the heap could not be grown to satisfy the request.
func (h *Heap) Allocate(n uintptr) unsafe.Pointer {
	if n == 0 {
		return nil
	}

	size := alignUp4(n)

	var (
		chosen *rawHeader
		last   *rawHeader
	)

	if h.head == nil {
		blk, ok := h.grow(nil, size)
		if !ok {
			return nil
		}

		h.head = blk
		// Blocks is double-counted on the very first allocation: once
		// inside grow, once more here. Preserved verbatim, not "fixed".
		h.stats.blocks++

		chosen = blk
	} else {
		chosen, last = h.findFree(size)

		if chosen == nil {
			blk, ok := h.grow(last, size)
			if !ok {
				return nil
			}

			chosen = blk
		} else {
			h.maybeSplit(chosen, size)
		}
	}

	chosen.free = false
	h.stats.mallocs++
	h.stats.requested += uint64(size)

	return unsafe.Pointer(chosen.payload())
}

// Release returns a previously allocated payload pointer to the heap. A
// nil pointer is a no-op. Releasing a block twice is a fatal programming
// error and panics rather than returning an error.
func (h *Heap) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	blk := headerFromPayload(uintptr(p))
	if blk.free {
		panic(errDoubleFree(uintptr(p)))
	}

	blk.free = true
	h.stats.frees++

	h.coalesce(blk)
}

// ZeroAllocate allocates room for count objects of size elemSize each and
// zeroes the returned payload. Overflow of count*elemSize is not checked —
// deliberately preserved, not "fixed".
func (h *Heap) ZeroAllocate(count, elemSize uintptr) unsafe.Pointer {
	p := h.Allocate(count * elemSize)
	if p == nil {
		return nil
	}

	blk := headerFromPayload(uintptr(p))
	zero := unsafe.Slice((*byte)(p), blk.size)

	for i := range zero {
		zero[i] = 0
	}

	return p
}

// Reallocate resizes the allocation at p to n bytes. A nil p behaves as
// Allocate(n). When n fits within the existing payload the same pointer
// is returned unchanged — no shrink, no split of the freed tail;
// deliberately preserved, not "fixed". Otherwise a new block is
// allocated, the old payload copied over, and the old block released; if
// the new allocation fails, the old block is left intact and nil is
// returned.
func (h *Heap) Reallocate(p unsafe.Pointer, n uintptr) unsafe.Pointer {
	if p == nil {
		return h.Allocate(n)
	}

	blk := headerFromPayload(uintptr(p))
	if n <= blk.size {
		return p
	}

	newP := h.Allocate(n)
	if newP == nil {
		return nil
	}

	src := unsafe.Slice((*byte)(p), blk.size)
	dst := unsafe.Slice((*byte)(newP), blk.size)
	copy(dst, src)

	h.Release(p)

	return newP
}

// Snapshot returns the current statistics, tagged with this heap's active
// policy character.
func (h *Heap) Snapshot() Stats {
	return h.stats.snapshot(h.policy.used())
}

// FlushStats hands the current snapshot to the heap's sink. Go has no
// portable equivalent of C's atexit(); callers are expected to `defer
// heap.FlushStats()` themselves (as cmd/heapctl does). Only the package's
// default heap behind Alloc/Free/Calloc/Realloc also flushes on a
// termination signal (see registerExitFlush in global.go).
func (h *Heap) FlushStats() {
	if h.sink == nil {
		return
	}

	h.sink.Report(h.Snapshot())
}
