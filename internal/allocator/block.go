package allocator

import "unsafe"

// rawHeader is the fixed-size metadata prepended to every block. It lives
// directly inside the break arena's backing bytes — there is no separate
// Go allocation per block — so its fields are raw addresses into that
// arena rather than ordinary Go pointers: the linked list threads through
// addresses embedded in the memory it describes, not through Go-managed
// pointers.
//
// next/prev are 0 when absent (an arena address of 0 can never be a valid
// block, since every block sits after the arena's base offset).
type rawHeader struct {
	size uintptr
	next uintptr
	prev uintptr
	free bool
}

// headerSize is the header's footprint in bytes, header-to-header. On a
// 64-bit platform this is 32 bytes: three 8-byte words plus the free
// flag, padded to the struct's 8-byte alignment.
var headerSize = unsafe.Sizeof(rawHeader{})

// headerAt reinterprets the arena byte at addr as a block header. addr must
// be a value previously produced by this package (a block's own address, or
// one of its neighbor links) — never an arbitrary offset.
func headerAt(addr uintptr) *rawHeader {
	if addr == 0 {
		return nil
	}

	return (*rawHeader)(unsafe.Pointer(addr)) //nolint:govet // deliberate raw-address cast, see type doc
}

// addr returns h's own address, suitable for storing into a neighbor's
// next/prev field.
func (h *rawHeader) addr() uintptr {
	return uintptr(unsafe.Pointer(h))
}

// payload returns the address of the byte immediately following h — the
// pointer a caller of Allocate receives.
func (h *rawHeader) payload() uintptr {
	return h.addr() + headerSize
}

// headerFromPayload recovers the owning header from a payload address
// previously returned by Allocate.
func headerFromPayload(payload uintptr) *rawHeader {
	return headerAt(payload - headerSize)
}

// end returns the address one past h's payload — where h's successor's
// header starts, or where the break currently sits if h is the tail.
func (h *rawHeader) end() uintptr {
	return h.payload() + h.size
}

func (h *rawHeader) nextHeader() *rawHeader {
	return headerAt(h.next)
}

func (h *rawHeader) prevHeader() *rawHeader {
	return headerAt(h.prev)
}

// linkAfter threads h into the list immediately after prev (prev may be
// nil, meaning h becomes the new head). It does not touch h.next; callers
// splice that separately when inserting in the middle of the list.
func linkAfter(prev, h *rawHeader) {
	h.prev = 0
	if prev != nil {
		h.prev = prev.addr()
		prev.next = h.addr()
	}
}

// unlink removes h from the list, patching its neighbors' links. h's own
// next/prev are left stale; the caller is expected to have already copied
// whatever it needed. coalesce does not call this helper: it splices its
// absorbed neighbor out of the list inline.
func unlink(h *rawHeader) {
	next, prev := h.nextHeader(), h.prevHeader()

	if prev != nil {
		prev.next = h.next
	}

	if next != nil {
		next.prev = h.prev
	}
}
