//go:build unix

package allocator

import "golang.org/x/sys/unix"

// newReservation reserves capacity bytes of anonymous address space via
// mmap — the closest faithful analogue of sbrk's reservation that Go can
// safely perform. Go cannot call the real sbrk/brk: the Go runtime's own
// memory allocator already owns the process break, and moving it out from
// under the runtime would corrupt the heap. mmap gives us a private,
// zero-filled region of genuine OS address space instead, which we then
// bump a break pointer through ourselves.
func newReservation(capacity uintptr) ([]byte, error) {
	return unix.Mmap(-1, 0, int(capacity), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}
