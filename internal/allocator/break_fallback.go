//go:build !unix

package allocator

// newReservation backs the break arena with a plain Go slice on GOOS where
// mmap is not available through golang.org/x/sys/unix (e.g. windows). The
// reservation semantics (fixed capacity, never reallocated, bumped forward
// only) are identical to the unix mmap-backed reservation — only the
// source of the backing bytes differs.
func newReservation(capacity uintptr) ([]byte, error) {
	return make([]byte, capacity), nil
}
