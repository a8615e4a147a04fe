package allocator

import (
	"os"
	"sync"
	"unsafe"
)

// Guarded wraps a Heap with a single coarse mutex interposed at the facade
// boundary for multi-threaded callers — the core Heap itself stays
// unsynchronized by contract.
type Guarded struct {
	mu   sync.Mutex
	heap *Heap
}

// NewGuarded constructs a Guarded heap.
func NewGuarded(opts ...Option) (*Guarded, error) {
	h, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return &Guarded{heap: h}, nil
}

func (g *Guarded) Allocate(n uintptr) unsafe.Pointer {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.heap.Allocate(n)
}

func (g *Guarded) Release(p unsafe.Pointer) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.heap.Release(p)
}

func (g *Guarded) ZeroAllocate(count, elemSize uintptr) unsafe.Pointer {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.heap.ZeroAllocate(count, elemSize)
}

func (g *Guarded) Reallocate(p unsafe.Pointer, n uintptr) unsafe.Pointer {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.heap.Reallocate(p, n)
}

func (g *Guarded) Snapshot() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.heap.Snapshot()
}

func (g *Guarded) FlushStats() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.heap.FlushStats()
}

// Package-level convenience surface mirroring the C-ABI-shaped
// malloc/free/calloc/realloc call sites, backed by a lazily-initialized
// process-global default heap.
var (
	defaultOnce sync.Once
	defaultHeap *Guarded
)

func global() *Guarded {
	defaultOnce.Do(func() {
		h, err := NewGuarded()
		if err != nil {
			panic(err)
		}

		defaultHeap = h
		registerExitFlush(h)
	})

	return defaultHeap
}

// registerExitFlush arranges for the default heap's statistics to be
// flushed when the process receives a termination signal — the closest
// portable approximation of atexit(printStatistics) available without
// cgo. The actual signal set watched is platform-specific (see
// signal_unix.go / signal_other.go); a caller driving its own Heap value
// directly (not through the global convenience functions) is expected to
// defer FlushStats in main instead, as cmd/heapctl does.
func registerExitFlush(g *Guarded) {
	sigCh := make(chan os.Signal, 1)
	notifyTermination(sigCh)

	go func() {
		<-sigCh
		g.FlushStats()
		os.Exit(0)
	}()
}

// Alloc allocates memory using the package's default heap.
func Alloc(size uintptr) unsafe.Pointer { return global().Allocate(size) }

// Free releases memory allocated by Alloc.
func Free(ptr unsafe.Pointer) { global().Release(ptr) }

// Calloc allocates and zeroes memory for count objects of elemSize bytes
// each using the package's default heap.
func Calloc(count, elemSize uintptr) unsafe.Pointer {
	return global().ZeroAllocate(count, elemSize)
}

// Realloc resizes a previous Alloc/Calloc allocation using the package's
// default heap.
func Realloc(ptr unsafe.Pointer, newSize uintptr) unsafe.Pointer {
	return global().Reallocate(ptr, newSize)
}

// GetStats returns the default heap's current statistics snapshot.
func GetStats() Stats { return global().Snapshot() }

// FlushStats flushes the default heap's sink immediately.
func FlushStats() { global().FlushStats() }
