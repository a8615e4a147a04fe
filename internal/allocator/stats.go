package allocator

import (
	"fmt"
	"io"
	"os"
)

// Stats is an immutable snapshot of the nine monotonic counters plus the
// active policy character. Counters never decrease across a Heap's
// lifetime.
type Stats struct {
	Mallocs   uint64
	Frees     uint64
	Reuses    uint64
	Grows     uint64
	Splits    uint64
	Coalesces uint64
	Blocks    uint64
	Requested uint64
	MaxHeap   uint64
	Used      byte
}

// Sink receives a Stats snapshot. Formatting and delivery (stdout at exit,
// a metrics backend, a log line) are a sink's concern, not the core's —
// the core only ever hands over a value.
type Sink interface {
	Report(Stats)
}

// TextSink writes the statistics block as a "USED:" line followed by
// tab-separated counters in declaration order. TextSink{} (its zero value)
// writes to os.Stdout.
type TextSink struct {
	Writer io.Writer
}

// Report implements Sink.
func (s TextSink) Report(st Stats) {
	w := s.Writer
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintf(w, "USED: %c\n", st.Used)
	fmt.Fprintf(w, "\nheap management statistics\n")
	fmt.Fprintf(w, "mallocs:\t%d\n", st.Mallocs)
	fmt.Fprintf(w, "frees:\t\t%d\n", st.Frees)
	fmt.Fprintf(w, "reuses:\t\t%d\n", st.Reuses)
	fmt.Fprintf(w, "grows:\t\t%d\n", st.Grows)
	fmt.Fprintf(w, "splits:\t\t%d\n", st.Splits)
	fmt.Fprintf(w, "coalesces:\t%d\n", st.Coalesces)
	fmt.Fprintf(w, "blocks:\t\t%d\n", st.Blocks)
	fmt.Fprintf(w, "requested:\t%d\n", st.Requested)
	fmt.Fprintf(w, "max heap:\t%d\n", st.MaxHeap)
}

// counters is the mutable bookkeeping a Heap threads through every
// structural event; Snapshot freezes it into a Stats value.
type counters struct {
	mallocs   uint64
	frees     uint64
	reuses    uint64
	grows     uint64
	splits    uint64
	coalesces uint64
	blocks    uint64
	requested uint64
	maxHeap   uint64
}

func (c *counters) snapshot(used byte) Stats {
	return Stats{
		Mallocs:   c.mallocs,
		Frees:     c.frees,
		Reuses:    c.reuses,
		Grows:     c.grows,
		Splits:    c.splits,
		Coalesces: c.coalesces,
		Blocks:    c.blocks,
		Requested: c.requested,
		MaxHeap:   c.maxHeap,
		Used:      used,
	}
}
