//go:build worst

package allocator

// defaultPolicy is pinned by the "worst" build tag, selected at compile
// time in place of a runtime flag.
const defaultPolicy = PolicyWorstFit
