//go:build fit

package allocator

// defaultPolicy is pinned by the "fit" build tag, selected at compile
// time in place of a runtime flag.
const defaultPolicy = PolicyFirstFit
