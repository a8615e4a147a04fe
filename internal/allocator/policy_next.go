//go:build next

package allocator

// defaultPolicy is pinned by the "next" build tag, selected at compile
// time in place of a runtime flag.
const defaultPolicy = PolicyNextFit
