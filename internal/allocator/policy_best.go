//go:build best

package allocator

// defaultPolicy is pinned by the "best" build tag, selected at compile
// time in place of a runtime flag.
const defaultPolicy = PolicyBestFit
