//go:build !fit && !best && !worst && !next

package allocator

// defaultPolicy applies when none of the fit/best/worst/next build tags
// select a policy. A library should have a usable zero-value behavior, so
// this defaults to first-fit rather than failing the build.
const defaultPolicy = PolicyFirstFit
