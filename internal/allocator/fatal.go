package allocator

import allocerrors "github.com/orizon-lang/heapd/internal/errors"

// A double free and a break/extend disagreement are both fatal
// programming errors, not recoverable conditions: both panic with a
// diagnosable *errors.StandardError rather than returning an error value
// a caller might be tempted to swallow.

func errDoubleFree(payloadAddr uintptr) error {
	return allocerrors.DoubleFree(payloadAddr)
}

func errBreakMismatch(recorded, actual uintptr) error {
	return allocerrors.BreakMismatch(recorded, actual)
}
