//go:build unix

package allocator

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyTermination watches the signals a long-running Unix process is
// conventionally asked to wind down on.
func notifyTermination(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}
