//go:build !unix

package allocator

import (
	"os"
	"os/signal"
)

// notifyTermination watches os.Interrupt, the one termination signal Go
// defines portably across GOOS.
func notifyTermination(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
