//go:build !windows

package shutdown

import (
	"os"
	"syscall"
)

// DefaultSignals returns interrupt, terminate and hangup.
func DefaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
}
