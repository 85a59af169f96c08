//go:build windows

package shutdown

import (
	"os"
	"syscall"
)

// DefaultSignals returns interrupt and terminate. The Go runtime reports
// CTRL_BREAK_EVENT as os.Interrupt and console close, logoff and system
// shutdown as SIGTERM; hangup is never delivered on Windows.
func DefaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
