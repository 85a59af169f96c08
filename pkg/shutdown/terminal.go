package shutdown

import (
	"io"

	"github.com/mattn/go-isatty"
)

// carriageReturn moves the cursor back to column zero so the next line does
// not follow the echoed ^C. File writers only receive it when they are a TTY.
func carriageReturn(w io.Writer) {
	if w == nil {
		return
	}

	if f, ok := w.(interface{ Fd() uintptr }); ok {
		fd := f.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return
		}
	}

	_, _ = io.WriteString(w, "\r")
}
