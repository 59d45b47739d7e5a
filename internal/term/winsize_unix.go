//go:build !windows

package term

import "golang.org/x/sys/unix"

// SetWinsize updates the kernel window-size record of a terminal
// descriptor. The kernel delivers SIGWINCH to the foreground process
// group of the terminal.
func SetWinsize(fd int, ws Winsize) error {
	return unix.IoctlSetWinsize(fd, unix.TIOCSWINSZ, &unix.Winsize{
		Row: ws.Rows,
		Col: ws.Cols,
	})
}

// GetWinsize reads the current window size of a terminal descriptor.
func GetWinsize(fd int) (Winsize, error) {
	w, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Winsize{}, err
	}
	return Winsize{Rows: w.Row, Cols: w.Col}, nil
}
