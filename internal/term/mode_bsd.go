//go:build freebsd || netbsd || openbsd || dragonfly

package term

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TIOCGETA
	ioctlWriteTermios = unix.TIOCSETA
)

func applyPlatformDefaults(t *unix.Termios) {
	t.Cc[unix.VSTATUS] = 20 // ^T

	// The baud rate is meaningless for a pty but must be a valid rate.
	t.Ispeed = unix.B38400
	t.Ospeed = unix.B38400
}
