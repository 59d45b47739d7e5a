package term

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETS
)

func applyPlatformDefaults(t *unix.Termios) {
	t.Iflag |= unix.IUTF8

	// The baud rate is meaningless for a pty but must be a valid rate.
	t.Cflag |= unix.B38400
	t.Ispeed = unix.B38400
	t.Ospeed = unix.B38400
}
