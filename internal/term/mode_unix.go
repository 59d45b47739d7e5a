//go:build !windows

package term

import "golang.org/x/sys/unix"

// ccDisable turns off a control-character slot (_POSIX_VDISABLE).
const ccDisable = 0xff

// DefaultTermios returns the attribute set applied to a freshly
// allocated PTY before the child is started. These are the
// conventional line-discipline defaults used by terminal emulators:
// canonical input with echo and signal generation, CR/NL translation,
// software flow control, 8-bit characters, and the usual
// control-character bindings.
func DefaultTermios() unix.Termios {
	var t unix.Termios

	t.Iflag = unix.ICRNL | unix.IXON | unix.IXANY | unix.IMAXBEL | unix.BRKINT
	t.Oflag = unix.OPOST | unix.ONLCR
	t.Cflag = unix.CREAD | unix.CS8 | unix.HUPCL
	t.Lflag = unix.ICANON | unix.ISIG | unix.IEXTEN |
		unix.ECHO | unix.ECHOE | unix.ECHOK | unix.ECHOKE | unix.ECHOCTL

	t.Cc[unix.VEOF] = 4 // ^D
	t.Cc[unix.VEOL] = ccDisable
	t.Cc[unix.VEOL2] = ccDisable
	t.Cc[unix.VERASE] = 0x7f // DEL
	t.Cc[unix.VWERASE] = 23  // ^W
	t.Cc[unix.VKILL] = 21    // ^U
	t.Cc[unix.VREPRINT] = 18 // ^R
	t.Cc[unix.VINTR] = 3     // ^C
	t.Cc[unix.VQUIT] = 0x1c  // FS
	t.Cc[unix.VSUSP] = 26    // ^Z
	t.Cc[unix.VSTART] = 17   // ^Q
	t.Cc[unix.VSTOP] = 19    // ^S
	t.Cc[unix.VLNEXT] = 22   // ^V
	t.Cc[unix.VDISCARD] = 15 // ^O

	// A read is satisfied by a single byte, with no inter-byte timer.
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	applyPlatformDefaults(&t)
	return t
}

// ApplyTermios writes t to the terminal referred to by fd.
func ApplyTermios(fd int, t *unix.Termios) error {
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, t)
}

// GetTermios reads the current attribute set of the terminal referred
// to by fd.
func GetTermios(fd int) (*unix.Termios, error) {
	return unix.IoctlGetTermios(fd, ioctlReadTermios)
}
