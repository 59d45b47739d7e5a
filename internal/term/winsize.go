package term

// Winsize is a terminal window size. It mirrors what the child process
// observes through its window-size query (TIOCGWINSZ on POSIX, the
// pseudoconsole dimensions on Windows).
type Winsize struct {
	Rows uint16
	Cols uint16
}

// Valid reports whether the size is usable for a terminal: both
// dimensions must be at least one.
func (ws Winsize) Valid() bool {
	return ws.Rows > 0 && ws.Cols > 0
}
