package pty

import "errors"

var (
	// ErrNotRunning is returned by Resize, Kill, and WaitAsync when the
	// session has already left the running state. The underlying
	// handles are closed at that point and must not be touched again.
	ErrNotRunning = errors.New("pty: session is not running")

	// ErrWaitConsumed is returned by WaitAsync when the exit
	// notification for the session has already been claimed. Only one
	// wait may ever observe a session's exit status.
	ErrWaitConsumed = errors.New("pty: exit status already claimed")
)
