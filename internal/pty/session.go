package pty

import (
	"fmt"
	"io"
	"sync"

	"github.com/coreterm/ptyhost/internal/term"
)

// State is the lifecycle phase of a session. Transitions are one-way:
// a session starts Running and ends in Exited or Killed, never the
// other way around.
type State int

const (
	Running State = iota
	Exited
	Killed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Exited:
		return "exited"
	case Killed:
		return "killed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// handle is the platform half of a session: endpoint I/O plus the
// process and control operations bound to the OS resources. On POSIX a
// single master descriptor backs all three roles; on Windows the
// endpoints are pipe handles and the control object is a
// pseudoconsole.
type handle interface {
	io.Reader
	io.Writer

	resize(ws term.Winsize) error
	kill() error

	// waitProcess blocks until the child terminates and then releases
	// the process handle, on the error path too. Called at most once,
	// from the exit waiter.
	waitProcess() (ExitStatus, error)

	// closeIO closes the I/O endpoints and the control handle.
	closeIO() error
}

// Session is a live pseudo-terminal session hosting one child process.
// Spawn, Resize, and Kill mutate shared handle state and must not be
// called concurrently on the same session without external
// serialization; the exit wait is the one operation designed to run
// concurrently.
type Session struct {
	id  string
	pid int

	mu       sync.Mutex
	state    State
	size     term.Winsize
	exitCode int
	killReq  bool
	waited   bool

	h         handle
	closeOnce sync.Once
	closeErr  error
}

func newSession(id string, pid int, size term.Winsize, h handle) *Session {
	return &Session{
		id:       id,
		pid:      pid,
		size:     size,
		state:    Running,
		exitCode: -1,
		h:        h,
	}
}

// ID returns the session identifier assigned at spawn.
func (s *Session) ID() string { return s.id }

// Pid returns the process identifier of the child.
func (s *Session) Pid() int { return s.pid }

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Size returns the window size last applied to the session.
func (s *Session) Size() term.Winsize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// ExitCode returns the exit code once the session has left Running.
// The second result is false while the child is still being waited on.
func (s *Session) ExitCode() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running {
		return 0, false
	}
	return s.exitCode, true
}

// Read reads output produced by the child through its terminal.
func (s *Session) Read(p []byte) (int, error) { return s.h.Read(p) }

// Write sends input to the child through its terminal.
func (s *Session) Write(p []byte) (int, error) { return s.h.Write(p) }

// Resize applies a new window size to the session. The child observes
// it through the standard notification for its platform (SIGWINCH on
// POSIX). Valid only while Running; repeating the current size is a
// no-op that never errors.
func (s *Session) Resize(rows, cols uint16) error {
	ws := term.Winsize{Rows: rows, Cols: cols}
	if !ws.Valid() {
		return fmt.Errorf("pty: resize: invalid window size %dx%d", rows, cols)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return ErrNotRunning
	}
	if err := s.h.resize(ws); err != nil {
		return fmt.Errorf("pty: resize: %w", err)
	}
	s.size = ws
	return nil
}

// Kill requests forced termination of the child. The session reaches
// Killed once the pending exit wait observes the death; calling Kill
// after the session has left Running is ErrNotRunning.
func (s *Session) Kill() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return ErrNotRunning
	}
	s.killReq = true
	if err := s.h.kill(); err != nil {
		return fmt.Errorf("pty: kill: %w", err)
	}
	return nil
}

// Close releases the I/O endpoints and the control handle. Idempotent;
// the first call wins and later calls return the same result. The
// process handle is not touched here, it belongs to the exit waiter.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.h.closeIO()
	})
	return s.closeErr
}

// claimWait reserves the session's single exit notification.
func (s *Session) claimWait() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waited {
		return ErrWaitConsumed
	}
	if s.state != Running {
		return ErrNotRunning
	}
	s.waited = true
	return nil
}

// finishWait records the terminal state once the blocking wait has
// returned. A kill requested through this session is reported as a
// forced death even on platforms whose wait primitive only yields a
// numeric code.
func (s *Session) finishWait(st ExitStatus) ExitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.killReq && !st.Signaled {
		st.Signaled = true
		st.Signal = "killed"
	}
	if st.Signaled {
		s.state = Killed
	} else {
		s.state = Exited
	}
	s.exitCode = st.Code
	return st
}
