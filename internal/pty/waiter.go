package pty

import "sync"

// ExitStatus describes how a child process terminated.
type ExitStatus struct {
	// Code is the exit code for a normal exit, -1 when the process was
	// terminated by a signal or when the exit-code query failed.
	Code int

	// Signaled reports an abnormal end: signal delivery on POSIX,
	// forced termination through the process handle on Windows.
	Signaled bool

	// Signal names the terminating signal when Signaled.
	Signal string
}

// ExitFuture resolves exactly once with the exit status of a session.
type ExitFuture struct {
	done   chan struct{}
	status ExitStatus
	err    error
}

// Done returns a channel that is closed when the exit status is
// available.
func (f *ExitFuture) Done() <-chan struct{} { return f.done }

// Wait blocks until the child has terminated and returns its exit
// status. A non-nil error reports a failed exit-code query after the
// wait unblocked; the process handle has been released either way.
func (f *ExitFuture) Wait() (ExitStatus, error) {
	<-f.done
	return f.status, f.err
}

// Waiter performs blocking OS waits on worker goroutines so the
// caller's own thread of control stays responsive for the unbounded
// lifetime of a child process.
type Waiter struct {
	wg sync.WaitGroup
}

// NewWaiter returns an empty waiter.
func NewWaiter() *Waiter { return &Waiter{} }

// DefaultWaiter serves the package-level WaitAsync.
var DefaultWaiter = NewWaiter()

// WaitAsync claims the session's single exit notification and
// dispatches the blocking wait off the calling goroutine. The returned
// future resolves exactly once; the waiter then owns closing the
// process handle, never the caller. A second WaitAsync on the same
// session returns ErrWaitConsumed.
func (w *Waiter) WaitAsync(s *Session) (*ExitFuture, error) {
	if err := s.claimWait(); err != nil {
		return nil, err
	}
	f := &ExitFuture{done: make(chan struct{})}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		st, err := s.h.waitProcess()
		f.status = s.finishWait(st)
		f.err = err
		close(f.done)
	}()
	return f, nil
}

// Shutdown blocks until every outstanding wait has completed. Waits
// cannot be cancelled; draining them is what guarantees no process
// handle leaks.
func (w *Waiter) Shutdown() { w.wg.Wait() }

// WaitAsync dispatches the wait for s on the default waiter.
func WaitAsync(s *Session) (*ExitFuture, error) {
	return DefaultWaiter.WaitAsync(s)
}
