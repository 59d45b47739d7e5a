package pty

import (
	"io"
	"sync"

	"github.com/coreterm/ptyhost/internal/term"
)

// fakeHandle stands in for the platform half of a session. Output is
// fed through a pipe; the exit status is delivered on demand.
type fakeHandle struct {
	outR *io.PipeReader
	outW *io.PipeWriter

	exit    chan ExitStatus
	waitErr error

	mu      sync.Mutex
	input   []byte
	resizes []term.Winsize
	killed  bool
	closed  bool
}

func newFakeHandle() *fakeHandle {
	r, w := io.Pipe()
	return &fakeHandle{
		outR: r,
		outW: w,
		exit: make(chan ExitStatus, 1),
	}
}

func (h *fakeHandle) Read(p []byte) (int, error) { return h.outR.Read(p) }

func (h *fakeHandle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.input = append(h.input, p...)
	return len(p), nil
}

func (h *fakeHandle) resize(ws term.Winsize) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resizes = append(h.resizes, ws)
	return nil
}

func (h *fakeHandle) kill() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.killed = true
	return nil
}

func (h *fakeHandle) waitProcess() (ExitStatus, error) {
	st := <-h.exit
	return st, h.waitErr
}

func (h *fakeHandle) closeIO() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.outW.Close()
	return h.outR.Close()
}

// exitWith unblocks a pending waitProcess with the given status.
func (h *fakeHandle) exitWith(st ExitStatus) { h.exit <- st }

func fakeSize() term.Winsize {
	return term.Winsize{Rows: 24, Cols: 80}
}

func newFakeSession(h *fakeHandle) *Session {
	return newSession("test-session", 1234, fakeSize(), h)
}
