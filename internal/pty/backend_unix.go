//go:build !windows

package pty

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	ptylib "github.com/creack/pty"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/coreterm/ptyhost/internal/term"
)

type posixBackend struct{}

func newBackend() Backend { return posixBackend{} }

// Spawn allocates a master/slave pty pair, applies the default terminal
// attribute profile and the requested size to the slave, and launches
// the child with the slave as the controlling terminal of a new
// session. The process-creation window runs under a widened signal
// mask; the child-only continuation (signal reset, then exec) is
// encapsulated by the OS fork/exec primitive and never returns here.
func (posixBackend) Spawn(spec SpawnSpec) (*Session, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	ptmx, tty, err := ptylib.Open()
	if err != nil {
		return nil, fmt.Errorf("pty: spawn: allocate pty: %w", err)
	}

	tio := term.DefaultTermios()
	if err := term.ApplyTermios(int(tty.Fd()), &tio); err != nil {
		tty.Close()
		ptmx.Close()
		return nil, fmt.Errorf("pty: spawn: set terminal attributes: %w", err)
	}
	if err := term.SetWinsize(int(tty.Fd()), spec.Size); err != nil {
		tty.Close()
		ptmx.Close()
		return nil, fmt.Errorf("pty: spawn: set window size: %w", err)
	}

	cmd := exec.Command(spec.Program, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.environ()
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	// The child starts a new session and takes the slave (its stdin)
	// as controlling terminal.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}

	guard, err := blockAllSignals()
	if err != nil {
		tty.Close()
		ptmx.Close()
		return nil, fmt.Errorf("pty: spawn: block signals: %w", err)
	}
	err = cmd.Start()
	guard.restore()
	if err != nil {
		tty.Close()
		ptmx.Close()
		return nil, fmt.Errorf("pty: spawn %s: %w", spec.Program, err)
	}

	// The child holds its own descriptor for the slave now.
	tty.Close()

	h := &posixHandle{master: ptmx, cmd: cmd}
	return newSession(uuid.New().String(), cmd.Process.Pid, spec.Size, h), nil
}

// posixHandle backs a session with the pty master descriptor, which
// serves as input endpoint, output endpoint, and control handle all at
// once.
type posixHandle struct {
	master *os.File
	cmd    *exec.Cmd
}

func (h *posixHandle) Read(p []byte) (int, error)  { return h.master.Read(p) }
func (h *posixHandle) Write(p []byte) (int, error) { return h.master.Write(p) }

func (h *posixHandle) resize(ws term.Winsize) error {
	return ptylib.Setsize(h.master, &ptylib.Winsize{Rows: ws.Rows, Cols: ws.Cols})
}

func (h *posixHandle) kill() error {
	return unix.Kill(h.cmd.Process.Pid, unix.SIGKILL)
}

func (h *posixHandle) waitProcess() (ExitStatus, error) {
	err := h.cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// The wait itself failed; the runtime has still released the
		// process record.
		return ExitStatus{Code: -1}, err
	}
	state := h.cmd.ProcessState
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{
			Code:     -1,
			Signaled: true,
			Signal:   unix.SignalName(ws.Signal()),
		}, nil
	}
	return ExitStatus{Code: state.ExitCode()}, nil
}

func (h *posixHandle) closeIO() error {
	return h.master.Close()
}
