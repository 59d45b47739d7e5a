//go:build windows

package pty

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/google/uuid"
	"golang.org/x/sys/windows"

	"github.com/coreterm/ptyhost/internal/term"
)

type windowsBackend struct{}

func newBackend() Backend { return windowsBackend{} }

// Spawn creates two anonymous pipes, binds a pseudoconsole to the
// pty-side ends at the requested size, and launches the child with an
// attribute list carrying the pseudoconsole so the console subsystem
// attaches it instead of allocating a real console. Every failure
// path releases the resources allocated before it.
func (windowsBackend) Spawn(spec SpawnSpec) (*Session, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	// Child input: the console reads, we keep the write end.
	var consoleIn, ptyIn windows.Handle
	if err := windows.CreatePipe(&consoleIn, &ptyIn, nil, 0); err != nil {
		return nil, &os.SyscallError{Syscall: "CreatePipe", Err: err}
	}
	// Child output: the console writes, we keep the read end.
	var ptyOut, consoleOut windows.Handle
	if err := windows.CreatePipe(&ptyOut, &consoleOut, nil, 0); err != nil {
		windows.CloseHandle(consoleIn)
		windows.CloseHandle(ptyIn)
		return nil, &os.SyscallError{Syscall: "CreatePipe", Err: err}
	}

	size := windows.Coord{
		X: int16(spec.Size.Cols),
		Y: int16(spec.Size.Rows),
	}
	var hpc windows.Handle
	if err := windows.CreatePseudoConsole(size, consoleIn, consoleOut, 0, &hpc); err != nil {
		windows.CloseHandle(consoleIn)
		windows.CloseHandle(ptyIn)
		windows.CloseHandle(ptyOut)
		windows.CloseHandle(consoleOut)
		return nil, &os.SyscallError{Syscall: "CreatePseudoConsole", Err: err}
	}
	// The pseudoconsole duplicated the pty-side ends; ours are done.
	windows.CloseHandle(consoleIn)
	windows.CloseHandle(consoleOut)

	pi, err := createProcessWithConsole(&spec, hpc)
	if err != nil {
		windows.ClosePseudoConsole(hpc)
		windows.CloseHandle(ptyIn)
		windows.CloseHandle(ptyOut)
		return nil, err
	}
	// The thread handle has no further use.
	windows.CloseHandle(pi.Thread)

	h := &conptyHandle{
		hpc:     hpc,
		in:      os.NewFile(uintptr(ptyIn), "|conpty-in"),
		out:     os.NewFile(uintptr(ptyOut), "|conpty-out"),
		process: pi.Process,
	}
	return newSession(uuid.New().String(), int(pi.ProcessId), spec.Size, h), nil
}

func createProcessWithConsole(spec *SpawnSpec, hpc windows.Handle) (*windows.ProcessInformation, error) {
	attrs, err := windows.NewProcThreadAttributeList(1)
	if err != nil {
		return nil, &os.SyscallError{Syscall: "InitializeProcThreadAttributeList", Err: err}
	}
	defer attrs.Delete()

	// The attribute carries the HPCON value itself, not a pointer to it.
	err = attrs.Update(
		windows.PROC_THREAD_ATTRIBUTE_PSEUDOCONSOLE,
		unsafe.Pointer(uintptr(hpc)),
		unsafe.Sizeof(hpc),
	)
	if err != nil {
		return nil, &os.SyscallError{Syscall: "UpdateProcThreadAttribute", Err: err}
	}

	args := append([]string{spec.Program}, spec.Args...)
	cmdline, err := windows.UTF16PtrFromString(windows.ComposeCommandLine(args))
	if err != nil {
		return nil, fmt.Errorf("pty: spawn: encode command line: %w", err)
	}

	var dir *uint16
	if spec.Dir != "" {
		dir, err = windows.UTF16PtrFromString(spec.Dir)
		if err != nil {
			return nil, fmt.Errorf("pty: spawn: encode working directory: %w", err)
		}
	}

	// The environment block is UTF-16 either way: when no explicit
	// environment is supplied the child inherits ours and
	// CREATE_UNICODE_ENVIRONMENT only declares the encoding.
	var envp *uint16
	if spec.Env != nil {
		var block []uint16
		for _, kv := range spec.environ() {
			entry, err := windows.UTF16FromString(kv)
			if err != nil {
				return nil, fmt.Errorf("pty: spawn: encode environment: %w", err)
			}
			block = append(block, entry...)
		}
		block = append(block, 0)
		envp = &block[0]
	}

	var siex windows.StartupInfoEx
	siex.ProcThreadAttributeList = attrs.List()
	siex.Cb = uint32(unsafe.Sizeof(siex))

	var pi windows.ProcessInformation
	err = windows.CreateProcess(
		nil,
		cmdline,
		nil,
		nil,
		false,
		windows.EXTENDED_STARTUPINFO_PRESENT|windows.CREATE_UNICODE_ENVIRONMENT,
		envp,
		dir,
		&siex.StartupInfo,
		&pi,
	)
	if err != nil {
		return nil, &os.SyscallError{Syscall: "CreateProcess", Err: err}
	}
	return &pi, nil
}

// conptyHandle backs a session with the caller-side pipe ends and the
// pseudoconsole object. The pseudoconsole is used only for resize and
// close, never for data I/O.
type conptyHandle struct {
	hpc     windows.Handle
	in      *os.File
	out     *os.File
	process windows.Handle
}

func (h *conptyHandle) Read(p []byte) (int, error)  { return h.out.Read(p) }
func (h *conptyHandle) Write(p []byte) (int, error) { return h.in.Write(p) }

func (h *conptyHandle) resize(ws term.Winsize) error {
	size := windows.Coord{X: int16(ws.Cols), Y: int16(ws.Rows)}
	if err := windows.ResizePseudoConsole(h.hpc, size); err != nil {
		return &os.SyscallError{Syscall: "ResizePseudoConsole", Err: err}
	}
	return nil
}

func (h *conptyHandle) kill() error {
	if err := windows.TerminateProcess(h.process, 1); err != nil {
		return &os.SyscallError{Syscall: "TerminateProcess", Err: err}
	}
	return nil
}

// waitProcess blocks on the process handle and retrieves the exit
// code. The handle is closed on every path, including a failed
// exit-code query.
func (h *conptyHandle) waitProcess() (ExitStatus, error) {
	if _, err := windows.WaitForSingleObject(h.process, windows.INFINITE); err != nil {
		windows.CloseHandle(h.process)
		return ExitStatus{Code: -1}, &os.SyscallError{Syscall: "WaitForSingleObject", Err: err}
	}
	var code uint32
	err := windows.GetExitCodeProcess(h.process, &code)
	windows.CloseHandle(h.process)
	if err != nil {
		return ExitStatus{Code: -1}, &os.SyscallError{Syscall: "GetExitCodeProcess", Err: err}
	}
	return ExitStatus{Code: int(code)}, nil
}

func (h *conptyHandle) closeIO() error {
	windows.ClosePseudoConsole(h.hpc)
	return errors.Join(h.in.Close(), h.out.Close())
}
