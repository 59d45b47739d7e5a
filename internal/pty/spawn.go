package pty

import (
	"fmt"
	"log"

	"github.com/coreterm/ptyhost/internal/term"
)

// Spawn launches a command under a fresh pty, registers the session
// with DefaultManager, attaches an output stream, and dispatches the
// exit wait. Once the child exits the session's handles are released;
// the entry stays registered so late callers can still collect the
// exit status and replay output, until CleanupEntry removes it.
// Library users that want to drive the lifecycle themselves use
// Backend.Spawn directly.
func Spawn(spec SpawnSpec) (*Entry, error) {
	sess, err := New().Spawn(spec)
	if err != nil {
		return nil, err
	}

	fut, err := WaitAsync(sess)
	if err != nil {
		// Cannot happen right after a successful spawn; fail closed.
		sess.Close()
		return nil, fmt.Errorf("pty: dispatch exit wait: %w", err)
	}

	e := &Entry{
		Session: sess,
		Stream:  NewStream(sess),
		Exit:    fut,
	}
	DefaultManager.Add(e)

	go func() {
		st, werr := fut.Wait()
		if werr != nil {
			log.Printf("[pty] session %s: exit status query failed: %v", sess.ID(), werr)
		} else if st.Signaled {
			log.Printf("[pty] session %s: terminated by %s", sess.ID(), st.Signal)
		} else {
			log.Printf("[pty] session %s: exited with code %d", sess.ID(), st.Code)
		}
		if cerr := sess.Close(); cerr != nil {
			log.Printf("[pty] session %s: close: %v", sess.ID(), cerr)
		}
	}()

	log.Printf("[pty] spawned session %s: %s (pid %d)", sess.ID(), spec.Program, sess.Pid())
	return e, nil
}

// SpawnShell launches the platform default shell at the given size.
func SpawnShell(size term.Winsize) (*Entry, error) {
	shell, err := DetectShell()
	if err != nil {
		return nil, fmt.Errorf("shell detection failed: %w", err)
	}
	return Spawn(SpawnSpec{Program: shell, Size: size})
}
