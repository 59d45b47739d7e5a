package pty

import (
	"errors"
	"log"
)

// CleanupEntry forces a still-running session down and waits for its
// exit so every handle is provably released. Safe to call on entries
// whose child has already exited.
func CleanupEntry(e *Entry) {
	if e == nil {
		return
	}

	log.Printf("[pty] cleaning up session %s", e.Session.ID())

	if err := e.Session.Kill(); err != nil && !errors.Is(err, ErrNotRunning) {
		log.Printf("[pty] warning: kill session %s: %v", e.Session.ID(), err)
	}

	if e.Exit != nil {
		// Releases the process handle; cannot be cancelled.
		e.Exit.Wait()
	}

	if err := e.Session.Close(); err != nil {
		log.Printf("[pty] warning: close session %s: %v", e.Session.ID(), err)
	}

	DefaultManager.Remove(e.Session.ID())
	log.Printf("[pty] session %s cleaned up", e.Session.ID())
}

// CleanupAllSessions cleans up every registered session.
func CleanupAllSessions() {
	for _, e := range DefaultManager.List() {
		CleanupEntry(e)
	}
}
