package pty

import (
	"fmt"
	"sort"

	"github.com/coreterm/ptyhost/internal/term"
)

// SpawnSpec describes a child process to launch under a new
// pseudo-terminal.
type SpawnSpec struct {
	// Program is the executable to run. Resolved against PATH if it
	// contains no separators.
	Program string

	// Args are the arguments passed to the program, not including the
	// program name itself.
	Args []string

	// Env is the complete environment for the child. A nil map means
	// the child inherits the caller's environment.
	Env map[string]string

	// Dir is the working directory of the child. Empty means the child
	// inherits the caller's current directory.
	Dir string

	// Size is the initial window size. Both dimensions must be at
	// least one.
	Size term.Winsize
}

func (s *SpawnSpec) validate() error {
	if s.Program == "" {
		return fmt.Errorf("pty: spawn: program must not be empty")
	}
	if !s.Size.Valid() {
		return fmt.Errorf("pty: spawn: invalid window size %dx%d",
			s.Size.Rows, s.Size.Cols)
	}
	return nil
}

// environ flattens Env into the "key=value" form expected by the OS,
// sorted for a stable block. Returns nil when the environment is
// inherited.
func (s *SpawnSpec) environ() []string {
	if s.Env == nil {
		return nil
	}
	env := make([]string, 0, len(s.Env))
	for k, v := range s.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// Backend creates pty sessions for the platform it was built for. On
// POSIX it allocates a master/slave pair and launches the child with
// the slave as its controlling terminal; on Windows it binds a
// pseudoconsole to a pair of anonymous pipes.
type Backend interface {
	// Spawn launches the program described by spec attached to a fresh
	// pseudo-terminal and returns the running session. On failure no
	// process is left behind and every partially allocated OS resource
	// has been released.
	Spawn(spec SpawnSpec) (*Session, error)
}

// New returns the pty backend for the current platform.
func New() Backend {
	return newBackend()
}
