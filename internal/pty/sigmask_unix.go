//go:build linux || darwin

package pty

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// sigmaskGuard widens the signal mask of the spawning thread for
// exactly the process-creation window: a freshly forked child must not
// run any of the host's signal handlers before exec resets its handler
// table. The goroutine is pinned to its OS thread so the saved mask is
// restored on the thread that was masked.
type sigmaskGuard struct {
	old unix.Sigset_t
}

func blockAllSignals() (*sigmaskGuard, error) {
	runtime.LockOSThread()
	var all unix.Sigset_t
	fillSigset(&all)
	g := &sigmaskGuard{}
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &all, &g.old); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return g, nil
}

// restore reinstates the saved mask. Must run on every path out of the
// spawn, success or failure.
func (g *sigmaskGuard) restore() {
	unix.PthreadSigmask(unix.SIG_SETMASK, &g.old, nil)
	runtime.UnlockOSThread()
}
