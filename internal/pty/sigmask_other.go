//go:build !windows && !linux && !darwin

package pty

// On the remaining POSIX platforms the guard is a no-op: the Go
// runtime already blocks signal delivery across its fork/exec window,
// and x/sys does not expose pthread_sigmask there.
type sigmaskGuard struct{}

func blockAllSignals() (*sigmaskGuard, error) { return &sigmaskGuard{}, nil }

func (g *sigmaskGuard) restore() {}
