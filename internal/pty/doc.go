// Package pty manages the lifecycle of pseudo-terminal sessions: it
// spawns a child process attached to a fresh pty (POSIX) or
// pseudoconsole (Windows), exposes the session's I/O endpoints, applies
// window-size changes, forces termination, and delivers exactly one
// asynchronous exit notification per session before releasing the
// process handle.
package pty
