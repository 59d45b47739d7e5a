package pty

import "golang.org/x/sys/unix"

func fillSigset(set *unix.Sigset_t) {
	*set = ^unix.Sigset_t(0)
}
