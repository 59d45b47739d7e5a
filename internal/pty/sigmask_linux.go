package pty

import "golang.org/x/sys/unix"

func fillSigset(set *unix.Sigset_t) {
	for i := range set.Val {
		set.Val[i] = ^uint64(0)
	}
}
