package pty

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// DetectShell finds the default shell for the platform. On POSIX it
// checks, in order: $SHELL, /bin/bash, /bin/zsh, /bin/sh. On Windows
// it uses %COMSPEC%, falling back to cmd.exe. Returns an error if no
// shell is found.
func DetectShell() (string, error) {
	if runtime.GOOS == "windows" {
		if comspec := os.Getenv("COMSPEC"); comspec != "" {
			return comspec, nil
		}
		return "cmd.exe", nil
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		if isExecutable(shell) {
			return shell, nil
		}
	}

	candidates := []string{
		"/bin/bash",
		"/bin/zsh",
		"/bin/sh",
	}

	for _, candidate := range candidates {
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no shell found: checked $SHELL, /bin/bash, /bin/zsh, /bin/sh")
}

// isExecutable checks if a file exists and is executable.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	mode := info.Mode()
	if !mode.IsRegular() {
		return false
	}

	if mode&0111 != 0 {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		_, err = exec.LookPath(absPath)
		return err == nil
	}

	return false
}
