package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/coreterm/ptyhost/internal/api"
	"github.com/coreterm/ptyhost/internal/pty"
)

// expandPath expands the tilde (~) character to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		if path[1] == '/' || path[1] == '\\' {
			return filepath.Join(homeDir, path[2:]), nil
		}
	}

	return path, nil
}

func main() {
	socketPathRaw := flag.String("socket", "~/.ptyhost/control.sock", "Path to the control socket")
	flag.Parse()

	socketPath, err := expandPath(*socketPathRaw)
	if err != nil {
		log.Fatalf("[ptyhost] failed to expand socket path: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		log.Fatalf("[ptyhost] failed to create socket directory: %v", err)
	}

	log.Printf("[ptyhost] starting with socket %s", socketPath)

	server := api.NewServer(socketPath)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("[ptyhost] failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("[ptyhost] shutting down...")
	pty.CleanupAllSessions()
	pty.DefaultWaiter.Shutdown()
	server.Stop()
	log.Println("[ptyhost] shutdown complete")
}
