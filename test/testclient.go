// Command testclient exercises a running ptyhost daemon end to end:
// spawn a shell, write a command, read back output, resize, kill, wait
// for the exit status, and close. One request is sent per connection.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"
)

const socketPath = "~/.ptyhost/control.sock"

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

type request struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
}

type response struct {
	Ok   bool            `json:"ok"`
	Err  string          `json:"err,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

func call(sock, action string, data interface{}, out interface{}) error {
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return fmt.Errorf("dial %s: %w", sock, err)
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(request{Action: action, Data: data}); err != nil {
		return fmt.Errorf("send %s: %w", action, err)
	}

	var resp response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("receive %s: %w", action, err)
	}
	if !resp.Ok {
		return fmt.Errorf("%s failed: %s", action, resp.Err)
	}
	if out != nil && len(resp.Data) > 0 {
		return json.Unmarshal(resp.Data, out)
	}
	return nil
}

func main() {
	log.Println("[TestClient] Starting test client...")

	sock, err := expandPath(socketPath)
	if err != nil {
		log.Fatalf("[TestClient] Failed to expand socket path: %v", err)
	}

	var spawned struct {
		ID  string `json:"id"`
		Pid int    `json:"pid"`
	}
	err = call(sock, "spawn", map[string]interface{}{"rows": 24, "cols": 80}, &spawned)
	if err != nil {
		log.Fatalf("[TestClient] %v", err)
	}
	log.Printf("[TestClient] Spawned session %s (pid %d)", spawned.ID, spawned.Pid)

	err = call(sock, "write", map[string]interface{}{"id": spawned.ID, "data": "echo hello from ptyhost\n"}, nil)
	if err != nil {
		log.Fatalf("[TestClient] %v", err)
	}

	time.Sleep(500 * time.Millisecond)

	var read struct {
		Data string `json:"data"`
	}
	if err := call(sock, "read", map[string]interface{}{"id": spawned.ID}, &read); err != nil {
		log.Fatalf("[TestClient] %v", err)
	}
	log.Printf("[TestClient] Output so far:\n%s", read.Data)

	err = call(sock, "resize", map[string]interface{}{"id": spawned.ID, "rows": 40, "cols": 120}, nil)
	if err != nil {
		log.Fatalf("[TestClient] %v", err)
	}
	log.Println("[TestClient] Resized to 40x120")

	if err := call(sock, "kill", map[string]interface{}{"id": spawned.ID}, nil); err != nil {
		log.Fatalf("[TestClient] %v", err)
	}

	var status struct {
		Code     int    `json:"code"`
		Signaled bool   `json:"signaled"`
		Signal   string `json:"signal"`
	}
	if err := call(sock, "wait", map[string]interface{}{"id": spawned.ID}, &status); err != nil {
		log.Fatalf("[TestClient] %v", err)
	}
	log.Printf("[TestClient] Session ended: code=%d signaled=%v signal=%s",
		status.Code, status.Signaled, status.Signal)

	if err := call(sock, "close", map[string]interface{}{"id": spawned.ID}, nil); err != nil {
		log.Fatalf("[TestClient] %v", err)
	}
	log.Println("[TestClient] Session closed")
}
