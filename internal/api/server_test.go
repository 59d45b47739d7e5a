//go:build !windows

package api

import (
	"encoding/json"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "pty.sock")
	srv := NewServer(sock)
	go srv.Start()
	t.Cleanup(srv.Stop)

	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.Dial("unix", sock)
		if err == nil {
			conn.Close()
			return sock
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not come up on %s: %v", sock, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func roundTrip(t *testing.T, sock, action string, data interface{}) Response {
	t.Helper()
	conn, err := net.Dial("unix", sock)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal request data: %v", err)
	}
	if err := json.NewEncoder(conn).Encode(Request{Action: action, Data: raw}); err != nil {
		t.Fatalf("send request: %v", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeData(t *testing.T, resp Response, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal response data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode response data: %v", err)
	}
}

func TestSpawnWaitExitCode(t *testing.T) {
	sock := startTestServer(t)

	resp := roundTrip(t, sock, "spawn", SpawnRequest{
		Program: "/bin/sh",
		Args:    []string{"-c", "exit 7"},
		Rows:    24,
		Cols:    80,
	})
	if !resp.Ok {
		t.Fatalf("spawn failed: %s", resp.Err)
	}
	var spawned SpawnResponse
	decodeData(t, resp, &spawned)
	if spawned.ID == "" {
		t.Fatal("spawn returned an empty session ID")
	}
	if spawned.Pid <= 0 {
		t.Errorf("spawn returned pid %d, want > 0", spawned.Pid)
	}

	resp = roundTrip(t, sock, "wait", WaitRequest{ID: spawned.ID})
	if !resp.Ok {
		t.Fatalf("wait failed: %s", resp.Err)
	}
	var status WaitResponse
	decodeData(t, resp, &status)
	if status.Code != 7 || status.Signaled {
		t.Errorf("wait returned %+v, want code 7, not signaled", status)
	}
}

func TestSpawnRejectsZeroSize(t *testing.T) {
	sock := startTestServer(t)

	resp := roundTrip(t, sock, "spawn", SpawnRequest{Program: "/bin/sh"})
	if resp.Ok {
		t.Fatal("spawn with zero size succeeded")
	}
}

func TestUnknownAction(t *testing.T) {
	sock := startTestServer(t)

	resp := roundTrip(t, sock, "frobnicate", struct{}{})
	if resp.Ok {
		t.Fatal("unknown action succeeded")
	}
}

func TestSessionNotFound(t *testing.T) {
	sock := startTestServer(t)

	resp := roundTrip(t, sock, "resize", ResizeRequest{ID: "no-such-id", Rows: 24, Cols: 80})
	if resp.Ok {
		t.Fatal("resize of a missing session succeeded")
	}
	if resp.Err != "session not found" {
		t.Errorf("error = %q, want %q", resp.Err, "session not found")
	}
}

func TestKillAndList(t *testing.T) {
	sock := startTestServer(t)

	resp := roundTrip(t, sock, "spawn", SpawnRequest{
		Program: "/bin/sh",
		Args:    []string{"-c", "sleep 60"},
		Rows:    24,
		Cols:    80,
	})
	if !resp.Ok {
		t.Fatalf("spawn failed: %s", resp.Err)
	}
	var spawned SpawnResponse
	decodeData(t, resp, &spawned)

	resp = roundTrip(t, sock, "list", nil)
	if !resp.Ok {
		t.Fatalf("list failed: %s", resp.Err)
	}
	var list ListResponse
	decodeData(t, resp, &list)
	found := false
	for _, info := range list.Sessions {
		if info.ID == spawned.ID {
			found = true
			if info.State != "running" {
				t.Errorf("listed state = %q, want %q", info.State, "running")
			}
			if info.Rows != 24 || info.Cols != 80 {
				t.Errorf("listed size = %dx%d, want 24x80", info.Rows, info.Cols)
			}
		}
	}
	if !found {
		t.Fatalf("spawned session %s not in list", spawned.ID)
	}

	resp = roundTrip(t, sock, "kill", KillRequest{ID: spawned.ID})
	if !resp.Ok {
		t.Fatalf("kill failed: %s", resp.Err)
	}

	resp = roundTrip(t, sock, "wait", WaitRequest{ID: spawned.ID})
	if !resp.Ok {
		t.Fatalf("wait failed: %s", resp.Err)
	}
	var status WaitResponse
	decodeData(t, resp, &status)
	if !status.Signaled {
		t.Errorf("wait returned %+v, want a forced-death report", status)
	}

	// The entry stays registered after death, but its handles are
	// closed; a second kill must fail rather than touch them.
	resp = roundTrip(t, sock, "kill", KillRequest{ID: spawned.ID})
	if resp.Ok {
		t.Fatal("kill of a dead session succeeded")
	}

	resp = roundTrip(t, sock, "close", CloseRequest{ID: spawned.ID})
	if !resp.Ok {
		t.Fatalf("close failed: %s", resp.Err)
	}

	resp = roundTrip(t, sock, "wait", WaitRequest{ID: spawned.ID})
	if resp.Ok {
		t.Fatal("wait found a closed session")
	}
	if resp.Err != "session not found" {
		t.Errorf("error after close = %q, want %q", resp.Err, "session not found")
	}
}

func TestWriteAndRead(t *testing.T) {
	sock := startTestServer(t)

	resp := roundTrip(t, sock, "spawn", SpawnRequest{
		Program: "/bin/sh",
		Args:    []string{"-c", "read line; echo got:$line"},
		Rows:    24,
		Cols:    80,
	})
	if !resp.Ok {
		t.Fatalf("spawn failed: %s", resp.Err)
	}
	var spawned SpawnResponse
	decodeData(t, resp, &spawned)

	resp = roundTrip(t, sock, "write", WriteRequest{ID: spawned.ID, Data: "ping\n"})
	if !resp.Ok {
		t.Fatalf("write failed: %s", resp.Err)
	}

	resp = roundTrip(t, sock, "wait", WaitRequest{ID: spawned.ID})
	if !resp.Ok {
		t.Fatalf("wait failed: %s", resp.Err)
	}

	// The read loop may still be draining the last chunk after the
	// child exits.
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp = roundTrip(t, sock, "read", ReadRequest{ID: spawned.ID})
		if resp.Ok {
			var read ReadResponse
			decodeData(t, resp, &read)
			if strings.Contains(read.Data, "got:ping") {
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("never observed echoed output, last response: %+v", resp)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
