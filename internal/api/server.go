package api

import (
	"encoding/json"
	"log"
	"net"
	"os"

	"github.com/coreterm/ptyhost/internal/pty"
	"github.com/coreterm/ptyhost/internal/term"
)

// Server exposes session lifecycle operations over a unix-socket JSON
// protocol: one request and one response per connection.
type Server struct {
	socketPath string
	listener   net.Listener
	stopChan   chan struct{}
}

// NewServer creates a new server instance.
func NewServer(socketPath string) *Server {
	return &Server{
		socketPath: socketPath,
		stopChan:   make(chan struct{}),
	}
}

// Start starts the server and begins accepting connections.
func (s *Server) Start() error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return err
	}

	s.listener = listener
	log.Printf("[api] listening on %s", s.socketPath)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return nil
			default:
				return err
			}
		}
		go s.handleConn(conn)
	}
}

// Stop stops the server and closes the listener.
func (s *Server) Stop() {
	close(s.stopChan)
	if s.listener != nil {
		s.listener.Close()
	}
	log.Println("[api] server stopped")
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var req Request
	if err := decoder.Decode(&req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid request: " + err.Error()})
		return
	}

	switch req.Action {
	case "spawn":
		s.handleSpawn(req.Data, encoder)
	case "write":
		s.handleWrite(req.Data, encoder)
	case "read":
		s.handleRead(req.Data, encoder)
	case "resize":
		s.handleResize(req.Data, encoder)
	case "kill":
		s.handleKill(req.Data, encoder)
	case "close":
		s.handleClose(req.Data, encoder)
	case "wait":
		s.handleWait(req.Data, encoder)
	case "list":
		s.handleList(encoder)
	default:
		encoder.Encode(Response{Ok: false, Err: "unknown action: " + req.Action})
	}
}

func (s *Server) handleSpawn(data json.RawMessage, encoder *json.Encoder) {
	var req SpawnRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			encoder.Encode(Response{Ok: false, Err: "invalid spawn request: " + err.Error()})
			return
		}
	}

	if req.Rows == 0 || req.Cols == 0 {
		encoder.Encode(Response{Ok: false, Err: "rows and cols must be positive"})
		return
	}

	program := req.Program
	if program == "" {
		detected, err := pty.DetectShell()
		if err != nil {
			encoder.Encode(Response{Ok: false, Err: err.Error()})
			return
		}
		program = detected
	}

	entry, err := pty.Spawn(pty.SpawnSpec{
		Program: program,
		Args:    req.Args,
		Env:     req.Env,
		Dir:     req.Cwd,
		Size:    term.Winsize{Rows: req.Rows, Cols: req.Cols},
	})
	if err != nil {
		encoder.Encode(Response{Ok: false, Err: err.Error()})
		return
	}

	encoder.Encode(Response{
		Ok: true,
		Data: SpawnResponse{
			ID:  entry.Session.ID(),
			Pid: entry.Session.Pid(),
		},
	})
}

func (s *Server) handleWrite(data json.RawMessage, encoder *json.Encoder) {
	var req WriteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid write request: " + err.Error()})
		return
	}

	entry, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	if _, err := entry.Session.Write([]byte(req.Data)); err != nil {
		encoder.Encode(Response{Ok: false, Err: err.Error()})
		return
	}

	encoder.Encode(Response{Ok: true})
}

func (s *Server) handleRead(data json.RawMessage, encoder *json.Encoder) {
	var req ReadRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid read request: " + err.Error()})
		return
	}

	entry, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	encoder.Encode(Response{
		Ok:   true,
		Data: ReadResponse{Data: string(entry.Stream.Replay())},
	})
}

func (s *Server) handleResize(data json.RawMessage, encoder *json.Encoder) {
	var req ResizeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid resize request: " + err.Error()})
		return
	}

	if req.Rows == 0 || req.Cols == 0 {
		encoder.Encode(Response{Ok: false, Err: "rows and cols must be positive"})
		return
	}

	entry, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	if err := entry.Session.Resize(req.Rows, req.Cols); err != nil {
		encoder.Encode(Response{Ok: false, Err: err.Error()})
		return
	}

	encoder.Encode(Response{Ok: true})
}

func (s *Server) handleKill(data json.RawMessage, encoder *json.Encoder) {
	var req KillRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid kill request: " + err.Error()})
		return
	}

	entry, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	if err := entry.Session.Kill(); err != nil {
		encoder.Encode(Response{Ok: false, Err: err.Error()})
		return
	}

	encoder.Encode(Response{Ok: true})
}

func (s *Server) handleClose(data json.RawMessage, encoder *json.Encoder) {
	var req CloseRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid close request: " + err.Error()})
		return
	}

	entry, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	pty.CleanupEntry(entry)
	encoder.Encode(Response{Ok: true})
}

func (s *Server) handleWait(data json.RawMessage, encoder *json.Encoder) {
	var req WaitRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid wait request: " + err.Error()})
		return
	}

	entry, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	// Blocks this connection until the child terminates; the future
	// supports any number of observers.
	status, err := entry.Exit.Wait()
	if err != nil {
		encoder.Encode(Response{Ok: false, Err: err.Error()})
		return
	}

	encoder.Encode(Response{
		Ok: true,
		Data: WaitResponse{
			Code:     status.Code,
			Signaled: status.Signaled,
			Signal:   status.Signal,
		},
	})
}

func (s *Server) handleList(encoder *json.Encoder) {
	entries := pty.DefaultManager.List()
	infos := make([]SessionInfo, 0, len(entries))
	for _, e := range entries {
		size := e.Session.Size()
		infos = append(infos, SessionInfo{
			ID:    e.Session.ID(),
			Pid:   e.Session.Pid(),
			State: e.Session.State().String(),
			Rows:  size.Rows,
			Cols:  size.Cols,
		})
	}

	encoder.Encode(Response{
		Ok: true,
		Data: ListResponse{
			Sessions: infos,
			Count:    len(infos),
		},
	})
}

func (s *Server) lookup(id string, encoder *json.Encoder) (*pty.Entry, bool) {
	if id == "" {
		encoder.Encode(Response{Ok: false, Err: "session ID is required"})
		return nil, false
	}
	entry := pty.DefaultManager.Get(id)
	if entry == nil {
		encoder.Encode(Response{Ok: false, Err: "session not found"})
		return nil, false
	}
	return entry, true
}
