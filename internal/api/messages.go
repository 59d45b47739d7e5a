package api

import "encoding/json"

// Request represents an incoming request over the control socket.
type Request struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Response represents a response to a request.
type Response struct {
	Ok   bool        `json:"ok"`
	Err  string      `json:"err,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// SpawnRequest is the data for a spawn action. An empty program means
// the platform default shell.
type SpawnRequest struct {
	Program string            `json:"program,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Cwd     string            `json:"cwd,omitempty"`
	Rows    uint16            `json:"rows"`
	Cols    uint16            `json:"cols"`
}

// SpawnResponse is the data returned from a spawn action.
type SpawnResponse struct {
	ID  string `json:"id"`
	Pid int    `json:"pid"`
}

// WriteRequest is the data for a write action.
type WriteRequest struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

// ReadRequest is the data for a read action.
type ReadRequest struct {
	ID string `json:"id"`
}

// ReadResponse carries the session's buffered output.
type ReadResponse struct {
	Data string `json:"data"`
}

// ResizeRequest is the data for a resize action.
type ResizeRequest struct {
	ID   string `json:"id"`
	Rows uint16 `json:"rows"`
	Cols uint16 `json:"cols"`
}

// KillRequest is the data for a kill action.
type KillRequest struct {
	ID string `json:"id"`
}

// CloseRequest is the data for a close action. Closing kills the child
// if it is still running and removes the session from the registry.
type CloseRequest struct {
	ID string `json:"id"`
}

// WaitRequest is the data for a wait action.
type WaitRequest struct {
	ID string `json:"id"`
}

// WaitResponse is the exit status delivered once the child terminates.
type WaitResponse struct {
	Code     int    `json:"code"`
	Signaled bool   `json:"signaled"`
	Signal   string `json:"signal,omitempty"`
}

// ListResponse is the data returned from a list action.
type ListResponse struct {
	Sessions []SessionInfo `json:"sessions"`
	Count    int           `json:"count"`
}

// SessionInfo contains information about a session.
type SessionInfo struct {
	ID    string `json:"id"`
	Pid   int    `json:"pid"`
	State string `json:"state"`
	Rows  uint16 `json:"rows"`
	Cols  uint16 `json:"cols"`
}
