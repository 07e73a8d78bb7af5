package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventPong     Event = "pong"
	EventSnapshot Event = "snapshot"
	EventWorklog  Event = "worklog"
)

// SnapshotResponse carries the course's open entries at connect time, so the
// monitor starts from a complete picture before live events stream in.
type SnapshotResponse struct {
	Event   Event       `json:"event"`
	Entries interface{} `json:"entries"`
}

// WorklogResponse wraps a ledger event published on the course channel. The
// payload is already JSON and embeds in the frame as-is, so clients decode
// one object, not a JSON string holding more JSON.
type WorklogResponse struct {
	Event   Event           `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
