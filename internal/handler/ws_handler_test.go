package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	ws "github.com/opencampus/worklog-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialMonitor upgrades a test connection and runs monitorLoop over it, fed by
// the returned events channel.
func dialMonitor(t *testing.T, h *WSHandler) (*websocket.Conn, chan *redis.Message) {
	t.Helper()

	events := make(chan *redis.Message)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		h.monitorLoop(r.Context(), conn, events, zerolog.Nop())
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, events
}

func TestWSHandler_MonitorLoop_SingleWriter(t *testing.T) {
	h := &WSHandler{log: zerolog.Nop()}
	client, events := dialMonitor(t, h)

	// Pings from the client and ledger events from the course channel arrive
	// at the same time; every frame must still come back intact, in whatever
	// order the writer loop drains them.
	const n = 20
	go func() {
		for i := 0; i < n; i++ {
			events <- &redis.Message{Payload: `{"type":"CLOCK_OUT","student_id":1,"course_id":1}`}
		}
	}()
	for i := 0; i < n; i++ {
		require.NoError(t, client.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}))
	}

	client.SetReadDeadline(time.Now().Add(5 * time.Second))

	pongs, worklogs := 0, 0
	for pongs < n || worklogs < n {
		var frame struct {
			Event   ws.Event        `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, client.ReadJSON(&frame))

		switch frame.Event {
		case ws.EventPong:
			pongs++
		case ws.EventWorklog:
			// The payload embeds as a JSON object, not a re-encoded string.
			var ev struct {
				Type      string `json:"type"`
				StudentID int    `json:"student_id"`
			}
			require.NoError(t, json.Unmarshal(frame.Payload, &ev))
			assert.Equal(t, "CLOCK_OUT", ev.Type)
			assert.Equal(t, 1, ev.StudentID)
			worklogs++
		default:
			t.Fatalf("unexpected frame event %q", frame.Event)
		}
	}

	assert.Equal(t, n, pongs)
	assert.Equal(t, n, worklogs)
}

func TestWSHandler_MonitorLoop_UnknownAction(t *testing.T) {
	h := &WSHandler{log: zerolog.Nop()}
	client, _ := dialMonitor(t, h)

	require.NoError(t, client.WriteJSON(ws.RequestEnvelope{Action: "subscribe"}))

	client.SetReadDeadline(time.Now().Add(5 * time.Second))

	var frame ws.ErrorResponse
	require.NoError(t, client.ReadJSON(&frame))
	assert.Equal(t, ws.EventError, frame.Event)
	assert.Contains(t, frame.Error, "subscribe")
}
