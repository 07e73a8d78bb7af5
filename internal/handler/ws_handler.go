package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/opencampus/worklog-backend/internal/config"
	"github.com/opencampus/worklog-backend/internal/middleware"
	"github.com/opencampus/worklog-backend/internal/service"
	ws "github.com/opencampus/worklog-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live work-log activity to instructor monitors.
type WSHandler struct {
	rdb            *redis.Client
	worklogService *service.WorklogService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, worklogService *service.WorklogService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:            rdb,
		worklogService: worklogService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// CourseMonitorStream godoc
// WS /ws/v1/instructor/courses/:courseId/monitor
// Upgrades to WebSocket and streams clock-in/out activity for one course. The
// first frame is a snapshot of currently open entries; every subsequent frame
// forwards a ledger event published on the course channel.
func (h *WSHandler) CourseMonitorStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	// Ownership gate doubles as the snapshot query.
	entries, err := h.worklogService.ListActiveEntries(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "course access denied"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("instructor_id", claims.UserID).
		Int("course_id", courseID).
		Logger()

	wsLog.Info().Msg("Monitor connected")

	if err := ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Entries: entries}); err != nil {
		wsLog.Warn().Err(err).Msg("Snapshot write failed")
		return
	}

	pubsub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.CourseWorklogChannel(courseID))
	defer pubsub.Close()

	h.monitorLoop(c.Request.Context(), conn, pubsub.Channel(), wsLog)
}

// monitorLoop owns every write to the connection. gorilla connections allow
// only one concurrent writer, so the reader goroutine never writes: it parses
// client frames and forwards the actions here, where pongs and forwarded
// events share a single select loop.
func (h *WSHandler) monitorLoop(ctx context.Context, conn *websocket.Conn, events <-chan *redis.Message, wsLog zerolog.Logger) {
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)

	actions := make(chan ws.Action, 8)
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}

			select {
			case actions <- msg.Action:
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case action := <-actions:
			switch action {
			case ws.ActionPing:
				if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
					return
				}
			default:
				wsLog.Warn().Str("action", string(action)).Msg("Unknown action")
				ws.WriteError(conn, "unknown action: "+string(action))
			}
		case msg, open := <-events:
			if !open {
				return
			}
			if err := ws.WriteTyped(conn, ws.WorklogResponse{Event: ws.EventWorklog, Payload: json.RawMessage(msg.Payload)}); err != nil {
				wsLog.Debug().Err(err).Msg("Event write failed")
				return
			}
		}
	}
}
