package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opencampus/worklog-backend/internal/apperr"
)

// Response is the standardized API response envelope.
type Response struct {
	Data     interface{} `json:"data"`
	Error    *ErrorBody  `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// ErrorBody represents a structured error response.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Metadata includes request tracing and timing.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends a successful JSON response with the given status code and data.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Data:     data,
		Metadata: buildMetadata(c),
	})
}

// Fail sends an error response with an error code and no field-level details.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, Response{
		Data:     nil,
		Error:    &ErrorBody{Code: code, Message: GetMessage(code)},
		Metadata: buildMetadata(c),
	})
}

// FailWithMessage sends an error response with a caller-supplied message,
// used to surface engine error text directly to the UI.
func FailWithMessage(c *gin.Context, statusCode int, code ErrCode, message string) {
	c.JSON(statusCode, Response{
		Data:     nil,
		Error:    &ErrorBody{Code: code, Message: message},
		Metadata: buildMetadata(c),
	})
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, Response{
		Data:     nil,
		Error:    &ErrorBody{Code: code, Message: GetMessage(code), Fields: fields},
		Metadata: buildMetadata(c),
	})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, Response{
		Data:     nil,
		Error:    &ErrorBody{Code: code, Message: GetMessage(code)},
		Metadata: buildMetadata(c),
	})
}

// FromError maps a typed engine error to its HTTP status and error code and
// sends it, surfacing the engine's own message text. Unknown errors become
// opaque 500s.
func FromError(c *gin.Context, err error) {
	var e *apperr.Error
	kind := apperr.KindOf(err)

	message := ""
	if errors.As(err, &e) {
		message = e.Message
	}

	switch kind {
	case apperr.KindValidation:
		respondKind(c, http.StatusBadRequest, pinnedCode(e, ErrValidation), message)
	case apperr.KindNotFound:
		respondKind(c, http.StatusNotFound, pinnedCode(e, ErrNotFound), message)
	case apperr.KindConflict:
		respondKind(c, http.StatusConflict, pinnedCode(e, ErrConflict), message)
	case apperr.KindAuthorization:
		respondKind(c, http.StatusForbidden, pinnedCode(e, ErrForbidden), message)
	default:
		Fail(c, http.StatusInternalServerError, ErrInternal)
	}
}

// pinnedCode prefers the code the engine pinned on the error over the kind's
// generic one, so specific conditions (entry already open, review finalized)
// keep a stable code the UI can branch on.
func pinnedCode(e *apperr.Error, fallback ErrCode) ErrCode {
	if e != nil && e.Code != "" {
		return ErrCode(e.Code)
	}
	return fallback
}

func respondKind(c *gin.Context, status int, code ErrCode, message string) {
	if message == "" {
		Fail(c, status, code)
		return
	}
	FailWithMessage(c, status, code, message)
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func buildMetadata(c *gin.Context) Metadata {
	reqID, _ := c.Get(ContextKeyRequestID)
	id, ok := reqID.(string)
	if !ok || id == "" {
		id = uuid.New().String() // Fallback if middleware not applied
	}
	return Metadata{
		RequestID: id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
