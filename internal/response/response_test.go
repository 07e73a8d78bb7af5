package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordFromError(t *testing.T, err error) (int, ErrorBody) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return w.Code, *body.Error
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrCode
	}{
		{"validation", apperr.Validation("description is required"), http.StatusBadRequest, ErrValidation},
		{"not found", apperr.NotFound("course not found"), http.StatusNotFound, ErrNotFound},
		{"conflict", apperr.Conflict("group name already used within course"), http.StatusConflict, ErrConflict},
		{"authorization", apperr.Authorization("requester does not own this course"), http.StatusForbidden, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errBody := recordFromError(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, errBody.Code)
		})
	}
}

func TestFromError_PinnedCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrCode
	}{
		{
			"second clock-in",
			apperr.Conflict("student already has an open entry").WithCode(apperr.CodeEntryAlreadyOpen),
			http.StatusConflict, ErrEntryAlreadyOpen,
		},
		{
			"clock-out of a closed entry",
			apperr.NotFound("entry not found or already closed").WithCode(apperr.CodeEntryNotOpen),
			http.StatusNotFound, ErrEntryNotOpen,
		},
		{
			"re-review",
			apperr.Conflict("entry review already finalized").WithCode(apperr.CodeReviewFinalized),
			http.StatusConflict, ErrReviewFinalized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errBody := recordFromError(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, errBody.Code)
		})
	}
}
