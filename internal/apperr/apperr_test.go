package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("empty description"), KindValidation},
		{"not found", NotFound("entry not found"), KindNotFound},
		{"conflict", Conflict("entry already open"), KindConflict},
		{"authorization", Authorization("not course owner"), KindAuthorization},
		{"plain error is internal", errors.New("boom"), KindInternal},
		{"wrapped apperr keeps kind", fmt.Errorf("open entry: %w", Conflict("entry already open")), KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsKind(t *testing.T) {
	err := NotFound("group not found")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(nil, KindNotFound))
}

func TestCodeOf(t *testing.T) {
	err := Conflict("entry already open").WithCode(CodeEntryAlreadyOpen)
	assert.Equal(t, CodeEntryAlreadyOpen, CodeOf(err))
	assert.Equal(t, CodeEntryAlreadyOpen, CodeOf(fmt.Errorf("open entry: %w", err)))
	assert.Equal(t, "", CodeOf(Conflict("group name already used within course")))
	assert.Equal(t, "", CodeOf(errors.New("boom")))
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindInternal, "sum durations", errors.New("connection reset"))
	assert.Contains(t, err.Error(), "internal")
	assert.Contains(t, err.Error(), "sum durations")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "connection reset", errors.Unwrap(err).Error())
}
