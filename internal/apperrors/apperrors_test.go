package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("task")))
	assert.Equal(t, KindConflict, KindOf(Conflict("stale")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrapped: %w", Validation("bad"))))
}

func TestIs(t *testing.T) {
	err := Forbidden("no")
	assert.True(t, Is(err, KindForbidden))
	assert.False(t, Is(err, KindNotFound))
}

func TestIllegalTransition(t *testing.T) {
	err := IllegalTransition("CHECKED", "start")

	assert.Equal(t, KindIllegalTransition, err.Kind)
	assert.Equal(t, "CHECKED", err.CurrentState)
	assert.Equal(t, "start", err.Action)
	assert.Contains(t, err.Error(), "start")
	assert.Contains(t, err.Error(), "CHECKED")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, KindUpstream, "push provider unreachable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}
