package notifications

import (
	"testing"

	"roomflow/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMessageID(t *testing.T) {
	event := events.Event{ID: uuid.New().String(), Type: events.TASK_ASSIGNED}
	recipient := uuid.New()
	rowID := uuid.New()

	t.Run("persisted recipient gets the inbox row id", func(t *testing.T) {
		inboxIDs := map[uuid.UUID]uuid.UUID{recipient: rowID}
		assert.Equal(t, rowID.String(), messageID(event, inboxIDs, recipient))
	})

	t.Run("ephemeral event falls back to the event id", func(t *testing.T) {
		assert.Equal(t, event.ID, messageID(event, nil, recipient))
	})

	t.Run("recipient without a row gets the event id", func(t *testing.T) {
		inboxIDs := map[uuid.UUID]uuid.UUID{uuid.New(): rowID}
		assert.Equal(t, event.ID, messageID(event, inboxIDs, recipient))
	})
}
