// Package notifications fans domain events out to three delivery sinks:
// persistent inbox rows, realtime websocket messages, and mobile push. The
// sinks are independent; a failure in one never blocks the others, and a
// failure for one recipient never blocks the rest.
package notifications

import (
	"context"
	"encoding/json"
	"time"

	"roomflow/internal/database"
	"roomflow/internal/events"
	"roomflow/internal/models"
	"roomflow/internal/repositories"
	"roomflow/internal/services"
	"roomflow/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dispatchTimeout = 30 * time.Second

type Dispatcher struct {
	db               database.DB
	notificationRepo repositories.NotificationRepository
	pushTokenRepo    repositories.PushTokenRepository
	userRepo         repositories.UserRepository
	wsManager        *websockets.Manager
	push             *services.PushService
	log              logger.Logger
}

func New(
	db database.DB,
	repos repositories.Repository,
	wsManager *websockets.Manager,
	push *services.PushService,
) *Dispatcher {
	return &Dispatcher{
		db:               db,
		notificationRepo: repos.Notification,
		pushTokenRepo:    repos.PushToken,
		userRepo:         repos.User,
		wsManager:        wsManager,
		push:             push,
		log:              logger.New("Dispatcher"),
	}
}

// Start subscribes the dispatcher to the notifications channel.
func (d *Dispatcher) Start(eventBus *events.EventBus) error {
	return eventBus.Subscribe(events.NOTIFICATIONS_CHANNEL, d.Dispatch)
}

// Dispatch runs the three sinks for one event. It always returns nil: sink
// failures are logged, never propagated back to the producing transition.
func (d *Dispatcher) Dispatch(event events.Event) error {
	log := d.log.Function("Dispatch")

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	inboxIDs := d.saveInbox(ctx, event)
	d.sendRealtime(event, inboxIDs)
	d.sendPush(ctx, event)

	log.Debug("event dispatched", "eventID", event.ID, "eventType", event.Type)
	return nil
}

// saveInbox writes one notification row per direct recipient and returns the
// created row id per recipient, so the realtime message carries an id the
// client can mark read. Rows are written one at a time so a bad recipient
// does not void the rest.
func (d *Dispatcher) saveInbox(ctx context.Context, event events.Event) map[uuid.UUID]uuid.UUID {
	log := d.log.Function("saveInbox")

	if !event.SaveToDB || len(event.UserIDs) == 0 {
		return nil
	}

	var data datatypes.JSON
	if len(event.Data) > 0 {
		if encoded, err := json.Marshal(event.Data); err == nil {
			data = datatypes.JSON(encoded)
		}
	}

	rowIDs := make(map[uuid.UUID]uuid.UUID, len(event.UserIDs))
	for _, userID := range event.UserIDs {
		notification := &models.Notification{
			UserID:           userID,
			Title:            event.Title,
			Body:             event.Body,
			NotificationType: string(event.Type),
			Data:             data,
		}
		err := d.db.SQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return d.notificationRepo.Create(ctx, tx, notification)
		})
		if err != nil {
			log.Er("failed to persist notification", err,
				"eventID", event.ID, "userID", userID)
			continue
		}
		rowIDs[userID] = notification.ID
	}
	return rowIDs
}

// sendRealtime pushes the event into the websocket groups: each direct
// recipient's user group plus the online group of every listed role. A
// persisted recipient gets their inbox row id so the client can mark it
// read; ephemeral messages and role broadcasts carry the event id.
func (d *Dispatcher) sendRealtime(event events.Event, inboxIDs map[uuid.UUID]uuid.UUID) {
	message := websockets.Message{
		ID:        event.ID,
		Type:      websockets.MESSAGE_TYPE_NOTIFICATION,
		Event:     string(event.Type),
		Title:     event.Title,
		Body:      event.Body,
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}

	for _, userID := range event.UserIDs {
		personal := message
		personal.ID = messageID(event, inboxIDs, userID)
		d.wsManager.SendToUser(userID, personal)
	}
	for _, role := range event.Roles {
		d.wsManager.SendToRole(role, message)
	}
}

// messageID picks the id a recipient sees on the realtime message: their
// inbox row id when one was written, the event id for ephemeral events and
// recipients whose row failed to persist.
func messageID(event events.Event, inboxIDs map[uuid.UUID]uuid.UUID, userID uuid.UUID) string {
	if rowID, ok := inboxIDs[userID]; ok {
		return rowID.String()
	}
	return event.ID
}

// sendPush collects device tokens for the direct recipients and for every
// active user holding a push role, then hands them to the push client.
func (d *Dispatcher) sendPush(ctx context.Context, event events.Event) {
	log := d.log.Function("sendPush")

	userIDs := append([]uuid.UUID{}, event.UserIDs...)

	for _, role := range event.PushRoles {
		err := d.db.SQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			users, err := d.userRepo.GetActiveByRole(ctx, tx, role)
			if err != nil {
				return err
			}
			for _, user := range users {
				userIDs = append(userIDs, user.ID)
			}
			return nil
		})
		if err != nil {
			log.Er("failed to resolve push role recipients", err,
				"eventID", event.ID, "role", role)
		}
	}

	if len(userIDs) == 0 {
		return
	}

	seen := make(map[uuid.UUID]bool, len(userIDs))
	unique := userIDs[:0]
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var tokens []*models.PushToken
	err := d.db.SQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tokens, err = d.pushTokenRepo.GetByUserIDs(ctx, tx, unique)
		return err
	})
	if err != nil {
		log.Er("failed to load push tokens", err, "eventID", event.ID)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, token := range tokens {
		tokenStrings = append(tokenStrings, token.Token)
	}

	sent := d.push.Send(ctx, tokenStrings, event.Title, event.Body, event.Data)
	log.Info("push fan-out finished",
		"eventID", event.ID, "tokens", len(tokenStrings), "sent", sent)
}
