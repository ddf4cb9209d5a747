// Package events carries domain events from the task lifecycle, generator,
// and assignment coordinator to the notification dispatcher. Events travel
// over valkey pub/sub so every API instance sees them; local handlers are
// invoked directly as well.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"roomflow/config"
	"roomflow/internal/database"
	"roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	NOTIFICATIONS_CHANNEL Channel = "notifications"
)

type EventType string

const (
	TASK_ASSIGNED           EventType = "task_assigned"
	MULTIPLE_TASKS_ASSIGNED EventType = "multiple_tasks_assigned"
	CLEANING_STARTED        EventType = "cleaning_started"
	CLEANING_COMPLETED      EventType = "cleaning_completed"
	RUSH_TASK               EventType = "rush_task"
	DEPARTURE_TASK_CREATED  EventType = "departure_task_created"
)

// Event is a domain notification with its recipient targeting. UserIDs
// receive inbox rows, realtime messages, and mobile push. Roles receive a
// realtime group broadcast. PushRoles additionally receive mobile push to
// every registered token of users holding the role.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	TaskID    *uuid.UUID     `json:"taskId,omitempty"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	UserIDs   []uuid.UUID    `json:"userIds,omitempty"`
	Roles     []models.Role  `json:"roles,omitempty"`
	PushRoles []models.Role  `json:"pushRoles,omitempty"`
	SaveToDB  bool           `json:"saveToDb"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

type EventBus struct {
	client   database.CacheClient
	logger   logger.Logger
	config   config.Config
	handlers map[Channel][]EventHandler
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(client database.CacheClient, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:   client,
		logger:   logger.New("EventBus"),
		config:   config,
		handlers: make(map[Channel][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if eb.client == nil {
		// No broker configured; deliver in-process only.
		eb.notifyLocalHandlers(channel, event)
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		// The broker being down must not lose the event for this process.
		log.Er("failed to publish event to valkey, delivering locally", err,
			"channel", channel, "eventID", event.ID)
		eb.notifyLocalHandlers(channel, event)
		return nil
	}

	log.Info("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	first := len(eb.handlers[channel]) == 0
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if eb.client != nil && first {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := eb.handlers[channel]
	eb.mutex.RUnlock()

	if len(handlers) == 0 {
		return
	}

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel", channel,
					"eventID", event.ID,
					"handlerIndex", handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	ctx, cancel := context.WithCancel(eb.ctx)
	defer cancel()

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel, "message", msg.Message)
				return
			}

			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}
