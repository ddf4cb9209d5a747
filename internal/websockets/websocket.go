package websockets

import (
	"sync"
	"time"

	"roomflow/config"
	"roomflow/internal/models"
	"roomflow/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_NOTIFICATION = "notification"
	MESSAGE_TYPE_BROADCAST    = "broadcast"
	MESSAGE_TYPE_ERROR        = "error"
	PING_INTERVAL             = 30 * time.Second
	PONG_TIMEOUT              = 60 * time.Second
	WRITE_TIMEOUT             = 10 * time.Second
	MAX_MESSAGE_SIZE          = 64 * 1024
	SEND_CHANNEL_SIZE         = 64
)

// Group names for targeted delivery. Every connection joins its user group
// and the online group for its role.
func UserGroup(userID uuid.UUID) string { return "user_" + userID.String() }
func RoleGroup(role models.Role) string { return "online_" + string(role) }

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Event     string         `json:"event,omitempty"`
	Title     string         `json:"title,omitempty"`
	Body      string         `json:"body,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Role       models.Role
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
	sendMutex  sync.Mutex
	closed     bool
}

// enqueue attempts a non-blocking delivery, reporting false when the send
// queue is full or the client has already been closed. The mutex keeps the
// send ordered against closeSend so a late delivery never hits a closed
// channel.
func (c *Client) enqueue(message Message) bool {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) isClosed() bool {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.closed
}

// closeSend closes the send queue exactly once; further enqueues drop.
func (c *Client) closeSend() {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

type Manager struct {
	hub    *Hub
	auth   *services.AuthService
	config config.Config
	log    logger.Logger
}

func New(auth *services.AuthService, config config.Config) *Manager {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
			groups:     make(map[string]map[string]*Client),
		},
		auth:   auth,
		config: config,
		log:    log,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	return manager
}

// UpgradeMiddleware authenticates the connection before the protocol
// upgrade. The browser websocket API cannot set headers, so the access
// token arrives as a query parameter and runs through the same validation
// as the Authorization header.
func (m *Manager) UpgradeMiddleware(c *fiber.Ctx) error {
	log := m.log.Function("UpgradeMiddleware")

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		log.Warn("websocket upgrade without token", "ip", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
	}

	claims, err := m.auth.ValidateToken(token)
	if err != nil {
		log.Warn("websocket upgrade with invalid token", "ip", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("userID", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		log.Warn("websocket connection without authenticated user")
		_ = c.Close()
		return
	}
	role, _ := c.Locals("role").(models.Role)

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		Role:       role,
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	m.hub.register <- client
	defer func() {
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	go client.readPump()
	client.writePump()
}

// SendToUser delivers the message to every connection in the user's group.
func (m *Manager) SendToUser(userID uuid.UUID, message Message) {
	m.hub.sendToGroup(UserGroup(userID), message, m)
}

// SendToRole delivers the message to every online connection holding role.
func (m *Manager) SendToRole(role models.Role, message Message) {
	m.hub.sendToGroup(RoleGroup(role), message, m)
}

// Broadcast queues the message for every connected client.
func (m *Manager) Broadcast(message Message) {
	log := m.log.Function("Broadcast")

	select {
	case m.hub.broadcast <- message:
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

// OnlineCount reports the number of live connections, used by the health
// endpoint.
func (m *Manager) OnlineCount() int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return len(m.hub.clients)
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	// The stream is server-to-client; inbound frames only keep the
	// connection alive.
	for {
		if _, _, err := c.Connection.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			break
		}

		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to refresh read deadline", err, "clientID", c.ID)
		}
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				log.Info("Channel closed", "clientID", c.ID)
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID, "messageID", message.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
