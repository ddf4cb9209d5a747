package websockets

import (
	"sync"
	"time"
)

const (
	retryWindow   = 5 * time.Second
	retryInterval = 50 * time.Millisecond
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	groups     map[string]map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			client.closeSend()
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
	m.hub.joinGroup(UserGroup(client.UserID), client)
	m.hub.joinGroup(RoleGroup(client.Role), client)

	log.Info("Client registered",
		"clientID", client.ID, "userID", client.UserID, "role", client.Role)
}

func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	delete(m.hub.clients, client.ID)
	m.hub.leaveGroup(UserGroup(client.UserID), client)
	m.hub.leaveGroup(RoleGroup(client.Role), client)

	log.Info("Client unregistered", "clientID", client.ID, "userID", client.UserID)
}

// joinGroup and leaveGroup assume the hub mutex is held.
func (h *Hub) joinGroup(group string, client *Client) {
	if h.groups[group] == nil {
		h.groups[group] = make(map[string]*Client)
	}
	h.groups[group][client.ID] = client
}

func (h *Hub) leaveGroup(group string, client *Client) {
	members := h.groups[group]
	if members == nil {
		return
	}
	delete(members, client.ID)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

func (h *Hub) sendToGroup(group string, message Message, m *Manager) {
	log := m.log.Function("sendToGroup")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	members := h.groups[group]
	if len(members) == 0 {
		log.Debug("No connections in group", "group", group)
		return
	}

	sentCount := 0
	for clientID, client := range members {
		if client.enqueue(message) {
			sentCount++
			continue
		}
		go m.retryDelivery(client, clientID, message)
	}

	log.Info("Group delivery complete",
		"group", group, "messageID", message.ID, "sentTo", sentCount, "members", len(members))
}

// retryDelivery keeps trying a full send queue for a bounded window, then
// disconnects the client as too slow. A client closed mid-retry just drops
// the message.
func (m *Manager) retryDelivery(client *Client, clientID string, message Message) {
	log := m.log.Function("retryDelivery")

	deadline := time.Now().Add(retryWindow)
	for time.Now().Before(deadline) {
		if client.enqueue(message) {
			log.Info("Message sent after retry", "clientID", clientID)
			return
		}
		if client.isClosed() {
			return
		}
		time.Sleep(retryInterval)
	}

	_ = log.Error("Client too slow, disconnecting", "clientID", clientID)
	m.hub.unregister <- client
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		log.Info("No active clients to broadcast to", "messageID", message.ID)
		return
	}

	sentCount := 0
	for clientID, client := range h.clients {
		if client.enqueue(message) {
			sentCount++
			continue
		}
		go m.retryDelivery(client, clientID, message)
	}

	log.Info("Broadcast complete",
		"messageID", message.ID, "sentTo", sentCount, "totalClients", len(h.clients))
}
