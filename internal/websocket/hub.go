package websocket

import (
	"context"
	"sync"

	"assistant-chat/internal/events"
)

var _ events.Publisher = (*Hub)(nil)

// Hub tracks live feed connections grouped by the chat they follow.
// Membership changes go through Run; Broadcast only takes the read lock.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int64]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		done:       make(chan struct{}),
	}
}

// Run applies registrations until ctx is done. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.join(client)
		case client := <-h.unregister:
			h.leave(client)
		}
	}
}

// Register and Unregister are no-ops once Run has returned.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues payload for every client following the chat behind channel.
// Channels that are not chat channels are ignored.
func (h *Hub) Broadcast(channel string, payload []byte) {
	chatID, ok := events.ChatIDFromChannel(channel)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[chatID] {
		c.SendMessage(payload)
	}
}

// Publish delivers in-process, used when no Redis is configured.
func (h *Hub) Publish(ctx context.Context, channel string, payload []byte) error {
	h.Broadcast(channel, payload)
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, room := range h.rooms {
		n += len(room)
	}
	return n
}

func (h *Hub) RoomSize(chatID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

func (h *Hub) join(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// unregister may be picked before register when a peer drops immediately
	if client.left {
		return
	}
	room, ok := h.rooms[client.ChatID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.ChatID] = room
	}
	room[client] = struct{}{}
}

// leave removes the client and closes its send queue exactly once.
func (h *Hub) leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.left {
		return
	}
	client.left = true

	if room, ok := h.rooms[client.ChatID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.ChatID)
		}
	}
	close(client.Send)
}
