package hub

import (
	"log/slog"

	"github.com/devaloi/hypechat/internal/domain"
	"github.com/devaloi/hypechat/internal/store"
)

// Client is the interface that hub/conversation expects from a watching client.
type Client interface {
	Username() string
	Send(data []byte)
}

// Conversation pairs the message log of one endpoint with the clients
// watching it. It observes its store and forwards every append to them.
//
// A Conversation is only touched while the owning hub holds its lock.
type Conversation struct {
	store   *store.MessageStore
	clients map[Client]bool
	log     *slog.Logger
}

// NewConversation creates a conversation with an empty store for the endpoint.
func NewConversation(endpoint domain.Endpoint, log *slog.Logger) *Conversation {
	c := &Conversation{
		store:   store.New(endpoint),
		clients: make(map[Client]bool),
		log:     log,
	}
	c.store.SetObserver(c)
	return c
}

// MessageAdded implements store.Observer.
func (c *Conversation) MessageAdded(s *store.MessageStore, msg domain.Message) {
	c.broadcast(domain.MessageEvent{
		Type:     domain.EvtMessage,
		Endpoint: s.Endpoint().ID,
		Message:  msg,
	})
	c.broadcast(c.status())
}

// Endpoint returns the endpoint of the conversation.
func (c *Conversation) Endpoint() domain.Endpoint {
	return c.store.Endpoint()
}

// Store exposes the underlying message log.
func (c *Conversation) Store() *store.MessageStore {
	return c.store
}

// Watch adds a client and sends it the history and read status.
func (c *Conversation) Watch(cl Client) {
	c.clients[cl] = true

	he := domain.HistoryEvent{
		Type:     domain.EvtHistory,
		Endpoint: c.Endpoint().ID,
		Messages: c.store.AllMessages(),
	}
	c.sendTo(cl, he)
	c.sendTo(cl, c.status())
}

// Unwatch removes a client.
func (c *Conversation) Unwatch(cl Client) {
	delete(c.clients, cl)
}

// MarkAllRead clears the unread state and tells watchers.
func (c *Conversation) MarkAllRead() {
	c.store.MarkAllRead()
	c.broadcast(c.status())
}

// WatcherCount returns the number of watching clients.
func (c *Conversation) WatcherCount() int {
	return len(c.clients)
}

// Summary returns a snapshot of the conversation state.
func (c *Conversation) Summary() domain.Conversation {
	return domain.Conversation{
		Endpoint:     c.Endpoint(),
		MessageCount: c.store.Len(),
		UnreadCount:  c.store.UnreadCount(),
		HasNew:       c.store.HasNewMessages(),
		Watchers:     len(c.clients),
	}
}

func (c *Conversation) status() domain.StatusEvent {
	return domain.StatusEvent{
		Type:        domain.EvtStatus,
		Endpoint:    c.Endpoint().ID,
		HasNew:      c.store.HasNewMessages(),
		UnreadCount: c.store.UnreadCount(),
	}
}

func (c *Conversation) broadcast(v any) {
	if len(c.clients) == 0 {
		return
	}
	data, err := domain.Encode(v)
	if err != nil {
		c.log.Error("encode event", "endpoint", c.Endpoint().ID, "error", err)
		return
	}
	for cl := range c.clients {
		cl.Send(data)
	}
}

func (c *Conversation) sendTo(cl Client, v any) {
	data, err := domain.Encode(v)
	if err != nil {
		c.log.Error("encode event", "endpoint", c.Endpoint().ID, "error", err)
		return
	}
	cl.Send(data)
}
