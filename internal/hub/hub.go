package hub

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/devaloi/hypechat/internal/domain"
)

var (
	// ErrConversationNotFound is returned for an endpoint with no message log.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrTooManyConversations is returned when a new endpoint would exceed the limit.
	ErrTooManyConversations = errors.New("max conversations reached")
	// ErrEmptyEndpoint is returned when an endpoint has no ID.
	ErrEmptyEndpoint = errors.New("endpoint id required")
)

// WatchRequest asks the hub to attach a client to a conversation.
type WatchRequest struct {
	Client   Client
	Endpoint domain.Endpoint
}

// UnwatchRequest asks the hub to detach a client from a conversation.
type UnwatchRequest struct {
	Client     Client
	EndpointID string
}

// Hub owns one message log per endpoint and serializes every access to them.
type Hub struct {
	conversations    map[string]*Conversation
	mu               sync.Mutex
	watch            chan WatchRequest
	unwatch          chan UnwatchRequest
	maxConversations int
	log              *slog.Logger
	quit             chan struct{}
	stopOnce         sync.Once
}

// New creates a new Hub.
func New(log *slog.Logger, maxConversations int) *Hub {
	return &Hub{
		conversations:    make(map[string]*Conversation),
		watch:            make(chan WatchRequest, 256),
		unwatch:          make(chan UnwatchRequest, 256),
		maxConversations: maxConversations,
		log:              log,
		quit:             make(chan struct{}),
	}
}

// Run starts the hub's event loop. Should be called as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case req := <-h.watch:
			h.handleWatch(req)
		case req := <-h.unwatch:
			h.handleUnwatch(req)
		case <-h.quit:
			return
		}
	}
}

// Stop signals the hub's event loop to exit.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Watch queues a request to attach a client to an endpoint's conversation.
func (h *Hub) Watch(client Client, endpoint domain.Endpoint) {
	h.watch <- WatchRequest{Client: client, Endpoint: endpoint}
}

// Unwatch queues a request to detach a client.
func (h *Hub) Unwatch(client Client, endpointID string) {
	h.unwatch <- UnwatchRequest{Client: client, EndpointID: endpointID}
}

// Deliver appends a message to the endpoint's conversation, creating it on
// first use. received is true for messages that arrived from the peer.
func (h *Hub) Deliver(endpoint domain.Endpoint, msg domain.Message, received bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.conversation(endpoint)
	if err != nil {
		return fmt.Errorf("deliver to %q: %w", endpoint.ID, err)
	}
	c.Store().Add(msg, received)
	h.log.Debug("message added",
		"endpoint", endpoint.ID,
		"received", received,
		"unread", c.Store().UnreadCount(),
	)
	return nil
}

// MarkRead marks every message of the endpoint's conversation as read.
func (h *Hub) MarkRead(endpointID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conversations[endpointID]
	if !ok {
		return ErrConversationNotFound
	}
	c.MarkAllRead()
	return nil
}

// Messages returns a copy of the endpoint's history, oldest first.
func (h *Hub) Messages(endpointID string) ([]domain.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conversations[endpointID]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return c.Store().AllMessages(), nil
}

// Conversation returns a summary of one conversation.
func (h *Hub) Conversation(endpointID string) (domain.Conversation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conversations[endpointID]
	if !ok {
		return domain.Conversation{}, ErrConversationNotFound
	}
	return c.Summary(), nil
}

// Conversations returns summaries of all conversations ordered by endpoint ID.
func (h *Hub) Conversations() []domain.Conversation {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := lo.Keys(h.conversations)
	slices.Sort(ids)
	return lo.Map(ids, func(id string, _ int) domain.Conversation {
		return h.conversations[id].Summary()
	})
}

// conversation returns the endpoint's conversation, creating it if needed.
// Callers must hold h.mu.
func (h *Hub) conversation(endpoint domain.Endpoint) (*Conversation, error) {
	if endpoint.ID == "" {
		return nil, ErrEmptyEndpoint
	}
	if c, ok := h.conversations[endpoint.ID]; ok {
		return c, nil
	}
	if len(h.conversations) >= h.maxConversations {
		return nil, ErrTooManyConversations
	}
	c := NewConversation(endpoint, h.log)
	h.conversations[endpoint.ID] = c
	h.log.Info("conversation created", "endpoint", endpoint.ID, "name", endpoint.Name)
	return c, nil
}

func (h *Hub) handleWatch(req WatchRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.conversation(req.Endpoint)
	if err != nil {
		h.log.Warn("watch rejected", "endpoint", req.Endpoint.ID, "user", req.Client.Username(), "error", err)
		ev := domain.ErrorEvent{Type: domain.EvtError, Message: err.Error()}
		if data, err := domain.Encode(ev); err == nil {
			req.Client.Send(data)
		}
		return
	}
	c.Watch(req.Client)
}

func (h *Hub) handleUnwatch(req UnwatchRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.conversations[req.EndpointID]; ok {
		c.Unwatch(req.Client)
	}
}
