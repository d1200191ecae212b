package store

import "github.com/devaloi/hypechat/internal/domain"

// MessageStore holds the ordered message history exchanged with one endpoint.
type MessageStore struct {
	endpoint domain.Endpoint
	messages []domain.Message
	lastRead int
	observer Observer
}

// New creates an empty store bound to the given endpoint.
func New(endpoint domain.Endpoint) *MessageStore {
	return &MessageStore{endpoint: endpoint}
}

// Endpoint returns the endpoint the store was created for.
func (s *MessageStore) Endpoint() domain.Endpoint {
	return s.endpoint
}

// SetObserver replaces the observer. Passing nil removes it.
func (s *MessageStore) SetObserver(o Observer) {
	s.observer = o
}

// Add appends a message and notifies the observer.
//
// A message sent by this peer (received == false) moves the read boundary
// past itself, but only when nothing else was unread before it.
func (s *MessageStore) Add(msg domain.Message, received bool) {
	s.messages = append(s.messages, msg)

	if !received && s.lastRead == len(s.messages)-1 {
		s.lastRead = len(s.messages)
	}

	if s.observer != nil {
		s.observer.MessageAdded(s, msg)
	}
}

// HasNewMessages reports whether any message is past the read boundary.
func (s *MessageStore) HasNewMessages() bool {
	return s.lastRead < len(s.messages)
}

// AllMessages returns a copy of the history in arrival order.
func (s *MessageStore) AllMessages() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Unread returns a copy of the messages past the read boundary.
func (s *MessageStore) Unread() []domain.Message {
	out := make([]domain.Message, len(s.messages)-s.lastRead)
	copy(out, s.messages[s.lastRead:])
	return out
}

// MarkAllRead moves the read boundary to the end of the history.
func (s *MessageStore) MarkAllRead() {
	s.lastRead = len(s.messages)
}

// Len returns the number of messages in the store.
func (s *MessageStore) Len() int {
	return len(s.messages)
}

// LastReadIndex returns the number of messages considered read.
func (s *MessageStore) LastReadIndex() int {
	return s.lastRead
}

// UnreadCount returns the number of messages past the read boundary.
func (s *MessageStore) UnreadCount() int {
	return len(s.messages) - s.lastRead
}
