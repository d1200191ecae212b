// Package store keeps the in-memory message log for a single conversation.
//
// A [MessageStore] is append-only. It tracks a read boundary: the number of
// messages the user has already seen. Messages past the boundary are unread.
// The store is not safe for concurrent use; callers serialize access.
package store

import "github.com/devaloi/hypechat/internal/domain"

// Observer is notified after each message is appended to a store.
type Observer interface {
	// MessageAdded is called synchronously from Add, after the message and
	// the read boundary have been updated.
	MessageAdded(s *MessageStore, msg domain.Message)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(s *MessageStore, msg domain.Message)

// MessageAdded calls f(s, msg).
func (f ObserverFunc) MessageAdded(s *MessageStore, msg domain.Message) {
	f(s, msg)
}
