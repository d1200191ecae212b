package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types sent to watching clients.
const (
	EvtMessage = "message"
	EvtHistory = "history"
	EvtStatus  = "status"
	EvtError   = "error"
)

// Command types accepted from watching clients.
const (
	CmdSend = "send"
	CmdRead = "read"
)

// Endpoint identifies the remote or local peer a conversation is bound to.
type Endpoint struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Message is a unit of chat content produced by the peer-to-peer layer.
// The message log never inspects or modifies it.
type Message struct {
	ID        uuid.UUID `json:"id"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage stamps a message with a fresh ID and the current UTC time.
func NewMessage(from, text string) Message {
	return Message{
		ID:        uuid.New(),
		From:      from,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// MessageEvent announces a message appended to a conversation.
type MessageEvent struct {
	Type     string  `json:"type"`
	Endpoint string  `json:"endpoint"`
	Message  Message `json:"message"`
}

// HistoryEvent is sent to a client when it starts watching a conversation.
type HistoryEvent struct {
	Type     string    `json:"type"`
	Endpoint string    `json:"endpoint"`
	Messages []Message `json:"messages"`
}

// StatusEvent reports the read state of a conversation.
type StatusEvent struct {
	Type        string `json:"type"`
	Endpoint    string `json:"endpoint"`
	HasNew      bool   `json:"has_new"`
	UnreadCount int    `json:"unread_count"`
}

// ErrorEvent reports an error to the client.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Command is an instruction sent by a watching client.
type Command struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Encode serializes a value to JSON bytes.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeCommand deserializes JSON bytes into a Command.
func DecodeCommand(data []byte) (Command, error) {
	var c Command
	err := json.Unmarshal(data, &c)
	return c, err
}
