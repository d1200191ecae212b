package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewMessage(t *testing.T) {
	t.Parallel()
	before := time.Now().UTC()
	m := NewMessage("alice", "hello")

	if m.ID == uuid.Nil {
		t.Error("expected non-nil message ID")
	}
	if m.From != "alice" || m.Text != "hello" {
		t.Errorf("unexpected message: %+v", m)
	}
	if m.Timestamp.Before(before) {
		t.Errorf("timestamp %v before %v", m.Timestamp, before)
	}
	if m.Timestamp.Location() != time.UTC {
		t.Errorf("expected UTC timestamp, got %v", m.Timestamp.Location())
	}
}

func TestNewMessageUniqueIDs(t *testing.T) {
	t.Parallel()
	a := NewMessage("alice", "same")
	b := NewMessage("alice", "same")
	if a.ID == b.ID {
		t.Error("expected distinct IDs for distinct messages")
	}
}

func TestHistoryEventEncode(t *testing.T) {
	t.Parallel()
	he := HistoryEvent{
		Type:     EvtHistory,
		Endpoint: "peer-1",
		Messages: []Message{NewMessage("alice", "hi")},
	}
	data, err := Encode(he)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["messages"]; !ok {
		t.Error("expected messages field in history event")
	}
}

func TestStatusEventEncode(t *testing.T) {
	t.Parallel()
	data, err := Encode(StatusEvent{Type: EvtStatus, Endpoint: "peer-1", HasNew: true, UnreadCount: 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded StatusEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.HasNew || decoded.UnreadCount != 2 {
		t.Errorf("unexpected status: %+v", decoded)
	}
}

func TestDecodeCommand(t *testing.T) {
	t.Parallel()
	c, err := DecodeCommand([]byte(`{"type":"send","text":"hey"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Type != CmdSend || c.Text != "hey" {
		t.Errorf("unexpected command: %+v", c)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	t.Parallel()
	_, err := DecodeCommand([]byte("not json"))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}
