package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/devaloi/hypechat/internal/domain"
	"github.com/devaloi/hypechat/internal/hub"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// IngressRequest is a message handed over by the peer-to-peer layer.
type IngressRequest struct {
	From string `json:"from" validate:"required,max=64"`
	Name string `json:"name" validate:"max=64"`
	Text string `json:"text" validate:"required,max=4096"`
}

// Health returns a simple health check handler.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ListConversations returns every conversation with its unread state.
func ListConversations(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, h.Conversations())
	}
}

// ConversationMessages returns the full history of one conversation.
func ConversationMessages(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs, err := h.Messages(r.PathValue("id"))
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

// ReceiveMessage appends a message that arrived from the remote peer.
func ReceiveMessage(h *hub.Hub, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IngressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		endpoint := domain.Endpoint{ID: r.PathValue("id"), Name: req.Name}
		msg := domain.NewMessage(req.From, req.Text)
		if err := h.Deliver(endpoint, msg, true); err != nil {
			log.Warn("ingress rejected", "endpoint", endpoint.ID, "error", err)
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// MarkRead marks every message of a conversation as read.
func MarkRead(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := h.MarkRead(id); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		c, err := h.Conversation(id)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, hub.ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, hub.ErrTooManyConversations):
		return http.StatusServiceUnavailable
	case errors.Is(err, hub.ErrEmptyEndpoint):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
