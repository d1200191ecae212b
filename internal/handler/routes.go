package handler

import (
	"log/slog"
	"net/http"

	"github.com/devaloi/hypechat/internal/hub"
)

// NewMux registers every HTTP and WebSocket route served for the hub.
func NewMux(h *hub.Hub, sendBuffer int, log *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", Health())
	mux.HandleFunc("GET /api/conversations", ListConversations(h))
	mux.HandleFunc("GET /api/conversations/{id}/messages", ConversationMessages(h))
	mux.HandleFunc("POST /api/conversations/{id}/messages", ReceiveMessage(h, log))
	mux.HandleFunc("POST /api/conversations/{id}/read", MarkRead(h))
	mux.HandleFunc("GET /ws", ServeWS(h, sendBuffer, log))
	return mux
}
