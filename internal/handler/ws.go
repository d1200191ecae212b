package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/devaloi/hypechat/internal/client"
	"github.com/devaloi/hypechat/internal/domain"
	"github.com/devaloi/hypechat/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS attaches a WebSocket watcher to the conversation named by the
// endpoint query parameter.
func ServeWS(h *hub.Hub, sendBuffer int, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		user := q.Get("user")
		endpoint := domain.Endpoint{ID: q.Get("endpoint"), Name: q.Get("name")}
		if user == "" || endpoint.ID == "" {
			writeError(w, http.StatusBadRequest, "user and endpoint query params required")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade error", "error", err)
			return
		}

		c := client.New(h, conn, user, endpoint, sendBuffer, log)
		h.Watch(c, endpoint)
		go c.ReadPump()
		go c.WritePump()
	}
}
