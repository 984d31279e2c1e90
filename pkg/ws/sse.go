package ws

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/sse"
)

const sseKeepAlive = 30 * time.Second

// ServeSSE streams the same frames as Serve over Server-Sent Events. Each
// frame is sent as a default "message" event carrying the Event JSON.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	stream, err := sse.New(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	c := &client{hub: h, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		return
	}
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := stream.SendRaw("", msg); err != nil {
				logger.WithCtx(r.Context()).Warn("ws: sse write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := stream.Comment("keepalive"); err != nil {
				return
			}
		}
	}
}
