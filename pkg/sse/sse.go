// Package sse writes Server-Sent Events. The admin live feed uses it for
// clients that cannot open a WebSocket.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrUnsupported = errors.New("sse: response writer cannot flush")

// Stream is one open event stream.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// New sets the event-stream headers and flushes them.
func New(w http.ResponseWriter) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Stream{w: w, flusher: flusher}, nil
}

// Send writes a named event with data encoded as JSON.
func (s *Stream) Send(event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	return s.SendRaw(event, raw)
}

// SendRaw writes an already encoded single-line payload. An empty event
// name produces a default "message" event.
func (s *Stream) SendRaw(event string, data []byte) error {
	var err error
	if event == "" {
		_, err = fmt.Fprintf(s.w, "data: %s\n\n", data)
	} else {
		_, err = fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data)
	}
	if err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Comment writes a comment line; used as a keepalive.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
