package sse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamWritesEvents(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := New(rec)
	require.NoError(t, err)

	require.NoError(t, s.Send("order.created", map[string]string{"orderNumber": "ORD-1"}))
	require.NoError(t, s.Comment("ping"))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "event: order.created\ndata: {\"orderNumber\":\"ORD-1\"}\n\n: ping\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}

type plainWriter struct{ http.ResponseWriter }

func TestNewRequiresFlusher(t *testing.T) {
	_, err := New(plainWriter{httptest.NewRecorder()})
	assert.ErrorIs(t, err, ErrUnsupported)
}
