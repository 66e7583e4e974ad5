package sse_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporthub/conversation-service/internal/api/sse"
)

// plainWriter hides the Flush method of the embedded recorder.
type plainWriter struct {
	http.ResponseWriter
}

func TestNewWriter_SetsStreamingHeaders(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()

	// Act
	writer, err := sse.NewWriter(w)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, writer)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", w.Header().Get("Connection"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
}

func TestNewWriter_NoFlusher(t *testing.T) {
	// Arrange
	w := &plainWriter{ResponseWriter: httptest.NewRecorder()}

	// Act
	writer, err := sse.NewWriter(w)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, writer)
	assert.Contains(t, err.Error(), "streaming not supported")
}

func TestWriter_WriteChunk(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	writer, err := sse.NewWriter(w)
	require.NoError(t, err)

	// Act
	err = writer.WriteChunk("Hello, world")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "event: message\ndata: {\"content\":\"Hello, world\",\"done\":false}\n\n", w.Body.String())
}

func TestWriter_WriteComplete(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	writer, err := sse.NewWriter(w)
	require.NoError(t, err)

	// Act
	err = writer.WriteComplete(map[string]string{"status": "ok"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "event: complete\ndata: {\"status\":\"ok\"}\n\n", w.Body.String())
}

func TestWriter_WriteError(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	writer, err := sse.NewWriter(w)
	require.NoError(t, err)

	// Act
	err = writer.WriteError("NOT_FOUND", "session not found", "sess_123")

	// Assert
	require.NoError(t, err)
	body := w.Body.String()
	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, "\"code\":\"NOT_FOUND\"")
	assert.Contains(t, body, "\"details\":\"sess_123\"")
}

func TestWriter_WriteDone(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	writer, err := sse.NewWriter(w)
	require.NoError(t, err)

	// Act
	err = writer.WriteDone()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "event: done\ndata: stream completed\n\n", w.Body.String())
}

func TestWriter_EventSequence(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	writer, err := sse.NewWriter(w)
	require.NoError(t, err)

	// Act
	require.NoError(t, writer.WriteChunk("first"))
	require.NoError(t, writer.WriteChunk("second"))
	require.NoError(t, writer.WriteDone())

	// Assert
	body := w.Body.String()
	first := "event: message\ndata: {\"content\":\"first\",\"done\":false}\n\n"
	second := "event: message\ndata: {\"content\":\"second\",\"done\":false}\n\n"
	done := "event: done\ndata: stream completed\n\n"
	assert.Equal(t, first+second+done, body)
}
