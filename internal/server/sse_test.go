package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/degree-tracker/internal/pipeline"
)

// plainWriter hides httptest.ResponseRecorder's Flush.
type plainWriter struct{ http.ResponseWriter }

func TestAuditStream_EventFraming(t *testing.T) {
	w := httptest.NewRecorder()
	stream, err := newAuditStream(w)
	require.NoError(t, err)

	require.NoError(t, stream.step(pipeline.ProgressEvent{Step: "fetch_requirements", Message: "fetching"}))
	require.NoError(t, stream.fail(errors.New("catalog unreachable")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
	assert.True(t, w.Flushed)
	assert.Equal(t,
		"id: 1\nevent: step\ndata: {\"step\":\"fetch_requirements\",\"category\":\"\",\"message\":\"fetching\"}\n\n"+
			"id: 2\nevent: error\ndata: {\"error\":\"catalog unreachable\"}\n\n",
		w.Body.String())
}

func TestAuditStream_RequiresFlusher(t *testing.T) {
	_, err := newAuditStream(plainWriter{httptest.NewRecorder()})
	assert.ErrorIs(t, err, errStreamingUnsupported)
}

func TestAuditStream_UnencodablePayload(t *testing.T) {
	stream, err := newAuditStream(httptest.NewRecorder())
	require.NoError(t, err)

	err = stream.step(pipeline.ProgressEvent{Step: "x", Content: make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode step event")
	assert.Zero(t, stream.seq)
}
