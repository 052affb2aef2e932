package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/degree-tracker/internal/pipeline"
)

// Event names on the /analyze/stream feed.
const (
	eventStep     = "step"
	eventError    = "error"
	eventComplete = "complete"
)

var errStreamingUnsupported = errors.New("response writer does not support streaming")

// auditStream writes one audit's progress as server-sent events. Every event
// carries an increasing id; the feed ends with either complete or error.
type auditStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

func newAuditStream(w http.ResponseWriter) (*auditStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &auditStream{w: w, flusher: flusher}, nil
}

func (a *auditStream) step(event pipeline.ProgressEvent) error {
	return a.send(eventStep, event)
}

func (a *auditStream) fail(err error) error {
	return a.send(eventError, map[string]string{"error": err.Error()})
}

func (a *auditStream) complete(report *pipeline.Report) error {
	return a.send(eventComplete, report)
}

func (a *auditStream) send(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", name, err)
	}
	a.seq++
	if _, err := fmt.Fprintf(a.w, "id: %d\nevent: %s\ndata: %s\n\n", a.seq, name, data); err != nil {
		return err
	}
	a.flusher.Flush()
	return nil
}
