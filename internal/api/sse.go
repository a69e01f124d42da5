package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/seolim/thoughtcast/internal/service/pipeline"
	"github.com/seolim/thoughtcast/internal/util"
)

type sseEvent struct {
	Name string
	Data any
}

// handleAnalyzeStream is the incremental variant of handleAnalyze: an init
// event, processing/complete per stage, a saving event, then a terminal
// complete or error event. A stream that closes without a terminal event is
// a failure from the consumer's side.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, s.logger, fmt.Errorf("streaming unsupported by this connection"), nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	userID := UserID(r.Context())
	events := make(chan sseEvent, 16)

	var wg conc.WaitGroup
	wg.Go(func() {
		defer close(events)
		s.streamPipeline(ctx, userID, req, events)
	})

	for event := range events {
		if err := writeSSE(w, flusher, event); err != nil {
			// Client went away; the pipeline goroutine finishes on its own
			// context.
			cancel()
			break
		}
	}
	wg.Wait()
}

// streamPipeline produces the ordered event sequence for one run.
func (s *Server) streamPipeline(ctx context.Context, userID string, req submitRequest, events chan<- sseEvent) {
	events <- sseEvent{Name: "init", Data: map[string]string{"status": "started"}}

	run := s.runner.RunWithObserver(ctx, util.SanitizeInput(req.Content, maxContentLength), func(ev pipeline.StageEvent) {
		switch ev.Phase {
		case "processing":
			events <- sseEvent{Name: "processing", Data: ev}
		case "complete":
			events <- sseEvent{Name: "complete", Data: ev}
		}
	})

	formatted, failed := pipeline.FormatRun(run)
	if failed != nil {
		message := failed.Message
		if ctx.Err() != nil {
			message = "request exceeded its time budget, try again with shorter input"
		}
		events <- sseEvent{Name: "error", Data: map[string]string{"message": message}}
		return
	}

	events <- sseEvent{Name: "saving", Data: map[string]string{"status": "saving"}}

	final := map[string]any{"analysis": formatted}
	if thought, err := s.saveThought(ctx, userID, req, formatted, nil); err != nil {
		s.logger.Error("Thought save failed during stream", zap.Error(err))
		final["saved"] = false
		final["warning"] = "analysis succeeded but saving failed"
	} else {
		final["saved"] = true
		final["id"] = thought.ID
	}

	events <- sseEvent{Name: "complete", Data: final}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event sseEvent) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
