package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errorsx "github.com/seolim/thoughtcast/pkg/errors"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Retryable bool   `json:"retryable,omitempty"`
	Hint      string `json:"hint,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError translates an error into the closed kind enumeration. A
// request that ran out of wall-clock budget gets a timeout kind and a
// shorter-input hint so clients can distinguish it from provider failure.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error, details any) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = errorsx.NewTimeoutError("request exceeded its time budget", err)
	}

	kind := errorsx.Kind(err)
	status := errorsx.Status(err)

	resp := errorResponse{
		Error:   err.Error(),
		Kind:    kind,
		Details: details,
	}
	if kind == errorsx.KindUpstreamTimeout {
		resp.Retryable = true
		resp.Hint = "this is taking too long, try again with shorter input"
	}

	if status >= 500 {
		logger.Error("Request failed", zap.String("kind", kind), zap.Error(err))
	} else {
		logger.Warn("Request rejected", zap.String("kind", kind), zap.Error(err))
	}

	respondJSON(w, status, resp)
}
