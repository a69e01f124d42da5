package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindAndStatusPerConstructor(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		name   string
		err    error
		kind   string
		status int
	}{
		{"validation", NewValidationError("content is required", "content", ""), KindValidation, 400},
		{"auth", NewAuthError("missing bearer token"), KindAuth, 401},
		{"upstream", NewUpstreamError("model call failed", "gemini", cause), KindUpstreamFailure, 502},
		{"timeout", NewTimeoutError("analysis timed out", cause), KindUpstreamTimeout, 504},
		{"persistence", NewPersistenceError("insert failed", "create_thought", cause), KindPersistence, 500},
		{"cache", NewCacheError("set failed", "set", "k", cause), KindCache, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Kind(tc.err); got != tc.kind {
				t.Fatalf("Kind = %q, want %q", got, tc.kind)
			}
			if got := Status(tc.err); got != tc.status {
				t.Fatalf("Status = %d, want %d", got, tc.status)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NewValidationError("rating must be 1-5", "rating", 9))
	if got := Kind(err); got != KindValidation {
		t.Fatalf("Kind = %q, want %q", got, KindValidation)
	}
	if got := Status(err); got != 400 {
		t.Fatalf("Status = %d, want 400", got)
	}
}

func TestKindDefaultsForPlainErrors(t *testing.T) {
	err := errors.New("something else")
	if got := Kind(err); got != KindUpstreamFailure {
		t.Fatalf("Kind = %q, want %q", got, KindUpstreamFailure)
	}
	if got := Status(err); got != 500 {
		t.Fatalf("Status = %d, want 500", got)
	}
}

func TestCauseStillReachable(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamError("model call failed", "gemini", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to remain in the chain")
	}
}

func TestRetryableOnlyForTimeout(t *testing.T) {
	var app *AppError
	if !errors.As(NewTimeoutError("took too long", nil), &app) || !app.Retryable() {
		t.Fatal("timeout errors should be retryable")
	}
	if !errors.As(NewUpstreamError("failed", "openai", nil), &app) || app.Retryable() {
		t.Fatal("upstream failures should not be retryable")
	}
}
