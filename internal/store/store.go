package store

import (
	"context"
	"errors"

	"github.com/seolim/thoughtcast/internal/domain"
)

// ErrNotFound is returned by lookups when no row matches. Callers that have
// a defined fallback (the default voice profile) check for it explicitly.
var ErrNotFound = errors.New("store: not found")

// ThoughtStore persists submitted thoughts and their structured analysis.
// The analysis payload is written once and never mutated afterwards.
type ThoughtStore interface {
	CreateThought(ctx context.Context, thought *domain.Thought) error
	GetThought(ctx context.Context, userID, id string) (*domain.Thought, error)
	ListThoughts(ctx context.Context, userID string, limit int) ([]*domain.Thought, error)
	DeleteThought(ctx context.Context, userID, id string) error
}

// VoiceProfileStore persists the one-per-user voice profile.
type VoiceProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.VoiceProfile, error)
	SaveProfile(ctx context.Context, profile *domain.VoiceProfile) error
}

// FeedbackStore holds the append-only feedback and audit trails. Rows are
// never updated or deleted.
type FeedbackStore interface {
	AppendFeedback(ctx context.Context, record *domain.FeedbackRecord) error
	AppendAudit(ctx context.Context, record *domain.AuditRecord) error
}
