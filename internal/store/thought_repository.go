package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/seolim/thoughtcast/internal/domain"
)

// legacyPlatformKeys maps the key variants older clients emitted onto the
// canonical platform names. Applied once here, at the persistence boundary,
// so nothing downstream has to handle the old names.
var legacyPlatformKeys = map[string]string{
	"x_twitter":         "twitter",
	"x":                 "twitter",
	"instagram_caption": "instagram",
	"linkedin_post":     "linkedin",
	"youtube_script":    "youtube",
	"youtube_outline":   "youtube",
}

type ThoughtRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewThoughtRepository(postgres *PostgresService, logger *zap.Logger) *ThoughtRepository {
	return &ThoughtRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *ThoughtRepository) CreateThought(ctx context.Context, thought *domain.Thought) error {
	query := `
		INSERT INTO thoughts (id, user_id, content, source_type, tags, analysis, voice_metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	analysis := NormalizePlatformKeys(thought.Analysis)

	var voiceJSON []byte
	if thought.VoiceMetadata != nil {
		var err error
		voiceJSON, err = json.Marshal(thought.VoiceMetadata)
		if err != nil {
			return fmt.Errorf("failed to marshal voice metadata: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx, query,
		thought.ID, thought.UserID, thought.Content, thought.SourceType,
		pq.Array(thought.Tags), []byte(analysis), voiceJSON, thought.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert thought: %w", err)
	}
	return nil
}

func (r *ThoughtRepository) GetThought(ctx context.Context, userID, id string) (*domain.Thought, error) {
	query := `
		SELECT id, user_id, content, source_type, tags, analysis, voice_metadata, created_at
		FROM thoughts
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, id, userID)
	thought, err := scanThought(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query thought: %w", err)
	}
	return thought, nil
}

func (r *ThoughtRepository) ListThoughts(ctx context.Context, userID string, limit int) ([]*domain.Thought, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, content, source_type, tags, analysis, voice_metadata, created_at
		FROM thoughts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query thoughts: %w", err)
	}
	defer rows.Close()

	var thoughts []*domain.Thought
	for rows.Next() {
		thought, err := scanThought(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		thoughts = append(thoughts, thought)
	}
	return thoughts, rows.Err()
}

func (r *ThoughtRepository) DeleteThought(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM thoughts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete thought: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThought(row rowScanner) (*domain.Thought, error) {
	var (
		thought      domain.Thought
		tags         pq.StringArray
		analysisJSON []byte
		voiceJSON    []byte
	)

	err := row.Scan(
		&thought.ID, &thought.UserID, &thought.Content, &thought.SourceType,
		&tags, &analysisJSON, &voiceJSON, &thought.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	thought.Tags = tags
	thought.Analysis = analysisJSON
	if len(voiceJSON) > 0 {
		var meta domain.VoiceMetadata
		if err := json.Unmarshal(voiceJSON, &meta); err == nil {
			thought.VoiceMetadata = &meta
		}
	}
	return &thought, nil
}

// NormalizePlatformKeys rewrites legacy platform key variants inside an
// analysis payload onto the canonical names. Renames keys at the top level
// and inside a nested "content" object; everything else passes through. A
// payload that fails to parse is stored as-is.
func NormalizePlatformKeys(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return raw
	}

	renameLegacyKeys(payload)
	if content, ok := payload["content"].(map[string]any); ok {
		renameLegacyKeys(content)
	}

	normalized, err := json.Marshal(payload)
	if err != nil {
		return raw
	}
	return normalized
}

func renameLegacyKeys(object map[string]any) {
	for legacy, canonical := range legacyPlatformKeys {
		value, ok := object[legacy]
		if !ok {
			continue
		}
		// Never clobber a value already present under the canonical key.
		if _, exists := object[canonical]; !exists {
			object[canonical] = value
		}
		delete(object, legacy)
	}
}
