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

type VoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewVoiceRepository(postgres *PostgresService, logger *zap.Logger) *VoiceRepository {
	return &VoiceRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *VoiceRepository) GetProfile(ctx context.Context, userID string) (*domain.VoiceProfile, error) {
	query := `
		SELECT user_id, archetype, archetype_confidence, natural_phrases, avoided_phrases,
		       vocabulary_level, sentence_complexity, expertise_areas, learning_areas,
		       engagement_style, humor_level, formality_level, research_depth,
		       feedback_count, last_feedback_at, maturity_score, onboarding_responses,
		       created_at, updated_at
		FROM voice_profiles
		WHERE user_id = $1
		LIMIT 1
	`

	var (
		profile        domain.VoiceProfile
		naturalPhrases pq.StringArray
		avoidedPhrases pq.StringArray
		expertiseAreas pq.StringArray
		learningAreas  pq.StringArray
		lastFeedbackAt sql.NullTime
		responsesJSON  []byte
	)

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.Archetype, &profile.ArchetypeConfidence,
		&naturalPhrases, &avoidedPhrases,
		&profile.VocabularyLevel, &profile.SentenceComplexity,
		&expertiseAreas, &learningAreas,
		&profile.EngagementStyle, &profile.HumorLevel, &profile.FormalityLevel,
		&profile.ResearchDepth, &profile.FeedbackCount, &lastFeedbackAt,
		&profile.MaturityScore, &responsesJSON,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query voice profile: %w", err)
	}

	profile.NaturalPhrases = naturalPhrases
	profile.AvoidedPhrases = avoidedPhrases
	profile.ExpertiseAreas = expertiseAreas
	profile.LearningAreas = learningAreas
	if lastFeedbackAt.Valid {
		t := lastFeedbackAt.Time
		profile.LastFeedbackAt = &t
	}
	if len(responsesJSON) > 0 {
		if err := json.Unmarshal(responsesJSON, &profile.OnboardingResponses); err != nil {
			r.logger.Warn("Failed to decode onboarding responses",
				zap.String("userId", userID),
				zap.Error(err))
		}
	}

	return &profile, nil
}

func (r *VoiceRepository) SaveProfile(ctx context.Context, profile *domain.VoiceProfile) error {
	query := `
		INSERT INTO voice_profiles (
			user_id, archetype, archetype_confidence, natural_phrases, avoided_phrases,
			vocabulary_level, sentence_complexity, expertise_areas, learning_areas,
			engagement_style, humor_level, formality_level, research_depth,
			feedback_count, last_feedback_at, maturity_score, onboarding_responses,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (user_id) DO UPDATE SET
			archetype = EXCLUDED.archetype,
			archetype_confidence = EXCLUDED.archetype_confidence,
			natural_phrases = EXCLUDED.natural_phrases,
			avoided_phrases = EXCLUDED.avoided_phrases,
			vocabulary_level = EXCLUDED.vocabulary_level,
			sentence_complexity = EXCLUDED.sentence_complexity,
			expertise_areas = EXCLUDED.expertise_areas,
			learning_areas = EXCLUDED.learning_areas,
			engagement_style = EXCLUDED.engagement_style,
			humor_level = EXCLUDED.humor_level,
			formality_level = EXCLUDED.formality_level,
			research_depth = EXCLUDED.research_depth,
			feedback_count = EXCLUDED.feedback_count,
			last_feedback_at = EXCLUDED.last_feedback_at,
			maturity_score = EXCLUDED.maturity_score,
			onboarding_responses = EXCLUDED.onboarding_responses,
			updated_at = EXCLUDED.updated_at
	`

	responsesJSON, err := json.Marshal(profile.OnboardingResponses)
	if err != nil {
		return fmt.Errorf("failed to marshal onboarding responses: %w", err)
	}

	var lastFeedbackAt sql.NullTime
	if profile.LastFeedbackAt != nil {
		lastFeedbackAt = sql.NullTime{Time: *profile.LastFeedbackAt, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, query,
		profile.UserID, profile.Archetype, profile.ArchetypeConfidence,
		pq.Array(profile.NaturalPhrases), pq.Array(profile.AvoidedPhrases),
		profile.VocabularyLevel, profile.SentenceComplexity,
		pq.Array(profile.ExpertiseAreas), pq.Array(profile.LearningAreas),
		profile.EngagementStyle, profile.HumorLevel, profile.FormalityLevel,
		profile.ResearchDepth, profile.FeedbackCount, lastFeedbackAt,
		profile.MaturityScore, responsesJSON,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert voice profile: %w", err)
	}
	return nil
}

func (r *VoiceRepository) AppendFeedback(ctx context.Context, record *domain.FeedbackRecord) error {
	query := `
		INSERT INTO voice_feedback (id, user_id, content_id, rating, feedback_type, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.ContentID, record.Rating,
		record.Type, record.Details, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback record: %w", err)
	}
	return nil
}

func (r *VoiceRepository) AppendAudit(ctx context.Context, record *domain.AuditRecord) error {
	query := `
		INSERT INTO voice_profile_audit (id, user_id, field, old_value, new_value, trigger_source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.Field, record.OldValue,
		record.NewValue, record.Trigger, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}
