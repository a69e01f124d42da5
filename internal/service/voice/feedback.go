package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seolim/thoughtcast/internal/domain"
	errorsx "github.com/seolim/thoughtcast/pkg/errors"
	"go.uber.org/zap"
)

const maturityStep = 0.05

// ProcessVoiceFeedback applies one feedback submission to the stored
// profile. High ratings reinforce (maturity and count only); low and middling
// ratings adjust phrase lists and tone per the submission. Every profile
// field mutation gets its own audit record.
func (s *Service) ProcessVoiceFeedback(ctx context.Context, userID string, fb domain.VoiceFeedback) (*domain.VoiceProfile, error) {
	if fb.Rating < 1 || fb.Rating > 5 {
		return nil, errorsx.NewValidationError("rating must be between 1 and 5", "rating", fb.Rating)
	}
	if fb.FeedbackType == "" {
		return nil, errorsx.NewValidationError("feedbackType is required", "feedbackType", nil)
	}
	if fb.ToneAdjustment != "" && !fb.ToneAdjustment.Valid() {
		return nil, errorsx.NewValidationError("unknown toneAdjustment", "toneAdjustment", string(fb.ToneAdjustment))
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil || profile == nil {
		return nil, errorsx.NewValidationError("no voice profile exists for this user", "userId", userID)
	}

	record := &domain.FeedbackRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		ContentID: fb.ContentID,
		Rating:    fb.Rating,
		Type:      fb.FeedbackType,
		Details:   fb.SpecificFeedback,
		CreatedAt: time.Now(),
	}
	if err := s.feedback.AppendFeedback(ctx, record); err != nil {
		s.logger.Error("Feedback record write failed",
			zap.String("userId", userID),
			zap.Error(err))
		return nil, errorsx.NewPersistenceError("failed to process feedback", "append_feedback", err)
	}

	trigger := "feedback:" + fb.ContentID
	if fb.Rating >= 4 {
		s.reinforceProfile(profile)
	} else {
		s.adjustProfile(ctx, profile, fb, trigger)
	}

	now := time.Now()
	profile.FeedbackCount++
	profile.LastFeedbackAt = &now
	profile.UpdatedAt = now

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, errorsx.NewPersistenceError("failed to save voice profile", "save_profile", err)
	}
	return profile, nil
}

// reinforceProfile handles rating >= 4: the maturity score climbs one fixed
// step, capped at 1. Phrase lists and style fields stay untouched.
func (s *Service) reinforceProfile(profile *domain.VoiceProfile) {
	profile.MaturityScore += maturityStep
	if profile.MaturityScore > 1 {
		profile.MaturityScore = 1
	}
}

// adjustProfile handles rating <= 3: phrase merges and the tone-adjustment
// mapping, one audit record per mutated field.
func (s *Service) adjustProfile(ctx context.Context, profile *domain.VoiceProfile, fb domain.VoiceFeedback, trigger string) {
	if added := mergePhrases(&profile.NaturalPhrases, fb.PhrasesToAdd); len(added) > 0 {
		s.audit(ctx, profile.UserID, "natural_phrases", "", strings.Join(added, ", "), trigger)
	}
	if added := mergePhrases(&profile.AvoidedPhrases, fb.PhrasesToRemove); len(added) > 0 {
		s.audit(ctx, profile.UserID, "avoided_phrases", "", strings.Join(added, ", "), trigger)
	}

	switch fb.ToneAdjustment {
	case domain.ToneMoreFormal:
		if profile.FormalityLevel < 5 {
			old := profile.FormalityLevel
			profile.FormalityLevel++
			s.audit(ctx, profile.UserID, "formality_level", fmt.Sprint(old), fmt.Sprint(profile.FormalityLevel), trigger)
		}
	case domain.ToneLessFormal:
		if profile.FormalityLevel > 0 {
			old := profile.FormalityLevel
			profile.FormalityLevel--
			s.audit(ctx, profile.UserID, "formality_level", fmt.Sprint(old), fmt.Sprint(profile.FormalityLevel), trigger)
		}
	case domain.ToneMoreExpert:
		s.setVocabulary(ctx, profile, domain.VocabularyAcademic, domain.DepthDeep, trigger)
	case domain.ToneLessExpert:
		s.setVocabulary(ctx, profile, domain.VocabularyProfessional, domain.DepthModerate, trigger)
	}
}

func (s *Service) setVocabulary(ctx context.Context, profile *domain.VoiceProfile, vocabulary domain.VocabularyLevel, depth domain.ResearchDepth, trigger string) {
	if profile.VocabularyLevel != vocabulary {
		s.audit(ctx, profile.UserID, "vocabulary_level", string(profile.VocabularyLevel), string(vocabulary), trigger)
		profile.VocabularyLevel = vocabulary
	}
	if profile.ResearchDepth != depth {
		s.audit(ctx, profile.UserID, "research_depth", string(profile.ResearchDepth), string(depth), trigger)
		profile.ResearchDepth = depth
	}
}

// mergePhrases appends the phrases not already present (case-insensitive)
// and returns what was actually added.
func mergePhrases(existing *[]string, incoming []string) []string {
	var added []string
	for _, phrase := range incoming {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		duplicate := false
		for _, have := range *existing {
			if strings.EqualFold(have, phrase) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		*existing = append(*existing, phrase)
		added = append(added, phrase)
	}
	return added
}

// audit appends one field-mutation record. A failed audit write is logged
// and does not abort the feedback flow; the trail is best-effort while the
// profile update is not.
func (s *Service) audit(ctx context.Context, userID, field, oldValue, newValue, trigger string) {
	record := &domain.AuditRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Trigger:   trigger,
		CreatedAt: time.Now(),
	}
	if err := s.feedback.AppendAudit(ctx, record); err != nil {
		s.logger.Error("Audit record write failed",
			zap.String("userId", userID),
			zap.String("field", field),
			zap.Error(err))
	}
}
