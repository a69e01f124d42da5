package voice

import (
	"context"
	"errors"

	"github.com/seolim/thoughtcast/internal/domain"
	"github.com/seolim/thoughtcast/internal/store"
	"go.uber.org/zap"
)

// archetypeVoice maps each archetype to the voice description handed to the
// content-authoring phase.
var archetypeVoice = map[domain.Archetype]string{
	domain.ArchetypeExplorer:    "curious and exploratory, thinking out loud",
	domain.ArchetypeTeacher:     "clear and instructive, breaking ideas down step by step",
	domain.ArchetypeSynthesizer: "connective, drawing threads between distant ideas",
	domain.ArchetypeImplementer: "practical and grounded, focused on what actually works",
}

// vocabularySophistication maps the profile's vocabulary level to the
// generator's sophistication tier.
var vocabularySophistication = map[domain.VocabularyLevel]string{
	domain.VocabularyCasual:       "casual",
	domain.VocabularyProfessional: "professional",
	domain.VocabularyAcademic:     "academic",
}

// ContentGenerator is the research-augmented engine this layer wraps.
type ContentGenerator interface {
	Generate(ctx context.Context, topic string, profile domain.GeneratorProfile) (*domain.EnhancedContentResult, error)
}

// Service is the voice personalization layer: profile-shaped prompting on
// the way in, deterministic refinement and scoring on the way out.
type Service struct {
	generator ContentGenerator
	profiles  store.VoiceProfileStore
	feedback  store.FeedbackStore
	refiner   Refiner
	logger    *zap.Logger
}

func NewService(generator ContentGenerator, profiles store.VoiceProfileStore, feedback store.FeedbackStore, refiner Refiner, logger *zap.Logger) *Service {
	return &Service{
		generator: generator,
		profiles:  profiles,
		feedback:  feedback,
		refiner:   refiner,
		logger:    logger,
	}
}

// GenerateVoiceAwareContent produces content in the user's stored voice. A
// missing profile is not an error: the fixed default profile is used, the
// score is pinned at 0.5, and the result says so. Only generator transport
// failures propagate.
func (s *Service) GenerateVoiceAwareContent(ctx context.Context, topic, userID string) (*domain.VoiceAwareContent, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	hasProfile := err == nil && profile != nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("Voice profile lookup failed, using default profile",
			zap.String("userId", userID),
			zap.Error(err))
	}
	if !hasProfile {
		profile = domain.DefaultVoiceProfile(userID)
	}

	result, err := s.generator.Generate(ctx, topic, generatorProfileFrom(profile))
	if err != nil {
		return nil, err
	}

	refined, notes := s.refiner.Refine(result.Content, profile)

	score := authenticityScore(refined, profile)
	if !hasProfile {
		score = 0.5
		notes = append(notes, "no voice profile found, generated with the default explorer voice")
	}

	return &domain.VoiceAwareContent{
		Content:           refined,
		Research:          result.Research,
		Exploration:       result.Exploration,
		ArchetypeUsed:     profile.Archetype,
		AuthenticityScore: score,
		AdaptationNotes:   notes,
		HasProfile:        hasProfile,
	}, nil
}

func generatorProfileFrom(profile *domain.VoiceProfile) domain.GeneratorProfile {
	voice, ok := archetypeVoice[profile.Archetype]
	if !ok {
		voice = archetypeVoice[domain.ArchetypeExplorer]
	}
	sophistication, ok := vocabularySophistication[profile.VocabularyLevel]
	if !ok {
		sophistication = "professional"
	}
	return domain.GeneratorProfile{
		Voice:                 voice,
		Expertise:             profile.ExpertiseAreas,
		Tone:                  string(profile.EngagementStyle),
		Sophistication:        sophistication,
		ExplorationPreference: string(profile.ResearchDepth),
	}
}
