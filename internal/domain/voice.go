package domain

import "time"

// Archetype is one of the four fixed voice personas assigned from
// questionnaire answers.
type Archetype string

const (
	ArchetypeExplorer    Archetype = "explorer"
	ArchetypeTeacher     Archetype = "teacher"
	ArchetypeSynthesizer Archetype = "synthesizer"
	ArchetypeImplementer Archetype = "implementer"
)

// ArchetypeOrder is the fixed iteration order used for scoring and
// first-encountered tie-breaking.
var ArchetypeOrder = []Archetype{
	ArchetypeExplorer,
	ArchetypeTeacher,
	ArchetypeSynthesizer,
	ArchetypeImplementer,
}

func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeExplorer, ArchetypeTeacher, ArchetypeSynthesizer, ArchetypeImplementer:
		return true
	}
	return false
}

type VocabularyLevel string

const (
	VocabularyCasual       VocabularyLevel = "casual"
	VocabularyProfessional VocabularyLevel = "professional"
	VocabularyAcademic     VocabularyLevel = "academic"
)

type SentenceComplexity string

const (
	ComplexitySimple   SentenceComplexity = "simple"
	ComplexityModerate SentenceComplexity = "moderate"
	ComplexityComplex  SentenceComplexity = "complex"
)

type EngagementStyle string

const (
	EngagementConversational EngagementStyle = "conversational"
	EngagementEducational    EngagementStyle = "educational"
	EngagementAnalytical     EngagementStyle = "analytical"
	EngagementPractical      EngagementStyle = "practical"
)

type ResearchDepth string

const (
	DepthSurface  ResearchDepth = "surface"
	DepthModerate ResearchDepth = "moderate"
	DepthDeep     ResearchDepth = "deep"
)

type ToneAdjustment string

const (
	ToneMoreFormal ToneAdjustment = "more_formal"
	ToneLessFormal ToneAdjustment = "less_formal"
	ToneMoreExpert ToneAdjustment = "more_expert"
	ToneLessExpert ToneAdjustment = "less_expert"
)

func (t ToneAdjustment) Valid() bool {
	switch t {
	case ToneMoreFormal, ToneLessFormal, ToneMoreExpert, ToneLessExpert:
		return true
	}
	return false
}

// VoiceProfile is the durable per-user record of style preferences, created
// once at onboarding and refined over time through feedback.
type VoiceProfile struct {
	UserID              string              `json:"user_id"`
	Archetype           Archetype           `json:"archetype"`
	ArchetypeConfidence float64             `json:"archetype_confidence"`
	NaturalPhrases      []string            `json:"natural_phrases"`
	AvoidedPhrases      []string            `json:"avoided_phrases"`
	VocabularyLevel     VocabularyLevel     `json:"vocabulary_level"`
	SentenceComplexity  SentenceComplexity  `json:"sentence_complexity"`
	ExpertiseAreas      []string            `json:"expertise_areas"`
	LearningAreas       []string            `json:"learning_areas"`
	EngagementStyle     EngagementStyle     `json:"engagement_style"`
	HumorLevel          int                 `json:"humor_level"`
	FormalityLevel      int                 `json:"formality_level"`
	ResearchDepth       ResearchDepth       `json:"research_depth"`
	FeedbackCount       int                 `json:"feedback_count"`
	LastFeedbackAt      *time.Time          `json:"last_feedback_at,omitempty"`
	MaturityScore       float64             `json:"maturity_score"`
	OnboardingResponses []DiscoveryResponse `json:"onboarding_responses,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// DefaultVoiceProfile is the fixed fallback used when a user has no stored
// profile. Generation against it must never error.
func DefaultVoiceProfile(userID string) *VoiceProfile {
	now := time.Now()
	return &VoiceProfile{
		UserID:              userID,
		Archetype:           ArchetypeExplorer,
		ArchetypeConfidence: 0.5,
		VocabularyLevel:     VocabularyProfessional,
		SentenceComplexity:  ComplexityModerate,
		EngagementStyle:     EngagementConversational,
		HumorLevel:          2,
		FormalityLevel:      3,
		ResearchDepth:       DepthModerate,
		MaturityScore:       0.5,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// VoiceAwareContent is the voice-personalized generation result.
type VoiceAwareContent struct {
	Content           PlatformContent  `json:"content"`
	Research          ResearchContext  `json:"research"`
	Exploration       ExplorationPaths `json:"exploration"`
	ArchetypeUsed     Archetype        `json:"archetype_used"`
	AuthenticityScore float64          `json:"authenticity_score"`
	AdaptationNotes   []string         `json:"adaptation_notes"`
	HasProfile        bool             `json:"has_profile"`
}

// VoiceMetadata is the slice of voice information persisted alongside a
// thought.
type VoiceMetadata struct {
	Archetype         Archetype `json:"archetype"`
	AuthenticityScore float64   `json:"authenticity_score"`
	AdaptationNotes   []string  `json:"adaptation_notes,omitempty"`
}

// VoiceFeedback is one feedback submission against generated content.
type VoiceFeedback struct {
	ContentID        string         `json:"content_id"`
	Rating           int            `json:"rating"`
	FeedbackType     string         `json:"feedback_type"`
	SpecificFeedback string         `json:"specific_feedback,omitempty"`
	PhrasesToAdd     []string       `json:"phrases_to_add,omitempty"`
	PhrasesToRemove  []string       `json:"phrases_to_remove,omitempty"`
	ToneAdjustment   ToneAdjustment `json:"tone_adjustment,omitempty"`
}

// FeedbackRecord is the append-only intake row written for every feedback
// submission.
type FeedbackRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	Rating    int       `json:"rating"`
	Type      string    `json:"type"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditRecord captures one profile field mutation: prior value, new value,
// and what triggered it. Append-only, never overwritten.
type AuditRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Trigger   string    `json:"trigger"`
	CreatedAt time.Time `json:"created_at"`
}
