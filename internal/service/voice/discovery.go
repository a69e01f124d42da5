package voice

import (
	"context"
	"strings"
	"time"

	"github.com/seolim/thoughtcast/internal/domain"
	"github.com/seolim/thoughtcast/internal/util"
	errorsx "github.com/seolim/thoughtcast/pkg/errors"
	"go.uber.org/zap"
)

// Questionnaire question IDs.
const (
	questionReaction   = "discovery_reaction"
	questionKnowledge  = "knowledge_relationship"
	questionAnxiety    = "publishing_anxiety"
	questionPhrases    = "natural_phrases"
	questionExpertise  = "expertise_areas"
	questionLearning   = "learning_areas"
	questionAspiration = "content_aspiration"
)

// DiscoveryQuestions is the fixed, ordered onboarding questionnaire.
var DiscoveryQuestions = []domain.DiscoveryQuestion{
	{
		ID:     questionReaction,
		Type:   domain.QuestionTypeChoice,
		Prompt: "When you discover something fascinating, what's your first instinct?",
		Options: []string{
			"Dig deeper and follow every thread it opens",
			"Figure out how to explain it to someone else",
			"Connect it to other things I already know",
			"Try it out and see if it actually works",
		},
	},
	{
		ID:     questionKnowledge,
		Type:   domain.QuestionTypeChoice,
		Prompt: "Which best describes your relationship to knowledge?",
		Options: []string{
			"I collect interesting questions more than answers",
			"I see patterns others miss between fields",
			"I'm happiest when someone says 'now I get it'",
			"Knowledge only matters once it's applied",
		},
	},
	{
		ID:     questionAnxiety,
		Type:   domain.QuestionTypeChoice,
		Prompt: "What worries you most about publishing your thoughts?",
		Options: []string{
			"Sounding like I'm lecturing people",
			"Coming across as unfocused or scattered",
			"Being too abstract to be useful",
			"Oversimplifying something nuanced",
		},
	},
	{
		ID:     questionPhrases,
		Type:   domain.QuestionTypeMultiSelect,
		Prompt: "Which of these sound like something you'd actually say?",
		Options: []string{
			"I've been exploring this idea lately",
			"Here's what I learned the hard way",
			"Let me break this down",
			"The key insight here is",
			"This reminds me of",
			"The data tells a different story",
			"In my experience",
			"What I've found is",
		},
	},
	{
		ID:     questionExpertise,
		Type:   domain.QuestionTypeFreeText,
		Prompt: "What topics could you talk about for an hour without preparation? (comma-separated)",
	},
	{
		ID:     questionLearning,
		Type:   domain.QuestionTypeFreeText,
		Prompt: "What are you currently trying to learn? (comma-separated)",
	},
	{
		ID:     questionAspiration,
		Type:   domain.QuestionTypeFreeText,
		Prompt: "Anything else about how you want to sound?",
	},
}

// Option-to-archetype mappings for the scored multiple-choice questions. The
// first two award +2, the anxiety question is a weaker signal at +1.
var reactionMapping = []domain.Archetype{
	domain.ArchetypeExplorer,
	domain.ArchetypeTeacher,
	domain.ArchetypeSynthesizer,
	domain.ArchetypeImplementer,
}

var knowledgeMapping = []domain.Archetype{
	domain.ArchetypeExplorer,
	domain.ArchetypeSynthesizer,
	domain.ArchetypeTeacher,
	domain.ArchetypeImplementer,
}

var anxietyMapping = []domain.Archetype{
	domain.ArchetypeTeacher,
	domain.ArchetypeExplorer,
	domain.ArchetypeSynthesizer,
	domain.ArchetypeImplementer,
}

// Keyword substrings scanned in selected natural phrases, each worth +0.5.
// A single phrase may credit several archetypes.
var phraseKeywords = map[string]domain.Archetype{
	"exploring":   domain.ArchetypeExplorer,
	"learned":     domain.ArchetypeExplorer,
	"break":       domain.ArchetypeTeacher,
	"key insight": domain.ArchetypeTeacher,
	"reminds":     domain.ArchetypeSynthesizer,
	"data":        domain.ArchetypeSynthesizer,
	"experience":  domain.ArchetypeImplementer,
	"found":       domain.ArchetypeImplementer,
}

// Per-archetype style defaults applied at profile creation.
var archetypeDefaults = map[domain.Archetype]struct {
	vocabulary domain.VocabularyLevel
	complexity domain.SentenceComplexity
	engagement domain.EngagementStyle
	depth      domain.ResearchDepth
}{
	domain.ArchetypeExplorer:    {domain.VocabularyCasual, domain.ComplexityModerate, domain.EngagementConversational, domain.DepthDeep},
	domain.ArchetypeTeacher:     {domain.VocabularyProfessional, domain.ComplexityModerate, domain.EngagementEducational, domain.DepthModerate},
	domain.ArchetypeSynthesizer: {domain.VocabularyAcademic, domain.ComplexityComplex, domain.EngagementAnalytical, domain.DepthDeep},
	domain.ArchetypeImplementer: {domain.VocabularyProfessional, domain.ComplexitySimple, domain.EngagementPractical, domain.DepthModerate},
}

var archetypeRecommendations = map[domain.Archetype][]string{
	domain.ArchetypeExplorer: {
		"Lean into open questions; your audience follows your curiosity, not your conclusions",
		"Share threads you're still pulling on, not just finished thoughts",
		"End posts with the question you're asking next",
	},
	domain.ArchetypeTeacher: {
		"Structure posts around one clear takeaway per piece",
		"Use concrete examples before abstractions",
		"Anticipate the question a beginner would ask and answer it",
	},
	domain.ArchetypeSynthesizer: {
		"Name the two fields you're connecting in the first line",
		"Make the bridge explicit; your readers won't see the link you see",
		"Cite the sources you're synthesizing so readers can follow",
	},
	domain.ArchetypeImplementer: {
		"Open with the outcome, then explain how you got there",
		"Include the failure modes you hit, not just the wins",
		"Give readers one thing they can try this week",
	},
}

// AnalyzeResponses scores the questionnaire into an archetype. Ties break to
// the first archetype in the fixed scoring order; a response set that scores
// nothing resolves to explorer at 0.25 confidence.
func AnalyzeResponses(responses []domain.DiscoveryResponse) domain.ArchetypeResult {
	scores := map[domain.Archetype]float64{
		domain.ArchetypeExplorer:    0,
		domain.ArchetypeTeacher:     0,
		domain.ArchetypeSynthesizer: 0,
		domain.ArchetypeImplementer: 0,
	}

	for _, response := range responses {
		switch response.QuestionID {
		case questionReaction:
			scoreChoice(scores, response, reactionMapping, 2)
		case questionKnowledge:
			scoreChoice(scores, response, knowledgeMapping, 2)
		case questionAnxiety:
			scoreChoice(scores, response, anxietyMapping, 1)
		case questionPhrases:
			for _, selection := range response.Selections {
				lowered := strings.ToLower(selection)
				for keyword, archetype := range phraseKeywords {
					if strings.Contains(lowered, keyword) {
						scores[archetype] += 0.5
					}
				}
			}
		}
	}

	total := 0.0
	for _, score := range scores {
		total += score
	}
	if total == 0 {
		return domain.ArchetypeResult{
			Primary:         domain.ArchetypeExplorer,
			Confidence:      0.25,
			Scores:          scores,
			Recommendations: buildRecommendations(domain.ArchetypeExplorer, responses),
		}
	}

	primary := domain.ArchetypeOrder[0]
	best := scores[primary]
	for _, archetype := range domain.ArchetypeOrder[1:] {
		if scores[archetype] > best {
			primary = archetype
			best = scores[archetype]
		}
	}

	return domain.ArchetypeResult{
		Primary:         primary,
		Confidence:      best / total,
		Scores:          scores,
		Recommendations: buildRecommendations(primary, responses),
	}
}

func scoreChoice(scores map[domain.Archetype]float64, response domain.DiscoveryResponse, mapping []domain.Archetype, weight float64) {
	if response.OptionIndex == nil {
		return
	}
	index := *response.OptionIndex
	if index < 0 || index >= len(mapping) {
		return
	}
	scores[mapping[index]] += weight
}

func buildRecommendations(archetype domain.Archetype, responses []domain.DiscoveryResponse) []string {
	recommendations := append([]string{}, archetypeRecommendations[archetype]...)
	if expertise := freeTextAnswer(responses, questionExpertise); expertise != "" {
		areas := util.SplitAndTrim(expertise)
		if len(areas) > 0 {
			recommendations = append(recommendations, "Anchor your credibility in "+areas[0]+" before branching out")
		}
		if len(areas) > 1 {
			recommendations = append(recommendations, "Cross-pollinate: your "+areas[0]+" and "+areas[1]+" overlap is a niche few can write from")
		}
	}
	return recommendations
}

// GenerateVoiceProfile builds the initial profile from the archetype result
// and the raw responses, which are embedded verbatim for later audit.
func GenerateVoiceProfile(userID string, result domain.ArchetypeResult, responses []domain.DiscoveryResponse) *domain.VoiceProfile {
	defaults := archetypeDefaults[result.Primary]
	now := time.Now()

	profile := &domain.VoiceProfile{
		UserID:              userID,
		Archetype:           result.Primary,
		ArchetypeConfidence: result.Confidence,
		VocabularyLevel:     defaults.vocabulary,
		SentenceComplexity:  defaults.complexity,
		EngagementStyle:     defaults.engagement,
		ResearchDepth:       defaults.depth,
		HumorLevel:          2,
		FormalityLevel:      3,
		MaturityScore:       0.5,
		OnboardingResponses: responses,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	profile.ExpertiseAreas = util.SplitAndTrim(freeTextAnswer(responses, questionExpertise))
	profile.LearningAreas = util.SplitAndTrim(freeTextAnswer(responses, questionLearning))

	for _, response := range responses {
		if response.QuestionID == questionPhrases {
			profile.NaturalPhrases = append([]string{}, response.Selections...)
		}
	}

	return profile
}

// CompleteDiscovery analyzes a full questionnaire submission and creates (or
// replaces) the user's voice profile.
func (s *Service) CompleteDiscovery(ctx context.Context, userID string, responses []domain.DiscoveryResponse) (domain.ArchetypeResult, *domain.VoiceProfile, error) {
	if len(responses) == 0 {
		return domain.ArchetypeResult{}, nil, errorsx.NewValidationError("responses must be a non-empty array", "responses", nil)
	}

	result := AnalyzeResponses(responses)
	profile := GenerateVoiceProfile(userID, result, responses)

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return domain.ArchetypeResult{}, nil, errorsx.NewPersistenceError("failed to save voice profile", "save_profile", err)
	}

	s.logger.Info("Voice profile created from discovery",
		zap.String("userId", userID),
		zap.String("archetype", string(result.Primary)),
		zap.Float64("confidence", result.Confidence))
	return result, profile, nil
}

func freeTextAnswer(responses []domain.DiscoveryResponse, questionID string) string {
	for _, response := range responses {
		if response.QuestionID == questionID {
			return response.Text
		}
	}
	return ""
}
