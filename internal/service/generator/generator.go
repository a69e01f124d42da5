package generator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/seolim/thoughtcast/internal/domain"
	"github.com/seolim/thoughtcast/internal/prompt"
	"github.com/seolim/thoughtcast/internal/service/ai"
	"go.uber.org/zap"
)

// Per-phase model parameters.
var (
	deepResearchParams = ai.CallParams{MaxTokens: 2048, Temperature: 0.4}
	authoringParams    = ai.CallParams{MaxTokens: 3072, Temperature: 0.7}
	explorationParams  = ai.CallParams{MaxTokens: 1024, Temperature: 0.5}
)

// Generator is the research-augmented content engine: deep research, then
// authoring conditioned on the research, then exploration paths. Pure
// function of inputs plus cache; it has no retry logic and does not know its
// caller's identity.
type Generator struct {
	caller ai.Invoker
	cache  ContentCache
	logger *zap.Logger
}

func NewGenerator(caller ai.Invoker, cache ContentCache, logger *zap.Logger) *Generator {
	return &Generator{
		caller: caller,
		cache:  cache,
		logger: logger,
	}
}

// Generate runs the three phases for a topic and profile, consulting the
// cache first. Phase parse failures substitute topic-derived fallbacks and
// never raise; transport failures are terminal for the request (there is no
// partial-result concept here).
func (g *Generator) Generate(ctx context.Context, topic string, profile domain.GeneratorProfile) (*domain.EnhancedContentResult, error) {
	key := CacheKey(topic, profile)

	if cached, ok := g.cache.Get(ctx, key); ok {
		g.logger.Debug("Content cache hit", zap.String("topic", topic))
		return cached, nil
	}

	research, err := g.deepResearchPhase(ctx, topic)
	if err != nil {
		return nil, err
	}

	content, err := g.authoringPhase(ctx, topic, research, profile)
	if err != nil {
		return nil, err
	}

	exploration, err := g.explorationPhase(ctx, topic, research)
	if err != nil {
		return nil, err
	}

	result := &domain.EnhancedContentResult{
		Research:    research,
		Content:     content,
		Exploration: exploration,
		GeneratedAt: time.Now(),
	}

	g.cache.Set(ctx, key, result)
	return result, nil
}

func (g *Generator) deepResearchPhase(ctx context.Context, topic string) (domain.ResearchContext, error) {
	result, err := g.caller.Invoke(ctx,
		prompt.DeepResearchSystemPrompt,
		prompt.BuildDeepResearchPrompt(prompt.DeepResearchPromptVars{Topic: topic}),
		deepResearchParams,
	)
	if err != nil {
		return domain.ResearchContext{}, err
	}
	if result.ParseFailed() {
		g.logger.Warn("Deep research parse failure, using fallback context", zap.String("topic", topic))
		return fallbackResearchContext(topic), nil
	}

	var research domain.ResearchContext
	if err := result.Decode(&research); err != nil {
		g.logger.Warn("Deep research decode failure, using fallback context", zap.Error(err))
		return fallbackResearchContext(topic), nil
	}
	normalizeResearchContext(&research, topic)
	return research, nil
}

func (g *Generator) authoringPhase(ctx context.Context, topic string, research domain.ResearchContext, profile domain.GeneratorProfile) (domain.PlatformContent, error) {
	researchJSON, marshalErr := json.Marshal(research)
	if marshalErr != nil {
		researchJSON = []byte("{}")
	}

	result, err := g.caller.Invoke(ctx,
		prompt.AuthoringSystemPrompt,
		prompt.BuildAuthoringPrompt(prompt.AuthoringPromptVars{
			Topic:          topic,
			ResearchJSON:   string(researchJSON),
			Voice:          profile.Voice,
			Expertise:      strings.Join(profile.Expertise, ", "),
			Tone:           profile.Tone,
			Sophistication: profile.Sophistication,
			Exploration:    profile.ExplorationPreference,
		}),
		authoringParams,
	)
	if err != nil {
		return domain.PlatformContent{}, err
	}
	if result.ParseFailed() {
		g.logger.Warn("Authoring parse failure, using templated fallback", zap.String("topic", topic))
		return fallbackPlatformContent(topic), nil
	}

	content := normalizePlatformContent(result.Data, topic)
	return content, nil
}

func (g *Generator) explorationPhase(ctx context.Context, topic string, research domain.ResearchContext) (domain.ExplorationPaths, error) {
	researchJSON, marshalErr := json.Marshal(research)
	if marshalErr != nil {
		researchJSON = []byte("{}")
	}

	result, err := g.caller.Invoke(ctx,
		prompt.ExplorationSystemPrompt,
		prompt.BuildExplorationPrompt(prompt.ExplorationPromptVars{
			Topic:        topic,
			ResearchJSON: string(researchJSON),
		}),
		explorationParams,
	)
	if err != nil {
		return domain.ExplorationPaths{}, err
	}
	if result.ParseFailed() {
		g.logger.Warn("Exploration parse failure, using generic fallback", zap.String("topic", topic))
		return fallbackExplorationPaths(topic), nil
	}

	var paths domain.ExplorationPaths
	if err := result.Decode(&paths); err != nil {
		return fallbackExplorationPaths(topic), nil
	}
	normalizeExplorationPaths(&paths, topic)
	return paths, nil
}

func normalizeResearchContext(research *domain.ResearchContext, topic string) {
	fallback := fallbackResearchContext(topic)
	if research.Domain == "" {
		research.Domain = fallback.Domain
	}
	if len(research.KeyDimensions) == 0 {
		research.KeyDimensions = fallback.KeyDimensions
	}
	if research.ExpertPerspectives == nil {
		research.ExpertPerspectives = []string{}
	}
	if research.CounterintuitiveFindings == nil {
		research.CounterintuitiveFindings = []string{}
	}
	if research.CrossDisciplinary == nil {
		research.CrossDisciplinary = []string{}
	}
	if research.CurrentDevelopments == nil {
		research.CurrentDevelopments = []string{}
	}
	if research.AuthorityReferences == nil {
		research.AuthorityReferences = []string{}
	}
}

// normalizePlatformContent maps the response object onto the canonical
// platform shape, tolerating the legacy key variants call sites used to emit
// (x_twitter, youtube_script, …). Missing platforms fall back to templated
// strings rather than staying empty.
func normalizePlatformContent(data map[string]any, topic string) domain.PlatformContent {
	fallback := fallbackPlatformContent(topic)
	content := domain.PlatformContent{}

	aliases := map[string][]string{
		"twitter":   {"twitter", "x_twitter", "x"},
		"instagram": {"instagram", "instagram_caption"},
		"linkedin":  {"linkedin", "linkedin_post"},
		"youtube":   {"youtube", "youtube_script", "youtube_outline"},
	}

	for _, platform := range content.Platforms() {
		for _, alias := range aliases[platform] {
			if value, ok := data[alias].(string); ok && strings.TrimSpace(value) != "" {
				content.Set(platform, value)
				break
			}
		}
		if content.Get(platform) == "" {
			content.Set(platform, fallback.Get(platform))
		}
	}

	return content
}

func normalizeExplorationPaths(paths *domain.ExplorationPaths, topic string) {
	fallback := fallbackExplorationPaths(topic)
	if len(paths.Podcasts) == 0 {
		paths.Podcasts = fallback.Podcasts
	}
	if len(paths.Researchers) == 0 {
		paths.Researchers = fallback.Researchers
	}
	if len(paths.RelatedTopics) == 0 {
		paths.RelatedTopics = fallback.RelatedTopics
	}
	if len(paths.PracticalApplications) == 0 {
		paths.PracticalApplications = fallback.PracticalApplications
	}
}
