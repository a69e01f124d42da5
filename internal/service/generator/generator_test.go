package generator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seolim/thoughtcast/internal/domain"
	"github.com/seolim/thoughtcast/internal/service/ai"
	"go.uber.org/zap"
)

const deepResearchJSON = `{
	"domain": "transportation",
	"key_dimensions": ["battery chemistry", "charging infrastructure", "grid impact"],
	"expert_perspectives": ["battery researchers point to solid-state cells"],
	"counterintuitive_findings": ["total emissions depend heavily on the local grid mix"],
	"cross_disciplinary": ["materials science", "urban planning"],
	"current_developments": ["bidirectional charging pilots"],
	"authority_references": ["IEA Global EV Outlook"]
}`

const authoringJSON = `{
	"twitter": "EVs aren't one story. The grid they plug into decides half the climate math.",
	"instagram": "Spent the week reading about electric vehicles. The charging question is more interesting than the car question.",
	"linkedin": "Everyone debates EV range. The real bottleneck is charging infrastructure, and it's a grid problem, not a car problem.",
	"youtube": "1. Why range anxiety is the wrong frame\n2. The grid-mix math\n3. What bidirectional charging changes"
}`

const explorationJSON = `{
	"podcasts": ["The Interchange"],
	"researchers": ["battery lab leads publishing on solid-state cells"],
	"related_topics": ["grid storage", "urban charging deserts"],
	"practical_applications": ["home charger load scheduling"]
}`

// scriptedInvoker returns canned responses in order and records every call.
type scriptedInvoker struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (s *scriptedInvoker) Invoke(_ context.Context, _, userPrompt string, _ ai.CallParams) (*ai.PromptResult, error) {
	s.calls++
	s.prompts = append(s.prompts, userPrompt)
	if s.err != nil {
		return nil, s.err
	}
	raw := s.responses[s.calls-1]

	result := &ai.PromptResult{Raw: raw}
	if jsonText, found := ai.ExtractJSONObject(raw); found {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(jsonText), &parsed); err == nil {
			result.Data = parsed
			return result, nil
		}
	}
	result.Data = map[string]any{"error": "parse failure", "rawText": raw}
	return result, nil
}

func newTestGenerator(invoker ai.Invoker) *Generator {
	return NewGenerator(invoker, NewMemoryCache(100, time.Hour), zap.NewNop())
}

func TestGenerateThreePhases(t *testing.T) {
	invoker := &scriptedInvoker{responses: []string{deepResearchJSON, authoringJSON, explorationJSON}}
	gen := newTestGenerator(invoker)

	profile := domain.GeneratorProfile{
		Voice:                 "direct and curious",
		Expertise:             []string{"energy"},
		Tone:                  "conversational",
		Sophistication:        "technical",
		ExplorationPreference: "deep dives",
	}

	result, err := gen.Generate(context.Background(), "electric vehicles", profile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if invoker.calls != 3 {
		t.Errorf("model calls = %d, want 3", invoker.calls)
	}
	if result.Research.Domain != "transportation" {
		t.Errorf("research domain = %q", result.Research.Domain)
	}
	if !strings.Contains(result.Content.LinkedIn, "charging infrastructure") {
		t.Errorf("linkedin content not taken from authoring response: %q", result.Content.LinkedIn)
	}
	if len(result.Exploration.RelatedTopics) != 2 {
		t.Errorf("related topics = %v", result.Exploration.RelatedTopics)
	}
	if result.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not stamped")
	}

	// Authoring and exploration prompts must carry the research phase output.
	for _, i := range []int{1, 2} {
		if !strings.Contains(invoker.prompts[i], "transportation") {
			t.Errorf("prompt %d missing research context", i)
		}
	}
}

func TestGenerateCacheIdempotence(t *testing.T) {
	invoker := &scriptedInvoker{responses: []string{deepResearchJSON, authoringJSON, explorationJSON}}
	gen := newTestGenerator(invoker)
	profile := domain.GeneratorProfile{Voice: "direct"}

	first, err := gen.Generate(context.Background(), "electric vehicles", profile)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	second, err := gen.Generate(context.Background(), "Electric Vehicles ", profile)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	if invoker.calls != 3 {
		t.Errorf("model calls after cache hit = %d, want 3", invoker.calls)
	}
	if second != first {
		t.Error("cache hit returned a different result")
	}
}

func TestGenerateAuthoringParseFailureFallsBack(t *testing.T) {
	invoker := &scriptedInvoker{responses: []string{
		deepResearchJSON,
		"I can't produce structured output for that.",
		explorationJSON,
	}}
	gen := newTestGenerator(invoker)

	result, err := gen.Generate(context.Background(), "electric vehicles", domain.GeneratorProfile{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if invoker.calls != 3 {
		t.Errorf("model calls = %d, want 3; a parse failure must not stop later phases", invoker.calls)
	}
	for _, platform := range result.Content.Platforms() {
		text := result.Content.Get(platform)
		if !strings.Contains(text, "electric vehicles") {
			t.Errorf("%s fallback content %q not derived from topic", platform, text)
		}
	}
	// Research from the real response still flows into the result.
	if result.Research.Domain != "transportation" {
		t.Errorf("research domain = %q", result.Research.Domain)
	}
}

func TestGenerateLegacyPlatformKeys(t *testing.T) {
	legacy := `{
		"x_twitter": "short take",
		"instagram": "caption",
		"linkedin": "long post",
		"youtube_script": "outline"
	}`
	invoker := &scriptedInvoker{responses: []string{deepResearchJSON, legacy, explorationJSON}}
	gen := newTestGenerator(invoker)

	result, err := gen.Generate(context.Background(), "electric vehicles", domain.GeneratorProfile{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Content.Twitter != "short take" {
		t.Errorf("twitter = %q, want legacy x_twitter value", result.Content.Twitter)
	}
	if result.Content.YouTube != "outline" {
		t.Errorf("youtube = %q, want legacy youtube_script value", result.Content.YouTube)
	}
}

func TestGenerateMissingPlatformFilled(t *testing.T) {
	partial := `{"twitter": "only twitter came back"}`
	invoker := &scriptedInvoker{responses: []string{deepResearchJSON, partial, explorationJSON}}
	gen := newTestGenerator(invoker)

	result, err := gen.Generate(context.Background(), "electric vehicles", domain.GeneratorProfile{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Content.Twitter != "only twitter came back" {
		t.Errorf("twitter = %q", result.Content.Twitter)
	}
	if result.Content.LinkedIn == "" || result.Content.YouTube == "" || result.Content.Instagram == "" {
		t.Errorf("missing platforms not filled: %+v", result.Content)
	}
}

func TestGenerateTransportErrorIsTerminal(t *testing.T) {
	invoker := &scriptedInvoker{err: errors.New("connection reset")}
	gen := newTestGenerator(invoker)

	_, err := gen.Generate(context.Background(), "electric vehicles", domain.GeneratorProfile{})
	if err == nil {
		t.Fatal("expected error")
	}
	if invoker.calls != 1 {
		t.Errorf("model calls = %d, want 1; transport failure must stop the run", invoker.calls)
	}
}
