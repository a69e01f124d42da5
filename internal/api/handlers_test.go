package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seolim/thoughtcast/internal/auth"
	"github.com/seolim/thoughtcast/internal/domain"
	"github.com/seolim/thoughtcast/internal/service/pipeline"
	"github.com/seolim/thoughtcast/internal/store"
	errorsx "github.com/seolim/thoughtcast/pkg/errors"
)

type fakeRunner struct {
	run   *domain.PipelineRun
	delay time.Duration
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, input string) *domain.PipelineRun {
	return f.RunWithObserver(ctx, input, nil)
}

func (f *fakeRunner) RunWithObserver(ctx context.Context, _ string, observe pipeline.StageObserver) *domain.PipelineRun {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return &domain.PipelineRun{Success: false, Errors: []string{"research stage: " + ctx.Err().Error()}}
		}
	}
	if observe != nil && f.run.Success {
		for _, stage := range []string{"research", "analysis", "content"} {
			observe(pipeline.StageEvent{Stage: stage, Phase: "processing"})
			observe(pipeline.StageEvent{Stage: stage, Phase: "complete", ElapsedMS: 5, Preview: stage + " preview"})
		}
	}
	return f.run
}

type fakeGenerator struct {
	result      *domain.EnhancedContentResult
	err         error
	lastProfile domain.GeneratorProfile
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, profile domain.GeneratorProfile) (*domain.EnhancedContentResult, error) {
	f.lastProfile = profile
	return f.result, f.err
}

type fakeVoice struct {
	content     *domain.VoiceAwareContent
	contentErr  error
	profile     *domain.VoiceProfile
	feedbackErr error
}

func (f *fakeVoice) GenerateVoiceAwareContent(_ context.Context, _, _ string) (*domain.VoiceAwareContent, error) {
	return f.content, f.contentErr
}

func (f *fakeVoice) CompleteDiscovery(_ context.Context, userID string, _ []domain.DiscoveryResponse) (domain.ArchetypeResult, *domain.VoiceProfile, error) {
	return domain.ArchetypeResult{Primary: domain.ArchetypeExplorer, Confidence: 1}, domain.DefaultVoiceProfile(userID), nil
}

func (f *fakeVoice) ProcessVoiceFeedback(_ context.Context, _ string, _ domain.VoiceFeedback) (*domain.VoiceProfile, error) {
	return f.profile, f.feedbackErr
}

type fakeThoughtStore struct {
	createErr error
	created   []*domain.Thought
}

func (f *fakeThoughtStore) CreateThought(_ context.Context, thought *domain.Thought) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, thought)
	return nil
}

func (f *fakeThoughtStore) GetThought(_ context.Context, _, _ string) (*domain.Thought, error) {
	return nil, store.ErrNotFound
}

func (f *fakeThoughtStore) ListThoughts(_ context.Context, _ string, _ int) ([]*domain.Thought, error) {
	return nil, nil
}

func (f *fakeThoughtStore) DeleteThought(_ context.Context, _, _ string) error {
	return store.ErrNotFound
}

func successfulRun() *domain.PipelineRun {
	return &domain.PipelineRun{
		Success:  true,
		Research: &domain.ResearchOutput{Topics: []string{"remote work"}},
		Analysis: &domain.AnalysisOutput{Synthesis: "consolidation, not death"},
		Content: &domain.ContentOutput{
			Headline: "Remote work is consolidating",
			Overview: "The trend is hybrid, not office-only.",
		},
		Timing: domain.StageTiming{ResearchMS: 5, AnalysisMS: 5, ContentMS: 5, TotalMS: 15},
	}
}

type serverFixture struct {
	runner    *fakeRunner
	generator *fakeGenerator
	thoughts  *fakeThoughtStore
	voice     *fakeVoice
	handler   http.Handler
	verifier  *auth.HMACVerifier
}

func newFixture(t *testing.T, opts func(*serverFixture)) *serverFixture {
	t.Helper()
	f := &serverFixture{
		runner:    &fakeRunner{run: successfulRun()},
		generator: &fakeGenerator{result: &domain.EnhancedContentResult{}},
		thoughts:  &fakeThoughtStore{},
		voice:     &fakeVoice{profile: domain.DefaultVoiceProfile("u1")},
		verifier:  auth.NewHMACVerifier("test-secret"),
	}
	if opts != nil {
		opts(f)
	}
	server := NewServer(f.runner, f.generator, f.voice, f.thoughts, nil, 2*time.Second, zap.NewNop())
	f.handler = NewRouter(server, f.verifier, zap.NewNop())
	return f
}

func (f *serverFixture) request(t *testing.T, method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+f.verifier.Sign("u1"))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeRequiresAuth(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze",
		map[string]string{"content": "hello"}, false)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if f.runner.calls != 0 {
		t.Error("pipeline ran without auth")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze",
		map[string]string{"content": "I think remote work is dying"}, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Saved || resp.ID == "" {
		t.Errorf("saved = %v, id = %q", resp.Saved, resp.ID)
	}
	if resp.Analysis == nil || resp.Analysis.Summary.Headline == "" {
		t.Error("analysis missing or headline empty")
	}
	if len(f.thoughts.created) != 1 {
		t.Errorf("thoughts created = %d", len(f.thoughts.created))
	}
	if f.thoughts.created[0].UserID != "u1" {
		t.Errorf("thought user = %q", f.thoughts.created[0].UserID)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze",
		map[string]string{"content": "   "}, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if f.runner.calls != 0 {
		t.Error("pipeline ran despite validation failure")
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != errorsx.KindValidation {
		t.Errorf("kind = %q", resp.Kind)
	}
}

func TestAnalyzePersistenceFailureStillReturnsAnalysis(t *testing.T) {
	f := newFixture(t, func(f *serverFixture) {
		f.thoughts.createErr = errors.New("constraint violation")
	})
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze",
		map[string]string{"content": "remote work"}, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, analysis must survive a failed save", rec.Code)
	}
	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Saved {
		t.Error("saved = true despite failing store")
	}
	if resp.Warning == "" {
		t.Error("expected a warning about the failed save")
	}
	if resp.Analysis == nil {
		t.Error("analysis payload dropped")
	}
}

func TestAnalyzePipelineFailure(t *testing.T) {
	f := newFixture(t, func(f *serverFixture) {
		f.runner.run = &domain.PipelineRun{
			Success:  false,
			Research: &domain.ResearchOutput{Topics: []string{"remote work"}},
			Errors:   []string{"analysis stage: boom"},
		}
	})
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze",
		map[string]string{"content": "remote work"}, true)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != errorsx.KindUpstreamFailure {
		t.Errorf("kind = %q", resp.Kind)
	}
	if resp.Details == nil {
		t.Error("partial results missing from error response")
	}
	if len(f.thoughts.created) != 0 {
		t.Error("failed run must not be persisted")
	}
}

func TestAnalyzeTimeoutIsDistinct(t *testing.T) {
	f := newFixture(t, func(f *serverFixture) {
		f.runner.delay = 200 * time.Millisecond
		f.runner.run = &domain.PipelineRun{Success: false, Errors: []string{"late"}}
	})
	server := NewServer(f.runner, &fakeGenerator{}, f.voice, f.thoughts, nil, 20*time.Millisecond, zap.NewNop())
	f.handler = NewRouter(server, f.verifier, zap.NewNop())

	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze",
		map[string]string{"content": "remote work"}, true)

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504, body = %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != errorsx.KindUpstreamTimeout {
		t.Errorf("kind = %q, want upstream-timeout", resp.Kind)
	}
	if !resp.Retryable || !strings.Contains(resp.Hint, "shorter input") {
		t.Errorf("retryable = %v, hint = %q", resp.Retryable, resp.Hint)
	}
}

func TestVoiceAwareCarriesProfileFlag(t *testing.T) {
	f := newFixture(t, func(f *serverFixture) {
		f.voice.content = &domain.VoiceAwareContent{
			Content:           domain.PlatformContent{Twitter: "hi"},
			ArchetypeUsed:     domain.ArchetypeExplorer,
			AuthenticityScore: 0.5,
			AdaptationNotes:   []string{"no voice profile found, generated with the default explorer voice"},
			HasProfile:        false,
		}
	})
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/voice",
		map[string]string{"content": "remote work"}, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp voiceAwareResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.HasVoiceProfile {
		t.Error("hasVoiceProfile = true, want false")
	}
	if resp.Result.AuthenticityScore != 0.5 {
		t.Errorf("score = %v", resp.Result.AuthenticityScore)
	}
	if len(f.thoughts.created) != 1 || f.thoughts.created[0].VoiceMetadata == nil {
		t.Error("voice metadata not persisted with thought")
	}
}

func TestSubmitAcceptsOptionalWireFields(t *testing.T) {
	f := newFixture(t, func(f *serverFixture) {
		f.voice.content = &domain.VoiceAwareContent{
			Content:       domain.PlatformContent{Twitter: "hi"},
			ArchetypeUsed: domain.ArchetypeExplorer,
			HasProfile:    true,
		}
	})

	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze",
		map[string]any{
			"content":     "remote work trends",
			"userProfile": map[string]string{"tone": "casual"},
		}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze with userProfile: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = f.request(t, http.MethodPost, "/api/v1/thoughts/voice",
		map[string]any{"content": "remote work trends", "brainId": "b1"}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("voice with brainId: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestEnhancedFallsBackToUserProfile(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/enhanced",
		map[string]any{
			"content":     "remote work trends",
			"userProfile": map[string]string{"tone": "casual", "voice": "explorer"},
		}, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if f.generator.lastProfile.Tone != "casual" || f.generator.lastProfile.Voice != "explorer" {
		t.Errorf("generator profile = %+v, want userProfile values", f.generator.lastProfile)
	}
}

func TestVoiceFeedbackValidationPropagates(t *testing.T) {
	f := newFixture(t, func(f *serverFixture) {
		f.voice.feedbackErr = errorsx.NewValidationError("rating must be between 1 and 5", "rating", 9)
	})
	rec := f.request(t, http.MethodPost, "/api/v1/voice/feedback",
		map[string]any{"content_id": "c1", "rating": 9, "feedback_type": "tone"}, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestVoiceFeedbackRequiresContentID(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodPost, "/api/v1/voice/feedback",
		map[string]any{"rating": 5, "feedback_type": "tone"}, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDiscoveryQuestionsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodGet, "/api/v1/voice/questions", nil, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Questions []domain.DiscoveryQuestion `json:"questions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Questions) != 7 {
		t.Errorf("questions = %d, want 7", len(resp.Questions))
	}
}

func TestDiscoveryRejectsEmptyResponses(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodPost, "/api/v1/voice/discovery",
		map[string]any{"responses": []any{}}, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthUnauthenticated(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodGet, "/health", nil, false)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAnalyzeStreamEventOrder(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze/stream",
		map[string]string{"content": "remote work"}, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	names := sseEventNames(rec.Body.String())
	want := []string{
		"init",
		"processing", "complete",
		"processing", "complete",
		"processing", "complete",
		"saving",
		"complete",
	}
	if len(names) != len(want) {
		t.Fatalf("events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("event[%d] = %q, want %q (all: %v)", i, names[i], want[i], names)
		}
	}

	// Terminal event carries the persisted id.
	if !strings.Contains(rec.Body.String(), `"saved":true`) {
		t.Error("terminal event missing saved flag")
	}
	if len(f.thoughts.created) != 1 {
		t.Errorf("thoughts created = %d", len(f.thoughts.created))
	}
}

func TestAnalyzeStreamErrorEvent(t *testing.T) {
	f := newFixture(t, func(f *serverFixture) {
		f.runner.run = &domain.PipelineRun{Success: false, Errors: []string{"research stage: boom"}}
	})
	rec := f.request(t, http.MethodPost, "/api/v1/thoughts/analyze/stream",
		map[string]string{"content": "remote work"}, true)

	names := sseEventNames(rec.Body.String())
	if len(names) == 0 || names[len(names)-1] != "error" {
		t.Errorf("events = %v, want terminal error event", names)
	}
	if len(f.thoughts.created) != 0 {
		t.Error("failed run must not be persisted")
	}
}

func sseEventNames(body string) []string {
	var names []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			names = append(names, name)
		}
	}
	return names
}
