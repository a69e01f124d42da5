package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seolim/thoughtcast/internal/domain"
	"github.com/seolim/thoughtcast/internal/service/pipeline"
	"github.com/seolim/thoughtcast/internal/service/voice"
	"github.com/seolim/thoughtcast/internal/store"
	"github.com/seolim/thoughtcast/internal/util"
	errorsx "github.com/seolim/thoughtcast/pkg/errors"
)

const maxContentLength = 10000

// PipelineRunner runs the three-stage analysis pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, input string) *domain.PipelineRun
	RunWithObserver(ctx context.Context, input string, observe pipeline.StageObserver) *domain.PipelineRun
}

// ContentGenerator runs the research-augmented generator.
type ContentGenerator interface {
	Generate(ctx context.Context, topic string, profile domain.GeneratorProfile) (*domain.EnhancedContentResult, error)
}

// VoiceService is the personalization layer: voice-aware generation,
// discovery, and feedback intake.
type VoiceService interface {
	GenerateVoiceAwareContent(ctx context.Context, topic, userID string) (*domain.VoiceAwareContent, error)
	CompleteDiscovery(ctx context.Context, userID string, responses []domain.DiscoveryResponse) (domain.ArchetypeResult, *domain.VoiceProfile, error)
	ProcessVoiceFeedback(ctx context.Context, userID string, fb domain.VoiceFeedback) (*domain.VoiceProfile, error)
}

// Pinger reports backend connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	runner    PipelineRunner
	generator ContentGenerator
	voice     VoiceService
	thoughts  store.ThoughtStore
	db        Pinger
	timeout   time.Duration
	logger    *zap.Logger
}

func NewServer(runner PipelineRunner, generator ContentGenerator, voiceSvc VoiceService, thoughts store.ThoughtStore, db Pinger, timeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		runner:    runner,
		generator: generator,
		voice:     voiceSvc,
		thoughts:  thoughts,
		db:        db,
		timeout:   timeout,
		logger:    logger,
	}
}

type submitRequest struct {
	Content    string   `json:"content"`
	SourceType string   `json:"sourceType,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	// UserProfile is part of the wire contract on every submit shape. The
	// plain pipeline does not personalize; the enhanced path reads it when
	// no explicit profile is given.
	UserProfile *domain.GeneratorProfile `json:"userProfile,omitempty"`
}

func (req *submitRequest) validate() error {
	if strings.TrimSpace(req.Content) == "" {
		return errorsx.NewValidationError("content is required", "content", nil)
	}
	if len(req.Content) > maxContentLength {
		return errorsx.NewValidationError("content exceeds maximum length", "content", len(req.Content))
	}
	switch req.SourceType {
	case "":
		req.SourceType = domain.SourceTypeText
	case domain.SourceTypeText, domain.SourceTypeURL:
	default:
		return errorsx.NewValidationError("sourceType must be text or url", "sourceType", req.SourceType)
	}
	return nil
}

type analyzeResponse struct {
	ID       string                  `json:"id,omitempty"`
	Analysis *domain.FormattedOutput `json:"analysis"`
	Saved    bool                    `json:"saved"`
	Warning  string                  `json:"warning,omitempty"`
}

// handleAnalyze runs the three-stage pipeline and persists the result. A
// persistence failure still returns the analysis payload; recomputation is
// expensive.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	run := s.runner.Run(ctx, util.SanitizeInput(req.Content, maxContentLength))
	formatted, failed := pipeline.FormatRun(run)
	if failed != nil {
		if ctx.Err() != nil {
			respondError(w, s.logger, context.DeadlineExceeded, failed)
			return
		}
		respondError(w, s.logger,
			errorsx.NewUpstreamError(failed.Message, "pipeline", errors.New(failed.Message)),
			failed)
		return
	}

	resp := analyzeResponse{Analysis: formatted}
	if thought, err := s.saveThought(ctx, UserID(r.Context()), req, formatted, nil); err != nil {
		s.logger.Error("Thought save failed", zap.Error(err))
		resp.Warning = "analysis succeeded but saving failed"
	} else {
		resp.ID = thought.ID
		resp.Saved = true
	}

	respondJSON(w, http.StatusOK, resp)
}

type enhancedRequest struct {
	submitRequest
	Profile *domain.GeneratorProfile `json:"profile,omitempty"`
}

type enhancedResponse struct {
	ID      string                        `json:"id,omitempty"`
	Result  *domain.EnhancedContentResult `json:"result"`
	Saved   bool                          `json:"saved"`
	Warning string                        `json:"warning,omitempty"`
}

func (s *Server) handleEnhanced(w http.ResponseWriter, r *http.Request) {
	var req enhancedRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	profile := domain.GeneratorProfile{}
	switch {
	case req.Profile != nil:
		profile = *req.Profile
	case req.UserProfile != nil:
		profile = *req.UserProfile
	}

	result, err := s.generator.Generate(ctx, util.SanitizeInput(req.Content, maxContentLength), profile)
	if err != nil {
		respondError(w, s.logger, err, nil)
		return
	}

	resp := enhancedResponse{Result: result}
	if thought, err := s.saveThought(ctx, UserID(r.Context()), req.submitRequest, result, nil); err != nil {
		s.logger.Error("Thought save failed", zap.Error(err))
		resp.Warning = "generation succeeded but saving failed"
	} else {
		resp.ID = thought.ID
		resp.Saved = true
	}

	respondJSON(w, http.StatusOK, resp)
}

type voiceAwareResponse struct {
	ID              string                   `json:"id,omitempty"`
	Result          *domain.VoiceAwareContent `json:"result"`
	HasVoiceProfile bool                     `json:"hasVoiceProfile"`
	Saved           bool                     `json:"saved"`
	Warning         string                   `json:"warning,omitempty"`
}

type voiceAwareRequest struct {
	submitRequest
	// BrainID names the client-side content space. Voice profiles are keyed
	// per user, so it is accepted but does not change generation.
	BrainID string `json:"brainId,omitempty"`
}

func (s *Server) handleVoiceAware(w http.ResponseWriter, r *http.Request) {
	var req voiceAwareRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	userID := UserID(r.Context())
	result, err := s.voice.GenerateVoiceAwareContent(ctx, util.SanitizeInput(req.Content, maxContentLength), userID)
	if err != nil {
		respondError(w, s.logger, err, nil)
		return
	}

	meta := &domain.VoiceMetadata{
		Archetype:         result.ArchetypeUsed,
		AuthenticityScore: result.AuthenticityScore,
		AdaptationNotes:   result.AdaptationNotes,
	}

	resp := voiceAwareResponse{Result: result, HasVoiceProfile: result.HasProfile}
	if thought, err := s.saveThought(ctx, userID, req.submitRequest, result, meta); err != nil {
		s.logger.Error("Thought save failed", zap.Error(err))
		resp.Warning = "generation succeeded but saving failed"
	} else {
		resp.ID = thought.ID
		resp.Saved = true
	}

	respondJSON(w, http.StatusOK, resp)
}

type discoveryRequest struct {
	Responses []domain.DiscoveryResponse `json:"responses"`
}

type discoveryResponse struct {
	Archetype domain.ArchetypeResult `json:"archetype"`
	Profile   *domain.VoiceProfile   `json:"profile"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	var req discoveryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}
	if len(req.Responses) == 0 {
		respondError(w, s.logger,
			errorsx.NewValidationError("responses must be a non-empty array", "responses", nil), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, profile, err := s.voice.CompleteDiscovery(ctx, UserID(r.Context()), req.Responses)
	if err != nil {
		respondError(w, s.logger, err, nil)
		return
	}

	respondJSON(w, http.StatusOK, discoveryResponse{Archetype: result, Profile: profile})
}

func (s *Server) handleDiscoveryQuestions(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"questions": voice.DiscoveryQuestions})
}

type feedbackResponse struct {
	Success bool                 `json:"success"`
	Profile *domain.VoiceProfile `json:"profile"`
}

func (s *Server) handleVoiceFeedback(w http.ResponseWriter, r *http.Request) {
	var req domain.VoiceFeedback
	if err := decodeBody(r, &req); err != nil {
		respondError(w, s.logger, err, nil)
		return
	}
	if req.ContentID == "" {
		respondError(w, s.logger,
			errorsx.NewValidationError("contentId is required", "contentId", nil), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	profile, err := s.voice.ProcessVoiceFeedback(ctx, UserID(r.Context()), req)
	if err != nil {
		respondError(w, s.logger, err, nil)
		return
	}

	respondJSON(w, http.StatusOK, feedbackResponse{Success: true, Profile: profile})
}

func (s *Server) handleListThoughts(w http.ResponseWriter, r *http.Request) {
	thoughts, err := s.thoughts.ListThoughts(r.Context(), UserID(r.Context()), 50)
	if err != nil {
		respondError(w, s.logger,
			errorsx.NewPersistenceError("failed to list thoughts", "list_thoughts", err), nil)
		return
	}
	if thoughts == nil {
		thoughts = []*domain.Thought{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"thoughts": thoughts})
}

func (s *Server) handleGetThought(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	thought, err := s.thoughts.GetThought(r.Context(), UserID(r.Context()), id)
	if errors.Is(err, store.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "thought not found", Kind: errorsx.KindValidation})
		return
	}
	if err != nil {
		respondError(w, s.logger,
			errorsx.NewPersistenceError("failed to load thought", "get_thought", err), nil)
		return
	}
	respondJSON(w, http.StatusOK, thought)
}

func (s *Server) handleDeleteThought(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.thoughts.DeleteThought(r.Context(), UserID(r.Context()), id)
	if errors.Is(err, store.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "thought not found", Kind: errorsx.KindValidation})
		return
	}
	if err != nil {
		respondError(w, s.logger,
			errorsx.NewPersistenceError("failed to delete thought", "delete_thought", err), nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	respondJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// saveThought persists one submission with its structured analysis.
func (s *Server) saveThought(ctx context.Context, userID string, req submitRequest, analysis any, meta *domain.VoiceMetadata) (*domain.Thought, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}

	thought := &domain.Thought{
		ID:            uuid.NewString(),
		UserID:        userID,
		Content:       req.Content,
		SourceType:    req.SourceType,
		Tags:          req.Tags,
		Analysis:      payload,
		VoiceMetadata: meta,
		CreatedAt:     time.Now(),
	}
	if err := s.thoughts.CreateThought(ctx, thought); err != nil {
		return nil, err
	}
	return thought, nil
}

func decodeBody(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return errorsx.NewValidationError("invalid JSON body", "body", nil)
	}
	return nil
}
