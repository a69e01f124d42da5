package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/seolim/thoughtcast/internal/domain"
	"github.com/seolim/thoughtcast/internal/prompt"
	"github.com/seolim/thoughtcast/internal/service/ai"
	"github.com/seolim/thoughtcast/internal/util"
	"go.uber.org/zap"
)

// Per-stage model parameters. The call unit carries no defaults of its own.
var (
	researchParams = ai.CallParams{MaxTokens: 1024, Temperature: 0.2}
	analysisParams = ai.CallParams{MaxTokens: 2048, Temperature: 0.3}
	contentParams  = ai.CallParams{MaxTokens: 2048, Temperature: 0.6}
)

const originalInputPrefixLen = 500

// Service runs the three-stage research → analysis → content pipeline.
// Stages run strictly in sequence; each stage's prompt embeds the previous
// stage's output.
type Service struct {
	caller ai.Invoker
	logger *zap.Logger
}

func NewService(caller ai.Invoker, logger *zap.Logger) *Service {
	return &Service{
		caller: caller,
		logger: logger,
	}
}

// StageEvent reports pipeline progress to streaming consumers.
type StageEvent struct {
	Stage     string `json:"stage"`
	Phase     string `json:"phase"` // processing | complete | failed
	ElapsedMS int64  `json:"elapsed_ms,omitempty"`
	Preview   string `json:"preview,omitempty"`
}

// StageObserver receives stage progress events during a run. May be nil.
type StageObserver func(StageEvent)

// Run executes the pipeline for one submission. It never raises: on stage
// failure the run is marked failed, the error recorded, and whatever stages
// completed are retained in the returned run.
func (s *Service) Run(ctx context.Context, input string) *domain.PipelineRun {
	return s.RunWithObserver(ctx, input, nil)
}

// RunWithObserver is Run with per-stage progress callbacks for the streaming
// transport. Events fire in stage order on the calling goroutine.
func (s *Service) RunWithObserver(ctx context.Context, input string, observe StageObserver) *domain.PipelineRun {
	if observe == nil {
		observe = func(StageEvent) {}
	}
	run := &domain.PipelineRun{}
	totalStart := time.Now()

	observe(StageEvent{Stage: "research", Phase: "processing"})
	stageStart := time.Now()
	research, err := s.researchStage(ctx, input)
	run.Timing.ResearchMS = time.Since(stageStart).Milliseconds()
	if err != nil {
		observe(StageEvent{Stage: "research", Phase: "failed", ElapsedMS: run.Timing.ResearchMS})
		return s.fail(run, totalStart, "research", err)
	}
	run.Research = research
	observe(StageEvent{Stage: "research", Phase: "complete", ElapsedMS: run.Timing.ResearchMS, Preview: previewResearch(research)})

	observe(StageEvent{Stage: "analysis", Phase: "processing"})
	stageStart = time.Now()
	analysis, err := s.analysisStage(ctx, research)
	run.Timing.AnalysisMS = time.Since(stageStart).Milliseconds()
	if err != nil {
		observe(StageEvent{Stage: "analysis", Phase: "failed", ElapsedMS: run.Timing.AnalysisMS})
		return s.fail(run, totalStart, "analysis", err)
	}
	run.Analysis = analysis
	observe(StageEvent{Stage: "analysis", Phase: "complete", ElapsedMS: run.Timing.AnalysisMS, Preview: previewAnalysis(analysis)})

	observe(StageEvent{Stage: "content", Phase: "processing"})
	stageStart = time.Now()
	content, err := s.contentStage(ctx, analysis, input)
	run.Timing.ContentMS = time.Since(stageStart).Milliseconds()
	if err != nil {
		observe(StageEvent{Stage: "content", Phase: "failed", ElapsedMS: run.Timing.ContentMS})
		return s.fail(run, totalStart, "content", err)
	}
	run.Content = content
	observe(StageEvent{Stage: "content", Phase: "complete", ElapsedMS: run.Timing.ContentMS, Preview: content.Headline})

	run.Success = true
	run.Timing.TotalMS = time.Since(totalStart).Milliseconds()

	s.logger.Info("Pipeline run complete",
		zap.Int64("research_ms", run.Timing.ResearchMS),
		zap.Int64("analysis_ms", run.Timing.AnalysisMS),
		zap.Int64("content_ms", run.Timing.ContentMS),
		zap.Int64("total_ms", run.Timing.TotalMS),
	)

	return run
}

func (s *Service) fail(run *domain.PipelineRun, totalStart time.Time, stage string, err error) *domain.PipelineRun {
	run.Success = false
	run.Errors = append(run.Errors, fmt.Sprintf("%s stage: %v", stage, err))
	run.Timing.TotalMS = time.Since(totalStart).Milliseconds()

	s.logger.Error("Pipeline stage failed",
		zap.String("stage", stage),
		zap.Error(err),
	)

	return run
}

// researchStage extracts topics, themes, questions, key points, categories,
// and context from the raw input. Extraction only, no interpretation.
func (s *Service) researchStage(ctx context.Context, input string) (*domain.ResearchOutput, error) {
	result, err := s.caller.Invoke(ctx,
		prompt.ResearchSystemPrompt,
		prompt.BuildResearchPrompt(prompt.ResearchPromptVars{Input: input}),
		researchParams,
	)
	if err != nil {
		return nil, err
	}
	// The next stage needs well-formed structured output, so a parse failure
	// fails this stage rather than degrading.
	if result.ParseFailed() {
		return nil, fmt.Errorf("no structured output in model response")
	}

	var out domain.ResearchOutput
	if err := result.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode research output: %w", err)
	}
	normalizeResearch(&out)
	return &out, nil
}

func (s *Service) analysisStage(ctx context.Context, research *domain.ResearchOutput) (*domain.AnalysisOutput, error) {
	researchJSON, err := json.Marshal(research)
	if err != nil {
		return nil, fmt.Errorf("serialize research output: %w", err)
	}

	result, err := s.caller.Invoke(ctx,
		prompt.AnalysisSystemPrompt,
		prompt.BuildAnalysisPrompt(prompt.AnalysisPromptVars{ResearchJSON: string(researchJSON)}),
		analysisParams,
	)
	if err != nil {
		return nil, err
	}
	if result.ParseFailed() {
		return nil, fmt.Errorf("no structured output in model response")
	}

	var out domain.AnalysisOutput
	if err := result.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode analysis output: %w", err)
	}
	normalizeAnalysis(&out)
	return &out, nil
}

func (s *Service) contentStage(ctx context.Context, analysis *domain.AnalysisOutput, originalInput string) (*domain.ContentOutput, error) {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("serialize analysis output: %w", err)
	}

	result, err := s.caller.Invoke(ctx,
		prompt.ContentSystemPrompt,
		prompt.BuildContentPrompt(prompt.ContentPromptVars{
			AnalysisJSON:  string(analysisJSON),
			OriginalInput: util.Truncate(originalInput, originalInputPrefixLen),
		}),
		contentParams,
	)
	if err != nil {
		return nil, err
	}
	if result.ParseFailed() {
		return nil, fmt.Errorf("no structured output in model response")
	}

	var out domain.ContentOutput
	if err := result.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode content output: %w", err)
	}
	normalizeContent(&out)
	return &out, nil
}

func previewResearch(out *domain.ResearchOutput) string {
	if len(out.Topics) == 0 {
		return ""
	}
	n := len(out.Topics)
	if n > 3 {
		n = 3
	}
	return strings.Join(out.Topics[:n], ", ")
}

func previewAnalysis(out *domain.AnalysisOutput) string {
	if len(out.Insights) == 0 {
		return out.Synthesis
	}
	return util.Truncate(out.Insights[0].Text, 120)
}

// Missing response fields default to empty collections, never nil.

func normalizeResearch(out *domain.ResearchOutput) {
	if out.Topics == nil {
		out.Topics = []string{}
	}
	if out.Themes == nil {
		out.Themes = []string{}
	}
	if out.Questions == nil {
		out.Questions = []string{}
	}
	if out.KeyPoints == nil {
		out.KeyPoints = []string{}
	}
	if out.Categories == nil {
		out.Categories = map[string][]string{}
	}
}

func normalizeAnalysis(out *domain.AnalysisOutput) {
	if out.Patterns == nil {
		out.Patterns = []domain.Pattern{}
	}
	if out.Connections == nil {
		out.Connections = []string{}
	}
	if out.Insights == nil {
		out.Insights = []domain.RatedInsight{}
	}
	if out.Priorities == nil {
		out.Priorities = []string{}
	}
}

func normalizeContent(out *domain.ContentOutput) {
	if out.Cards == nil {
		out.Cards = []domain.InsightCard{}
	}
	if out.Actions == nil {
		out.Actions = []string{}
	}
	if out.Highlights == nil {
		out.Highlights = []string{}
	}
	if out.VisualTheme == nil {
		out.VisualTheme = map[string]string{}
	}
}
