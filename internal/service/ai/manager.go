package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/seolim/thoughtcast/internal/util"
	pkgerrors "github.com/seolim/thoughtcast/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ModelManager routes generation requests to the primary provider, falling
// back to the secondary when the primary fails, behind a shared circuit
// breaker. It reimplements none of the providers' retry or rate-limit
// internals; those stay inside the SDKs.
type ModelManager struct {
	primary        TextProvider
	fallback       TextProvider
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	GeminiAPIKey   string
	OpenAIAPIKey   string
	GeminiModel    string
	OpenAIModel    string
	EnableFallback bool
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	geminiModel := cfg.GeminiModel
	if geminiModel == "" {
		geminiModel = "gemini-2.5-flash"
	}
	openaiModel := cfg.OpenAIModel
	if openaiModel == "" {
		openaiModel = "gpt-4.1-mini"
	}

	mm := &ModelManager{
		primary: NewGeminiProvider(geminiClient, geminiModel, logger),
		logger:  logger,
	}

	if cfg.EnableFallback && cfg.OpenAIAPIKey != "" {
		mm.fallback = NewOpenAIProvider(cfg.OpenAIAPIKey, openaiModel, logger)
		logger.Info("OpenAI fallback enabled", zap.String("model", openaiModel))
	} else {
		logger.Info("OpenAI fallback disabled")
	}

	mm.circuitBreaker = util.NewCircuitBreaker(
		breakerFailureThreshold,
		breakerResetTimeout,
		breakerCheckInterval,
		mm.healthCheckPing,
		logger,
	)

	return mm, nil
}

// GenerateText issues one generation request and returns the complete text
// response. Transport failures propagate; the caller decides whether that
// aborts the enclosing stage.
func (mm *ModelManager) GenerateText(ctx context.Context, systemPrompt, userPrompt string, params CallParams) (string, *GenerateMetadata, error) {
	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		mm.logger.Error("AI service unavailable (circuit open)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		)
		return "", nil, pkgerrors.NewUpstreamError("language model providers unavailable", "circuit", nil)
	}

	primaryResult, primaryErr := mm.primary.Generate(ctx, systemPrompt, userPrompt, params)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return primaryResult.Text, &GenerateMetadata{
			Provider:     mm.primary.Name(),
			Model:        primaryResult.Model,
			UsedFallback: false,
		}, nil
	}

	if ctx.Err() != nil {
		// Abort, don't fall back, when the request itself is done.
		return "", nil, ctx.Err()
	}

	if mm.fallback != nil {
		fallbackResult, fallbackErr := mm.fallback.Generate(ctx, systemPrompt, userPrompt, params)
		if fallbackErr == nil {
			mm.circuitBreaker.RecordSuccess()
			return fallbackResult.Text, &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fallbackResult.Model,
				UsedFallback: true,
			}, nil
		}
		mm.recordProviderFailure(primaryErr, fallbackErr)
		return "", nil, pkgerrors.NewUpstreamError("all language model providers failed", mm.fallback.Name(), fallbackErr)
	}

	mm.recordProviderFailure(primaryErr, nil)
	return "", nil, pkgerrors.NewUpstreamError("language model call failed", mm.primary.Name(), primaryErr)
}

func (mm *ModelManager) recordProviderFailure(primaryErr, fallbackErr error) {
	if !mm.isServiceFailure(primaryErr) && !mm.isServiceFailure(fallbackErr) {
		return
	}
	timeout := breakerResetTimeout
	if mm.isRateLimitError(primaryErr) || mm.isRateLimitError(fallbackErr) {
		timeout = breakerRateLimitTimeout
	}
	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return true
	}
	if mm.isRateLimitError(err) {
		return true
	}

	statusRegex := regexp.MustCompile(`\b(5\d{2})\b`)
	if statusRegex.MatchString(msg) {
		return true
	}

	codeRegex := regexp.MustCompile(`"code":(\d{3})`)
	if matches := codeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code >= 500 && code < 600
		}
	}

	return false
}

func (mm *ModelManager) isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota")
}

func (mm *ModelManager) healthCheckPing() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	primaryOK := mm.primary.Ping(ctx)
	fallbackOK := false
	if mm.fallback != nil {
		fallbackOK = mm.fallback.Ping(ctx)
	}

	isHealthy := primaryOK || fallbackOK

	mm.logger.Info("Health Check: Result",
		zap.Bool("primary", primaryOK),
		zap.Bool("fallback", fallbackOK),
		zap.Bool("healthy", isHealthy),
	)

	return isHealthy
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}
