package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/seolim/thoughtcast/internal/util"
	pkgerrors "github.com/seolim/thoughtcast/pkg/errors"
	"go.uber.org/zap"
)

// TextGenerator is the slice of ModelManager the call unit consumes.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string, params CallParams) (string, *GenerateMetadata, error)
}

// Invoker is one prompted call: build prompts, call the model, extract JSON.
type Invoker interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string, params CallParams) (*PromptResult, error)
}

// PromptResult is the outcome of one prompted call. Data is the parsed JSON
// object, or the fallback shape {"error": "parse failure", "rawText": …}
// when the response contained no recoverable JSON. Ephemeral; consumed
// immediately by the calling stage.
type PromptResult struct {
	Raw      string
	Data     map[string]any
	Metadata *GenerateMetadata
}

// ParseFailed reports whether Data is the parse-failure fallback. Callers
// treat this as "proceed with degraded data", not a hard failure.
func (r *PromptResult) ParseFailed() bool {
	if r == nil || r.Data == nil {
		return true
	}
	_, ok := r.Data["error"]
	return ok
}

// Decode maps Data onto a typed struct. Fields absent from the response are
// left at their zero values; the calling stage defaults them.
func (r *PromptResult) Decode(dest any) error {
	raw, err := json.Marshal(r.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Caller is the prompted call unit: exactly one request to the language
// model per invocation, with best-effort JSON extraction from the free-form
// response. Network and provider failures are not retried here; they
// propagate to the caller.
type Caller struct {
	generator TextGenerator
	logger    *zap.Logger
}

func NewCaller(generator TextGenerator, logger *zap.Logger) *Caller {
	return &Caller{
		generator: generator,
		logger:    logger,
	}
}

func (c *Caller) Invoke(ctx context.Context, systemPrompt, userPrompt string, params CallParams) (*PromptResult, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return nil, pkgerrors.NewValidationError("user prompt must not be empty", "userPrompt", "")
	}

	text, metadata, err := c.generator.GenerateText(ctx, systemPrompt, userPrompt, params)
	if err != nil {
		return nil, err
	}

	result := &PromptResult{
		Raw:      text,
		Metadata: metadata,
	}

	jsonText, found := ExtractJSONObject(text)
	if found {
		var parsed map[string]any
		if parseErr := json.Unmarshal([]byte(jsonText), &parsed); parseErr == nil {
			result.Data = parsed
			return result, nil
		}
		c.logger.Warn("Extracted JSON failed to parse",
			zap.String("preview", util.Truncate(jsonText, 200)),
		)
	} else {
		c.logger.Warn("No JSON object found in model response",
			zap.String("preview", util.Truncate(text, 200)),
		)
	}

	result.Data = map[string]any{
		"error":   "parse failure",
		"rawText": text,
	}
	return result, nil
}

// ExtractJSONObject locates the first balanced {...} substring in text.
// String literals and escapes are respected so braces inside values do not
// unbalance the scan.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}
