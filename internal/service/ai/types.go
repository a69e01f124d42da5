package ai

import "time"

// CallParams carries the model parameters a call site must supply. The call
// unit itself has no defaults beyond what each stage specifies.
type CallParams struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// GenerateMetadata describes which provider and model produced a response.
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// ProviderResult is the raw text outcome of one provider call.
type ProviderResult struct {
	Text  string
	Model string
}

// Circuit breaker settings shared by the model manager.
const (
	breakerFailureThreshold = 3
	breakerResetTimeout     = 5 * time.Minute
	breakerRateLimitTimeout = 15 * time.Minute
	breakerCheckInterval    = time.Minute
)
