package domain

import (
	"encoding/json"
	"time"
)

// Source types accepted on submission.
const (
	SourceTypeText = "text"
	SourceTypeURL  = "url"
)

// Thought is the persisted record of one submission: the original input plus
// the structured output the pipeline or generator produced for it. Created
// once, never mutated by the core.
type Thought struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Content       string          `json:"content"`
	SourceType    string          `json:"source_type"`
	Tags          []string        `json:"tags,omitempty"`
	Analysis      json.RawMessage `json:"analysis,omitempty"`
	VoiceMetadata *VoiceMetadata  `json:"voice_metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
