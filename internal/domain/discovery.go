package domain

import "time"

// Question types in the voice-discovery questionnaire.
const (
	QuestionTypeChoice      = "multiple_choice"
	QuestionTypeMultiSelect = "multi_select"
	QuestionTypeFreeText    = "free_text"
)

// DiscoveryQuestion is one entry of the fixed onboarding questionnaire.
type DiscoveryQuestion struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}

// DiscoveryResponse is one questionnaire answer. OptionIndex is set for
// multiple-choice questions, Selections for multi-select, Text for free-text.
type DiscoveryResponse struct {
	QuestionID  string    `json:"question_id"`
	OptionIndex *int      `json:"option_index,omitempty"`
	Selections  []string  `json:"selections,omitempty"`
	Text        string    `json:"text,omitempty"`
	AnsweredAt  time.Time `json:"answered_at"`
}

// ArchetypeResult is the analyzer's scored outcome.
type ArchetypeResult struct {
	Primary         Archetype             `json:"primary"`
	Confidence      float64               `json:"confidence"`
	Scores          map[Archetype]float64 `json:"scores"`
	Recommendations []string              `json:"recommendations"`
}
