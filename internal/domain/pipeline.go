package domain

import "time"

// ResearchOutput is the first pipeline stage's structured result: extraction
// only, no interpretation.
type ResearchOutput struct {
	Topics     []string            `json:"topics"`
	Themes     []string            `json:"themes"`
	Questions  []string            `json:"questions"`
	KeyPoints  []string            `json:"key_points"`
	Categories map[string][]string `json:"categories"`
	Context    string              `json:"context"`
}

type Pattern struct {
	Name     string   `json:"name"`
	Evidence []string `json:"evidence"`
}

type RatedInsight struct {
	Text       string  `json:"text"`
	Importance float64 `json:"importance"`
}

// AnalysisOutput is the second stage's result, derived from ResearchOutput.
type AnalysisOutput struct {
	Patterns    []Pattern      `json:"patterns"`
	Connections []string       `json:"connections"`
	Insights    []RatedInsight `json:"insights"`
	Synthesis   string         `json:"synthesis"`
	Priorities  []string       `json:"priorities"`
}

type InsightCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// ContentOutput is the final stage's result, ready for projection.
type ContentOutput struct {
	Headline    string            `json:"headline"`
	Overview    string            `json:"overview"`
	Cards       []InsightCard     `json:"cards"`
	Actions     []string          `json:"actions"`
	Highlights  []string          `json:"highlights"`
	VisualTheme map[string]string `json:"visual_theme"`
}

// StageTiming records wall-clock durations in milliseconds.
type StageTiming struct {
	ResearchMS int64 `json:"research_ms"`
	AnalysisMS int64 `json:"analysis_ms"`
	ContentMS  int64 `json:"content_ms"`
	TotalMS    int64 `json:"total_ms"`
}

// PipelineRun captures one submission's pass through the three-stage
// pipeline. On failure, stage outputs computed before the failing stage are
// retained so partial results can be inspected.
type PipelineRun struct {
	Success  bool            `json:"success"`
	Research *ResearchOutput `json:"research"`
	Analysis *AnalysisOutput `json:"analysis"`
	Content  *ContentOutput  `json:"content"`
	Timing   StageTiming     `json:"timing"`
	Errors   []string        `json:"errors"`
}

// FormattedOutput is the flat, persistence-ready projection of a successful
// run.
type FormattedOutput struct {
	Summary    FormattedSummary  `json:"summary"`
	Insights   []InsightCard     `json:"insights"`
	Actions    []string          `json:"actions"`
	Highlights []string          `json:"highlights"`
	Visual     map[string]string `json:"visual"`
	Metadata   FormattedMetadata `json:"metadata"`
}

type FormattedSummary struct {
	Headline string `json:"headline"`
	Overview string `json:"overview"`
}

type FormattedMetadata struct {
	Timing      StageTiming `json:"timing"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// FailedRunOutput is the projection of a failed run: joined error message
// plus whatever stages completed.
type FailedRunOutput struct {
	Error   bool         `json:"error"`
	Message string       `json:"message"`
	Partial *PipelineRun `json:"partial"`
}
