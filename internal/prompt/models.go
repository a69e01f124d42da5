package prompt

// ResearchPromptVars holds variables for the pipeline research-stage prompt.
type ResearchPromptVars struct {
	Input string
}

// AnalysisPromptVars holds variables for the pipeline analysis-stage prompt.
type AnalysisPromptVars struct {
	ResearchJSON string
}

// ContentPromptVars holds variables for the pipeline content-stage prompt.
type ContentPromptVars struct {
	AnalysisJSON  string
	OriginalInput string
}

// DeepResearchPromptVars holds variables for the generator's research phase.
type DeepResearchPromptVars struct {
	Topic string
}

// AuthoringPromptVars holds variables for the generator's authoring phase.
type AuthoringPromptVars struct {
	Topic          string
	ResearchJSON   string
	Voice          string
	Expertise      string
	Tone           string
	Sophistication string
	Exploration    string
}

// ExplorationPromptVars holds variables for the generator's exploration phase.
type ExplorationPromptVars struct {
	Topic        string
	ResearchJSON string
}
