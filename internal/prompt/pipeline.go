package prompt

import "fmt"

// Stage system prompts keep each agent narrowly scoped: the research agent
// extracts, the analysis agent interprets, the content agent formats.

const ResearchSystemPrompt = `You are a research agent. You extract structure from raw text.
You never interpret, never give opinions, and never add information that is not in the input.
Respond with a single JSON object and nothing else.`

const AnalysisSystemPrompt = `You are an analysis agent. You find patterns, connections, and insights in structured research output.
Support every pattern with evidence drawn from the research. Rate each insight's importance between 0 and 1.
Respond with a single JSON object and nothing else.`

const ContentSystemPrompt = `You are a content agent. You turn analysis into a presentable summary with insight cards, actions, and highlights.
Keep the headline short and concrete. Icon and color fields are hints for the UI, use simple names.
Respond with a single JSON object and nothing else.`

// BuildResearchPrompt builds the user prompt for the research stage.
func BuildResearchPrompt(vars ResearchPromptVars) string {
	return fmt.Sprintf(`Extract the structure of the following input.

## Input:
%s

## Response Format (JSON ONLY):
{
  "topics": ["main topics, 2-5 entries"],
  "themes": ["recurring themes"],
  "questions": ["open questions the input raises"],
  "key_points": ["the load-bearing statements"],
  "categories": {"category name": ["items in that category"]},
  "context": "one paragraph situating the input, extraction only"
}`, vars.Input)
}

// BuildAnalysisPrompt builds the user prompt for the analysis stage, which
// embeds the serialized research output.
func BuildAnalysisPrompt(vars AnalysisPromptVars) string {
	return fmt.Sprintf(`Analyze the following research output.

## Research Output:
%s

## Response Format (JSON ONLY):
{
  "patterns": [{"name": "pattern name", "evidence": ["supporting evidence"]}],
  "connections": ["named connections between topics or themes"],
  "insights": [{"text": "the insight", "importance": 0.0-1.0}],
  "synthesis": "one paragraph synthesizing the analysis",
  "priorities": ["insights ordered by priority, most important first"]
}`, vars.ResearchJSON)
}

// BuildContentPrompt builds the user prompt for the content stage, which
// embeds the serialized analysis plus a truncated prefix of the original
// input.
func BuildContentPrompt(vars ContentPromptVars) string {
	return fmt.Sprintf(`Create presentable content from the following analysis.

## Analysis:
%s

## Original Input (prefix):
%s

## Response Format (JSON ONLY):
{
  "headline": "short concrete headline",
  "overview": "2-3 sentence overview",
  "cards": [{"title": "...", "description": "...", "icon": "icon hint", "color": "color hint"}],
  "actions": ["prioritized action items, most important first"],
  "highlights": ["quotable highlights"],
  "visual_theme": {"primary": "color hint", "mood": "mood hint"}
}`, vars.AnalysisJSON, vars.OriginalInput)
}
