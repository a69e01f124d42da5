package prompt

import "fmt"

const DeepResearchSystemPrompt = `You are a deep research assistant. You map a topic's intellectual landscape:
its domain, key dimensions, expert perspectives, and the findings most people get wrong.
Respond with a single JSON object and nothing else.`

const AuthoringSystemPrompt = `You are a content author. You write platform-native social posts grounded in research,
in the submitter's own voice. Each platform gets exactly one string.
Respond with a single JSON object and nothing else.`

const ExplorationSystemPrompt = `You are a curator. You recommend where to go next on a topic: who to listen to,
who to read, what to try. Keep every list short and specific.
Respond with a single JSON object and nothing else.`

// BuildDeepResearchPrompt builds the user prompt for the deep-research phase.
func BuildDeepResearchPrompt(vars DeepResearchPromptVars) string {
	return fmt.Sprintf(`Research the following topic in depth.

## Topic:
"%s"

## Response Format (JSON ONLY):
{
  "domain": "the topic's primary domain",
  "key_dimensions": ["3-4 dimensions along which the topic varies"],
  "expert_perspectives": ["4-6 named expert viewpoints"],
  "counterintuitive_findings": ["findings that contradict common assumptions"],
  "cross_disciplinary": ["connections to other fields"],
  "current_developments": ["recent developments"],
  "authority_references": ["authoritative sources"]
}`, vars.Topic)
}

// BuildAuthoringPrompt builds the user prompt for the content-authoring
// phase, conditioned on the research output and the submitter's profile.
func BuildAuthoringPrompt(vars AuthoringPromptVars) string {
	return fmt.Sprintf(`Write social content about "%s".

## Research Context:
%s

## Author Profile:
- Voice: %s
- Expertise: %s
- Tone: %s
- Sophistication: %s
- Exploration preference: %s

## Platforms:
- twitter: short-form, punchy, one idea
- instagram: short-form caption for a community audience
- linkedin: long-form professional post
- youtube: structured video outline with sections

## Response Format (JSON ONLY):
{
  "twitter": "...",
  "instagram": "...",
  "linkedin": "...",
  "youtube": "..."
}`,
		vars.Topic,
		vars.ResearchJSON,
		vars.Voice,
		vars.Expertise,
		vars.Tone,
		vars.Sophistication,
		vars.Exploration,
	)
}

// BuildExplorationPrompt builds the user prompt for the exploration-paths
// phase.
func BuildExplorationPrompt(vars ExplorationPromptVars) string {
	return fmt.Sprintf(`Recommend exploration paths for "%s".

## Research Context:
%s

## Response Format (JSON ONLY):
{
  "podcasts": ["podcast or video references"],
  "researchers": ["researchers worth following"],
  "related_topics": ["adjacent topics"],
  "practical_applications": ["ways to apply this"]
}`, vars.Topic, vars.ResearchJSON)
}
