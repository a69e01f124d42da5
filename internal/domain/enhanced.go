package domain

import "time"

// ResearchContext is the deep-research phase's structured output.
type ResearchContext struct {
	Domain                   string   `json:"domain"`
	KeyDimensions            []string `json:"key_dimensions"`
	ExpertPerspectives       []string `json:"expert_perspectives"`
	CounterintuitiveFindings []string `json:"counterintuitive_findings"`
	CrossDisciplinary        []string `json:"cross_disciplinary"`
	CurrentDevelopments      []string `json:"current_developments"`
	AuthorityReferences      []string `json:"authority_references"`
}

// PlatformContent holds exactly one content string per target platform, under
// canonical field names. Legacy key variants (x_twitter, youtube_script, …)
// are normalized onto this shape at the persistence boundary.
type PlatformContent struct {
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
	YouTube   string `json:"youtube"`
}

// Platforms returns the canonical platform names in output order.
func (PlatformContent) Platforms() []string {
	return []string{"twitter", "instagram", "linkedin", "youtube"}
}

// Get returns the content string for a canonical platform name.
func (pc PlatformContent) Get(platform string) string {
	switch platform {
	case "twitter":
		return pc.Twitter
	case "instagram":
		return pc.Instagram
	case "linkedin":
		return pc.LinkedIn
	case "youtube":
		return pc.YouTube
	}
	return ""
}

// Set assigns the content string for a canonical platform name.
func (pc *PlatformContent) Set(platform, content string) {
	switch platform {
	case "twitter":
		pc.Twitter = content
	case "instagram":
		pc.Instagram = content
	case "linkedin":
		pc.LinkedIn = content
	case "youtube":
		pc.YouTube = content
	}
}

// Combined joins all platform strings, used for whole-output phrase scans.
func (pc PlatformContent) Combined() string {
	return pc.Twitter + "\n" + pc.Instagram + "\n" + pc.LinkedIn + "\n" + pc.YouTube
}

// ExplorationPaths holds the supplementary recommendation lists attached to
// generated content.
type ExplorationPaths struct {
	Podcasts              []string `json:"podcasts"`
	Researchers           []string `json:"researchers"`
	RelatedTopics         []string `json:"related_topics"`
	PracticalApplications []string `json:"practical_applications"`
}

// GeneratorProfile is the caller-supplied voice description fed to the
// content-authoring phase.
type GeneratorProfile struct {
	Voice                 string   `json:"voice"`
	Expertise             []string `json:"expertise"`
	Tone                  string   `json:"tone"`
	Sophistication        string   `json:"sophistication"`
	ExplorationPreference string   `json:"exploration_preference"`
}

// EnhancedContentResult is one research-augmented generation: research
// context, the four platform strings, and exploration paths.
type EnhancedContentResult struct {
	Research    ResearchContext  `json:"research"`
	Content     PlatformContent  `json:"content"`
	Exploration ExplorationPaths `json:"exploration"`
	GeneratedAt time.Time        `json:"generated_at"`
}
