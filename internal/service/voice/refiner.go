package voice

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/seolim/thoughtcast/internal/domain"
)

// Platforms that receive natural-phrase injection. Short-form platforms are
// left alone; a prepended phrase reads as filler there.
var longFormPlatforms = map[string]bool{
	"linkedin": true,
	"youtube":  true,
}

// Formality substitution pairs. The pass is one-directional per call: casual
// replacements when formality is low, formal replacements when it is high,
// never both.
var casualSubstitutions = []substitution{
	{regexp.MustCompile(`(?i)\bperhaps\b`), "maybe"},
	{regexp.MustCompile(`(?i)\bhowever\b`), "but"},
	{regexp.MustCompile(`(?i)\btherefore\b`), "so"},
	{regexp.MustCompile(`(?i)\bfurthermore\b`), "also"},
}

var formalSubstitutions = []substitution{
	{regexp.MustCompile(`(?i)\bmaybe\b`), "perhaps"},
	{regexp.MustCompile(`(?i)\bbut\b`), "however"},
	{regexp.MustCompile(`(?i)\bso\b`), "therefore"},
	{regexp.MustCompile(`(?i)\balso\b`), "furthermore"},
}

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// Refiner applies deterministic string-level voice adjustments to generated
// content. Behind an interface so a tokenization-aware implementation can
// replace the lexical one without touching callers.
type Refiner interface {
	Refine(content domain.PlatformContent, profile *domain.VoiceProfile) (domain.PlatformContent, []string)
}

// LexicalRefiner is the substring-and-regex implementation. Avoided-phrase
// removal is pattern-based and can match mid-word; callers accept that
// trade-off in exchange for predictability.
type LexicalRefiner struct {
	rng *rand.Rand
}

func NewLexicalRefiner(seed int64) *LexicalRefiner {
	return &LexicalRefiner{rng: rand.New(rand.NewSource(seed))}
}

// Refine returns the adjusted platform strings plus human-readable notes
// describing which adjustments were applied.
func (r *LexicalRefiner) Refine(content domain.PlatformContent, profile *domain.VoiceProfile) (domain.PlatformContent, []string) {
	var notes []string
	refined := content

	if injected := r.injectNaturalPhrase(&refined, profile.NaturalPhrases); injected != "" {
		notes = append(notes, fmt.Sprintf("added your phrase %q to long-form content", injected))
	}

	if removed := stripAvoidedPhrases(&refined, profile.AvoidedPhrases); len(removed) > 0 {
		notes = append(notes, fmt.Sprintf("removed phrases you avoid: %s", strings.Join(removed, ", ")))
	}

	if note := applyFormality(&refined, profile.FormalityLevel); note != "" {
		notes = append(notes, note)
	}

	// Humor is a defined extension point; no transformation today.
	r.adjustHumor(&refined, profile.HumorLevel)

	return refined, notes
}

// injectNaturalPhrase prepends one randomly chosen natural phrase to each
// long-form platform string that does not already contain it. Returns the
// chosen phrase, or "" when nothing was injected.
func (r *LexicalRefiner) injectNaturalPhrase(content *domain.PlatformContent, phrases []string) string {
	if len(phrases) == 0 {
		return ""
	}
	phrase := phrases[r.rng.Intn(len(phrases))]
	injected := false

	for _, platform := range content.Platforms() {
		if !longFormPlatforms[platform] {
			continue
		}
		text := content.Get(platform)
		if text == "" || strings.Contains(strings.ToLower(text), strings.ToLower(phrase)) {
			continue
		}
		content.Set(platform, phrase+" "+text)
		injected = true
	}

	if !injected {
		return ""
	}
	return phrase
}

// stripAvoidedPhrases removes every case-insensitive occurrence of each
// avoided phrase from every platform string. Not word-boundary-aware.
func stripAvoidedPhrases(content *domain.PlatformContent, avoided []string) []string {
	var removed []string
	for _, phrase := range avoided {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
		hit := false
		for _, platform := range content.Platforms() {
			text := content.Get(platform)
			if !pattern.MatchString(text) {
				continue
			}
			content.Set(platform, collapseSpaces(pattern.ReplaceAllString(text, "")))
			hit = true
		}
		if hit {
			removed = append(removed, phrase)
		}
	}
	return removed
}

// applyFormality runs the one-directional connective substitution. Level 3
// is a no-op.
func applyFormality(content *domain.PlatformContent, level int) string {
	var subs []substitution
	var note string
	switch {
	case level <= 2:
		subs = casualSubstitutions
		note = "relaxed formal connectives to match your casual tone"
	case level >= 4:
		subs = formalSubstitutions
		note = "formalized casual connectives to match your tone"
	default:
		return ""
	}

	changed := false
	for _, platform := range content.Platforms() {
		text := content.Get(platform)
		for _, sub := range subs {
			if sub.pattern.MatchString(text) {
				text = sub.pattern.ReplaceAllString(text, sub.replacement)
				changed = true
			}
		}
		content.Set(platform, text)
	}

	if !changed {
		return ""
	}
	return note
}

// adjustHumor is a documented no-op passthrough.
func (r *LexicalRefiner) adjustHumor(_ *domain.PlatformContent, _ int) {}

var multiSpace = regexp.MustCompile(`[ \t]{2,}`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}
