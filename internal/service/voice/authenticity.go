package voice

import (
	"strings"

	"github.com/seolim/thoughtcast/internal/domain"
)

// authenticityScore estimates how well the refined output matches the
// profile's stored preferences. Heuristic, always within [0, 1].
//
// Baseline 0.7. Natural phrases found in the combined output add up to +0.1
// (0.3 of the matched fraction, capped). Each distinct avoided phrase that
// survived refinement costs 0.1. High archetype confidence (> 0.8) adds a
// flat 0.1.
func authenticityScore(content domain.PlatformContent, profile *domain.VoiceProfile) float64 {
	score := 0.7
	combined := strings.ToLower(content.Combined())

	if len(profile.NaturalPhrases) > 0 {
		matched := 0
		for _, phrase := range profile.NaturalPhrases {
			if strings.Contains(combined, strings.ToLower(phrase)) {
				matched++
			}
		}
		fraction := float64(matched) / float64(len(profile.NaturalPhrases))
		bonus := 0.3 * fraction
		if bonus > 0.1 {
			bonus = 0.1
		}
		score += bonus
	}

	for _, phrase := range profile.AvoidedPhrases {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		if strings.Contains(combined, strings.ToLower(phrase)) {
			score -= 0.1
		}
	}

	if profile.ArchetypeConfidence > 0.8 {
		score += 0.1
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
