package generator

import (
	"fmt"

	"github.com/seolim/thoughtcast/internal/domain"
)

// Generic substitutes used when a phase's model response contains no
// recoverable JSON. Trivially derived from the topic; never raise.

func fallbackResearchContext(topic string) domain.ResearchContext {
	return domain.ResearchContext{
		Domain:                   "general",
		KeyDimensions:            []string{fmt.Sprintf("core concepts of %s", topic), fmt.Sprintf("practical applications of %s", topic), fmt.Sprintf("common misconceptions about %s", topic)},
		ExpertPerspectives:       []string{fmt.Sprintf("practitioners working on %s", topic)},
		CounterintuitiveFindings: []string{fmt.Sprintf("%s is more nuanced than it first appears", topic)},
		CrossDisciplinary:        []string{fmt.Sprintf("%s connects to adjacent fields", topic)},
		CurrentDevelopments:      []string{fmt.Sprintf("ongoing developments in %s", topic)},
		AuthorityReferences:      []string{fmt.Sprintf("foundational writing on %s", topic)},
	}
}

func fallbackPlatformContent(topic string) domain.PlatformContent {
	return domain.PlatformContent{
		Twitter:   fmt.Sprintf("Been thinking about %s lately. There's more to it than most takes suggest.", topic),
		Instagram: fmt.Sprintf("Exploring %s today. What's your experience with it?", topic),
		LinkedIn:  fmt.Sprintf("I've been digging into %s recently.\n\nThe more I learn, the more I realize how much conventional wisdom misses. Curious what others in my network think about this.", topic),
		YouTube:   fmt.Sprintf("Video outline: %s\n\n1. Why %s matters now\n2. What most people get wrong\n3. Practical takeaways", topic, topic),
	}
}

func fallbackExplorationPaths(topic string) domain.ExplorationPaths {
	return domain.ExplorationPaths{
		Podcasts:              []string{fmt.Sprintf("podcasts covering %s", topic)},
		Researchers:           []string{fmt.Sprintf("researchers studying %s", topic)},
		RelatedTopics:         []string{fmt.Sprintf("topics adjacent to %s", topic)},
		PracticalApplications: []string{fmt.Sprintf("ways to apply %s", topic)},
	}
}
