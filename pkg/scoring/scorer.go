// Package scoring assigns heuristic fitness scores to variants. Scoring is
// pure: deterministic given content and mutation history, no I/O, and no
// comparison against other variants in the population.
package scoring

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

// technicalTerms is the fixed vocabulary used by the complexity heuristic.
var technicalTerms = map[string]struct{}{
	"implement": {},
	"design":    {},
	"optimize":  {},
	"algorithm": {},
	"system":    {},
}

var fold = cases.Fold()

// Score computes the fitness of a variant as the mean of four factors, each
// nominally in [0,1]. The readability and technical-term sub-scores are
// intentionally left unclamped, so the result can leave [0,1] on unusual
// content; callers that rank variants only rely on the ordering.
func Score(v *variant.Variant) float64 {
	factors := []float64{
		Complexity(v.Content),
		Clarity(v.Content),
		Diversity(v.Mutations),
		MutationQuality(v.Mutations),
	}

	var sum float64
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

// Complexity measures problem complexity from length, technical vocabulary,
// and nested list structure.
func Complexity(content string) float64 {
	words := strings.Fields(content)
	wordCount := len(words)

	lengthScore := float64(wordCount) / 100
	if lengthScore > 1 {
		lengthScore = 1
	}

	// Technical complexity based on keywords. Repeated terms keep counting,
	// so this sub-score is not capped at 1.
	techCount := 0
	for _, word := range words {
		if _, ok := technicalTerms[fold.String(word)]; ok {
			techCount++
		}
	}
	techScore := float64(techCount) / float64(len(technicalTerms))

	// Nested complexity based on bullet points.
	nestedScore := float64(strings.Count(content, "\n- ")) / 10

	return (lengthScore + techScore + nestedScore) / 3
}

// Clarity measures readability, paragraph structure, and formatting. The
// readability sub-score is the Flesch reading ease divided by 100 and is not
// clamped: it can be negative for dense text or exceed 1 for trivial text.
func Clarity(content string) float64 {
	readability := FleschReadingEase(content) / 100

	paragraphs := strings.Count(content, "\n\n") + 1
	structureScore := float64(paragraphs) / 5
	if structureScore > 1 {
		structureScore = 1
	}

	formatScore := 0.8
	if strings.TrimSpace(content) == content {
		formatScore = 1.0
	}

	return (readability + structureScore + formatScore) / 3
}

// Diversity measures the variety of mutation strategies in the variant's own
// lineage. It never compares across variants.
func Diversity(mutations []string) float64 {
	distinct := make(map[string]struct{}, len(mutations))
	for _, m := range mutations {
		distinct[m] = struct{}{}
	}

	score := float64(len(distinct)) / 3
	if score > 1 {
		score = 1
	}
	return score
}

// MutationQuality scores lineage depth: one tenth per mutation applied.
func MutationQuality(mutations []string) float64 {
	return float64(len(mutations)) / 10
}
