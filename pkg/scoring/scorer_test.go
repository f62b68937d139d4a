package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

func TestScoreIsDeterministic(t *testing.T) {
	v := variant.New("Design an algorithm to optimize the caching system.\n\n- cache\n- evict")
	v.Mutations = []string{"rephrase", "expand"}

	first := Score(v)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(v))
	}
}

func TestScoreKnownValue(t *testing.T) {
	v := variant.New("Problem 1")

	// complexity: 2 words -> length 0.02, no tech terms, no bullets
	assert.InDelta(t, 0.02/3, Complexity(v.Content), 1e-9)

	// clarity: flesch 77.905 (2 words, 1 sentence, 3 syllables),
	// 1 paragraph -> 0.2, clean formatting -> 1.0
	assert.InDelta(t, 77.905, FleschReadingEase(v.Content), 1e-9)
	assert.InDelta(t, (0.77905+0.2+1.0)/3, Clarity(v.Content), 1e-9)

	// no lineage: diversity and mutation quality are both 0
	expected := (0.02/3 + (0.77905+0.2+1.0)/3) / 4
	assert.InDelta(t, expected, Score(v), 1e-9)
}

func TestComplexityTechnicalTerms(t *testing.T) {
	// Matching is case-insensitive on whole words.
	assert.InDelta(t, (0.02+2.0/5)/3, Complexity("Implement ALGORITHM"), 1e-9)

	// Repeated terms keep counting; the sub-score is intentionally unclamped.
	content := strings.TrimSpace(strings.Repeat("implement ", 6))
	c := Complexity(content)
	assert.Greater(t, c, (0.06+1.0)/3-1e-9)
	assert.InDelta(t, (0.06+1.2+0)/3, c, 1e-9)
}

func TestComplexityLengthCapsAtOne(t *testing.T) {
	content := strings.TrimSpace(strings.Repeat("word ", 250))
	assert.InDelta(t, 1.0/3, Complexity(content), 1e-9)
}

func TestComplexityNestedStructure(t *testing.T) {
	content := "List:\n- one\n- two\n- three"
	// 7 whitespace-separated tokens, 3 bullet markers
	assert.InDelta(t, (0.07+0+0.3)/3, Complexity(content), 1e-9)
}

func TestClarityFormatPenalty(t *testing.T) {
	clean := Clarity("Problem 1")
	padded := Clarity("Problem 1 ")
	// Same readability sub-scores, but trailing whitespace costs 0.2 on formatting.
	assert.InDelta(t, 0.2/3, clean-padded, 1e-9)
}

func TestClarityParagraphStructure(t *testing.T) {
	content := "one\n\ntwo\n\nthree"
	// 3 paragraphs -> structure 0.6
	assert.InDelta(t, (FleschReadingEase(content)/100+0.6+1.0)/3, Clarity(content), 1e-9)
}

func TestDiversity(t *testing.T) {
	assert.Equal(t, 0.0, Diversity(nil))
	assert.InDelta(t, 1.0/3, Diversity([]string{"rephrase", "rephrase"}), 1e-9)
	assert.InDelta(t, 2.0/3, Diversity([]string{"rephrase", "expand"}), 1e-9)
	// More than three distinct strategies clamps at 1.
	assert.Equal(t, 1.0, Diversity([]string{"rephrase", "expand", "simplify", "add_constraints"}))
}

func TestMutationQuality(t *testing.T) {
	assert.Equal(t, 0.0, MutationQuality(nil))
	assert.InDelta(t, 0.3, MutationQuality([]string{"a", "b", "c"}), 1e-9)
	// Unbounded above in principle, bounded in practice by lineage depth.
	assert.InDelta(t, 1.2, MutationQuality(make([]string, 12)), 1e-9)
}

func TestFleschReadingEase(t *testing.T) {
	assert.Equal(t, 0.0, FleschReadingEase(""))
	assert.Equal(t, 0.0, FleschReadingEase("   "))

	// Single one-syllable word, one sentence.
	assert.InDelta(t, 206.835-1.015-84.6, FleschReadingEase("Go."), 1e-9)

	// Dense polysyllabic text drives the index negative; it is not clamped.
	dense := strings.TrimSpace(strings.Repeat("incomprehensibility ", 30))
	assert.Less(t, FleschReadingEase(dense), 0.0)
}

func TestCountSyllables(t *testing.T) {
	cases := map[string]int{
		"go":        1,
		"problem":   2,
		"algorithm": 3,
		"the":       1, // a word never counts below one syllable
		"1":         1, // non-letter tokens count as one syllable
		"make":      1, // trailing silent e is discounted
		"idea":      2, // vowel groups: i, ea
	}
	for word, want := range cases {
		assert.Equal(t, want, countSyllables(word), "word %q", word)
	}
}
