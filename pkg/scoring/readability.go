package scoring

import (
	"strings"
	"unicode"
)

// FleschReadingEase computes the Flesch reading-ease index:
//
//	206.835 - 1.015*(words/sentences) - 84.6*(syllables/words)
//
// Typical prose lands in [0,100], but the index is unbounded on both sides.
// Empty content scores 0.
func FleschReadingEase(content string) float64 {
	words := strings.Fields(content)
	if len(words) == 0 {
		return 0
	}

	sentences := countSentences(content)
	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	avgSentenceLength := float64(len(words)) / float64(sentences)
	avgSyllablesPerWord := float64(syllables) / float64(len(words))

	return 206.835 - 1.015*avgSentenceLength - 84.6*avgSyllablesPerWord
}

// countSentences counts segments terminated by ., ! or ? that contain at
// least one letter or digit. Content without terminal punctuation counts as
// one sentence.
func countSentences(content string) int {
	count := 0
	for _, segment := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.IndexFunc(segment, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) >= 0 {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// countSyllables estimates syllables by counting vowel groups, discounting a
// trailing silent e. Every word counts as at least one syllable.
func countSyllables(word string) int {
	var letters []rune
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range letters {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	if count > 1 && letters[len(letters)-1] == 'e' && !isVowel(letters[len(letters)-2]) {
		count--
	}

	if count < 1 {
		count = 1
	}
	return count
}
