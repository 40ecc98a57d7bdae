package classifier

import (
	"strings"
	"unicode"
)

const (
	minMeaningfulLen  = 10
	maxUnbrokenRun    = 25
	minWordlikeFrac   = 0.75
	minWordlikeTokens = 2
)

// isMeaningful applies the gibberish/spam heuristic. Text is rejected when
// it is very short, has no vowels, is only symbols/digits, is one long
// unbroken alphabetic run, or when too few of its tokens look like words
// (e.g. "abc123 random text xyz hello" mixes real words with noise tokens).
func isMeaningful(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minMeaningfulLen {
		return false
	}
	if !containsVowel(trimmed) {
		return false
	}
	if !containsLetter(trimmed) {
		return false
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) == 1 && isAlphabetic(tokens[0]) && len([]rune(tokens[0])) >= maxUnbrokenRun {
		return false
	}

	wordlike := 0
	for _, tok := range tokens {
		if isWordlike(tok) {
			wordlike++
		}
	}
	if wordlike < minWordlikeTokens {
		return false
	}
	return float64(wordlike) >= minWordlikeFrac*float64(len(tokens))
}

func containsVowel(s string) bool {
	return strings.ContainsAny(strings.ToLower(s), "aeiou")
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// isWordlike accepts tokens that are plausibly natural-language words:
// alphabetic (ignoring surrounding punctuation) with at least one vowel.
// "I" and "a" pass; "xyz" and "abc123" do not.
func isWordlike(tok string) bool {
	tok = strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return isAlphabetic(tok) && containsVowel(tok)
}
