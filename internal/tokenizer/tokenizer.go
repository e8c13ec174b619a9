// Package tokenizer turns raw page text into the normalized word sequence
// that gets persisted as postings.
package tokenizer

import (
	"regexp"
	"strings"
)

// wordSplitter matches any run of characters outside the word class
// (letters in any script, digits, underscore). Runs of symbols, punctuation,
// and whitespace all act as separators.
var wordSplitter = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// DefaultStopWords is the closed list of English function words dropped
// during tokenization.
func DefaultStopWords() map[string]struct{} {
	return map[string]struct{}{
		"the": {}, "of": {}, "to": {}, "and": {},
		"a": {}, "in": {}, "is": {}, "it": {},
	}
}

// Tokenize splits text into lowercase words, dropping empty fragments and
// any word present in stop. The index of each word in the returned slice is
// its posting position: positions are dense after stop-word removal, not
// offsets into the original text.
func Tokenize(text string, stop map[string]struct{}) []string {
	fragments := wordSplitter.Split(text, -1)
	words := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if fragment == "" {
			continue
		}
		word := strings.ToLower(fragment)
		if _, skip := stop[word]; skip {
			continue
		}
		words = append(words, word)
	}
	return words
}
