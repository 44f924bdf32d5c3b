package crawler

import (
	_ "embed"
	"strings"
)

//go:embed stop_words.txt
var stopWordsFile string

// DefaultStopWords returns the embedded English stop-word list.
func DefaultStopWords() []string {
	lines := strings.Split(stopWordsFile, "\n")
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}

// Tokenizer converts visible text into countable words.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// NewTokenizer creates a Tokenizer filtering the given stop words.
// A nil slice selects DefaultStopWords; an empty non-nil slice disables
// stop-word filtering.
func NewTokenizer(stopWords []string) *Tokenizer {
	if stopWords == nil {
		stopWords = DefaultStopWords()
	}
	t := &Tokenizer{stopWords: make(map[string]struct{}, len(stopWords))}
	for _, w := range stopWords {
		t.stopWords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return t
}

// Tokenize lowercases text, splits it on every run of characters other than
// ASCII letters and digits, and keeps tokens that are longer than one
// character, purely alphabetic and not stop words. Order and duplicates are
// preserved.
func (t *Tokenizer) Tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isASCIILetter(r) && !isASCIIDigit(r)
	})

	words := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 || !isAlpha(tok) {
			continue
		}
		if _, stop := t.stopWords[tok]; stop {
			continue
		}
		words = append(words, tok)
	}
	return words
}

// IsStopWord reports whether w is filtered by t.
func (t *Tokenizer) IsStopWord(w string) bool {
	_, ok := t.stopWords[strings.ToLower(w)]
	return ok
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isASCIILetter(rune(s[i])) {
			return false
		}
	}
	return true
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
