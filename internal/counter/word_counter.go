package counter

import (
	"log/slog"
	"unicode"
)

// WordCounter counts whitespace-separated words.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() Counter {
	return &WordCounter{}
}

// Count returns the number of maximal runs of non-whitespace runes in text,
// the same result as len(strings.Fields(text)) without building the slice.
func (wc *WordCounter) Count(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}

	slog.Debug("Word count calculated", "textLength", len(text), "wordCount", words)
	return words
}

// Name returns the name of this counting method for logging and debugging.
func (wc *WordCounter) Name() string {
	return "words"
}
