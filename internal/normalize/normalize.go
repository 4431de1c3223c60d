// Package normalize provides the pure text transforms applied to raw lyrics
// before they are counted, scored or stored.
//
// Song files in the corpus carry a trailing metadata block (credits, source
// URLs, copyright) introduced by a line of underscores. StripMetadata cuts it
// off. StripStopwords removes common English function words line by line so
// that verse and line structure survive for the sentiment scorer.
package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"
)

// metadataMarker starts the metadata block at the bottom of a song file.
const metadataMarker = "____"

// SplitLines splits text into lines, treating CRLF and LF alike.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// StripMetadata returns the lines preceding the first line that begins with
// four or more underscores, joined by newlines. Text without such a line is
// returned with its trailing whitespace removed.
func StripMetadata(text string) string {
	lines := SplitLines(text)
	for i, line := range lines {
		if strings.HasPrefix(line, metadataMarker) {
			slog.Debug("Metadata block found", "line", i+1, "totalLines", len(lines))
			return strings.Join(lines[:i], "\n")
		}
	}

	return strings.TrimRightFunc(strings.Join(lines, "\n"), isTrailingSpace)
}

// StripStopwords tokenizes each line independently and removes stopwords,
// rejoining the surviving tokens with single spaces. The output always has the
// same number of lines as the input; lines left with no tokens are empty.
func StripStopwords(text string) (string, error) {
	lines := SplitLines(text)
	out := make([]string, len(lines))

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		tokens, err := tokenizeLine(line)
		if err != nil {
			return "", fmt.Errorf("failed to tokenize line %d: %w", i+1, err)
		}

		kept := tokens[:0]
		for _, token := range tokens {
			if !IsStopword(token) {
				kept = append(kept, token)
			}
		}
		out[i] = strings.Join(kept, " ")
	}

	return strings.Join(out, "\n"), nil
}

// tokenizeLine splits a single line into word and punctuation tokens.
// Only tokenization is enabled; tagging, segmentation and entity extraction
// would load models the normalizer never uses.
func tokenizeLine(line string) ([]string, error) {
	doc, err := prose.NewDocument(line,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}

	proseTokens := doc.Tokens()
	tokens := make([]string, 0, len(proseTokens))
	for _, tok := range proseTokens {
		if tok.Text != "" {
			tokens = append(tokens, tok.Text)
		}
	}
	return tokens, nil
}

func isTrailingSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
