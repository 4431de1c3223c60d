// Package langdetect identifies the language of lyrics so that only songs in
// the configured language reach sentiment scoring.
package langdetect

import (
	"log/slog"

	"github.com/abadojack/whatlanggo"
)

// Unknown is returned when no language can be identified.
const Unknown = "und"

// Detector returns the ISO 639-1 code of the language text is written in.
type Detector interface {
	Detect(text string) string
}

// Trigram detects languages with whatlanggo's trigram profiles.
type Trigram struct{}

// New creates a trigram-based Detector.
func New() Detector {
	return Trigram{}
}

// Detect returns the two-letter code of the most likely language, or Unknown.
func (Trigram) Detect(text string) string {
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		code = Unknown
	}

	slog.Debug("Language detected", "lang", code, "script", whatlanggo.Scripts[info.Script], "confidence", info.Confidence)
	return code
}
