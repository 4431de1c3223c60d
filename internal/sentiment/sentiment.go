// Package sentiment computes compound sentiment scores for lyrics.
//
// A compound score is a single value in [-1, 1] produced by a lexicon-based
// polarity model (VADER). Lyrics are scored at one of three granularities:
//   - Full: the entire text in a single call
//   - Verse: the mean of per-paragraph scores, skipping paragraphs that score exactly 0
//   - Line: the mean of per-line scores, with no zero filtering
//
// The song title is prepended to the text as its own paragraph, so title
// sentiment counts toward the song's score.
package sentiment

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// Polarity scores a span of text. Implementations must not keep state between calls.
type Polarity interface {
	Compound(text string) float64
}

// VaderPolarity wraps govader's SentimentIntensityAnalyzer.
type VaderPolarity struct {
	sia *govader.SentimentIntensityAnalyzer
	mu  sync.Mutex
}

var (
	defaultVader *VaderPolarity
	vaderOnce    sync.Once
)

// DefaultVader returns the package-level VADER analyzer, loading the lexicon on first use.
func DefaultVader() *VaderPolarity {
	vaderOnce.Do(func() {
		defaultVader = &VaderPolarity{sia: govader.NewSentimentIntensityAnalyzer()}
	})
	return defaultVader
}

// Compound returns the VADER compound score for text.
func (v *VaderPolarity) Compound(text string) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sia.PolarityScores(text).Compound
}

// Scorer aggregates polarity scores over a lyrics text.
type Scorer struct {
	polarity Polarity
}

// NewScorer creates a Scorer backed by the given polarity model.
// A nil polarity uses the default VADER analyzer.
func NewScorer(p Polarity) *Scorer {
	if p == nil {
		p = DefaultVader()
	}
	return &Scorer{polarity: p}
}

// Score returns the compound sentiment of title and text under the given scope.
// When nothing can be scored the result is 0.
func (s *Scorer) Score(text string, scope Scope, title string) float64 {
	text = title + "\n\n" + text

	var compounds []float64
	switch scope {
	case Full:
		compounds = append(compounds, s.polarity.Compound(text))
	case Verse:
		for _, paragraph := range Paragraphs(text) {
			compound := s.polarity.Compound(paragraph)
			if compound == 0 {
				continue // a verse with no sentiment carries no signal
			}
			compounds = append(compounds, compound)
		}
	case Line:
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			compounds = append(compounds, s.polarity.Compound(line))
		}
	default:
		slog.Debug("Unknown scope, no sentiment computed", "scope", int(scope))
	}

	mean := average(compounds)
	slog.Debug("Sentiment computed", "title", title, "scope", scope, "samples", len(compounds), "compound", mean)
	return mean
}

// Paragraphs partitions text into maximal runs of non-blank lines. Each
// paragraph keeps a trailing newline after every line.
func Paragraphs(text string) []string {
	var paragraphs []string
	var current strings.Builder

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}

	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return paragraphs
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
