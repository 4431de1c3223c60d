package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/chriscorrea/lyricmood/internal/corpus"
	"github.com/chriscorrea/lyricmood/internal/counter"
	"github.com/chriscorrea/lyricmood/internal/dataset"
	"github.com/chriscorrea/lyricmood/internal/langdetect"
	"github.com/chriscorrea/lyricmood/internal/mood"
	"github.com/chriscorrea/lyricmood/internal/normalize"
	"github.com/chriscorrea/lyricmood/internal/sentiment"
)

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// Reader returns the text of the song file at path.
type Reader func(path, selector string) (string, error)

// Categorizer turns song files into categorized songs.
type Categorizer struct {
	scope    sentiment.Scope
	minWords int
	language string
	selector string

	read     Reader
	counter  counter.Counter
	detector langdetect.Detector
	scorer   *sentiment.Scorer
}

// Option customizes a Categorizer.
type Option func(*Categorizer)

// WithReader replaces the file reader.
func WithReader(r Reader) Option {
	return func(c *Categorizer) { c.read = r }
}

// WithDetector replaces the language detector.
func WithDetector(d langdetect.Detector) Option {
	return func(c *Categorizer) { c.detector = d }
}

// WithPolarity replaces the sentiment model.
func WithPolarity(p sentiment.Polarity) Option {
	return func(c *Categorizer) { c.scorer = sentiment.NewScorer(p) }
}

// NewCategorizer creates a Categorizer for cfg, using VADER and trigram
// language detection unless overridden.
func NewCategorizer(cfg Config, opts ...Option) *Categorizer {
	c := &Categorizer{
		scope:    cfg.Scope,
		minWords: cfg.MinWords,
		language: cfg.Language,
		selector: cfg.Selector,
		read:     corpus.ReadSong,
		counter:  counter.NewWordCounter(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// the real models are only loaded when not overridden
	if c.detector == nil {
		c.detector = langdetect.New()
	}
	if c.scorer == nil {
		c.scorer = sentiment.NewScorer(nil)
	}
	return c
}

// Process categorizes one song file.
//
// Processing Pipeline:
// 1. read and validate the file (IOFailure, EncodingFailure)
// 2. strip metadata and reject short lyrics
// 3. detect the language and reject other languages
// 4. strip stopwords and score sentiment (ScoringFailure)
// 5. map the score to a mood bucket
func (c *Categorizer) Process(entry corpus.Entry) Outcome {
	raw, err := c.read(entry.Path, c.selector)
	if err != nil {
		return failed(entry.Path, IOFailure, err)
	}
	if !utf8.ValidString(raw) {
		return failed(entry.Path, EncodingFailure, errInvalidUTF8)
	}

	lyrics := normalize.StripMetadata(strings.TrimSpace(raw))
	if !counter.AtLeast(c.counter, lyrics, c.minWords) {
		slog.Debug("Short lyrics rejected", "path", entry.Path)
		return Outcome{Kind: RejectedShort, Path: entry.Path}
	}

	if lang := c.detector.Detect(lyrics); lang != c.language {
		slog.Debug("Language rejected", "path", entry.Path, "lang", lang)
		return Outcome{Kind: RejectedLanguage, Path: entry.Path, Language: lang}
	}

	compound, err := c.score(lyrics, entry.Title)
	if err != nil {
		return failed(entry.Path, ScoringFailure, err)
	}

	bucket := mood.FromCompound(compound)
	slog.Debug("Song categorized", "artist", entry.Artist, "album", entry.Album, "title", entry.Title,
		"compound", compound, "bucket", int(bucket))

	return Outcome{
		Kind: Categorized,
		Path: entry.Path,
		Song: dataset.Song{
			Title:     entry.Title,
			Artist:    entry.Artist,
			Lyrics:    lyrics,
			Sentiment: bucket,
		},
	}
}

// score strips stopwords and returns the compound score. Panics in the
// tokenizer or sentiment model are reported as errors.
func (c *Categorizer) score(lyrics, title string) (compound float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()

	stripped, err := normalize.StripStopwords(lyrics)
	if err != nil {
		return 0, fmt.Errorf("failed to strip stopwords: %w", err)
	}
	return c.scorer.Score(stripped, c.scope, title), nil
}
