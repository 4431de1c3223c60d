package app

import (
	"fmt"

	"github.com/chriscorrea/lyricmood/internal/bm25"
	"github.com/chriscorrea/lyricmood/internal/config"
	"github.com/chriscorrea/lyricmood/internal/sentiment"
)

// Config holds all configuration options for the preparation pipeline.
type Config struct {
	CorpusDir   string          // root of the letter/artist/album/song tree
	DatasetFile string          // CSV written by Prepare and read by BuildIndexes
	IndexFile   string          // serialized index store
	LogDir      string          // directory for run log files
	Scope       sentiment.Scope // granularity of sentiment aggregation
	MinWords    int             // songs with fewer words are rejected as short
	Language    string          // ISO 639-1 code songs must be written in
	Selector    string          // CSS selector for lyrics in HTML song files
	Index       bm25.Options
	Quiet       bool // suppress progress and summary output
}

// FromFile converts a loaded configuration file into a Config.
func FromFile(f config.File) (Config, error) {
	scope, err := sentiment.ParseScope(f.Scope)
	if err != nil {
		return Config{}, err
	}

	return Config{
		CorpusDir:   f.Corpus,
		DatasetFile: f.Dataset,
		IndexFile:   f.Index,
		LogDir:      f.LogDir,
		Scope:       scope,
		MinWords:    f.MinWords,
		Language:    f.Language,
		Selector:    f.Selector,
		Index: bm25.Options{
			Params: bm25.Params{K1: f.BM25.K1, B: f.BM25.B, Epsilon: f.BM25.Epsilon},
			Stem:   f.Stem,
		},
	}, nil
}

// validate checks the fields Prepare depends on.
func (c Config) validate() error {
	if c.CorpusDir == "" {
		return fmt.Errorf("no corpus directory provided")
	}
	if c.DatasetFile == "" {
		return fmt.Errorf("no dataset file provided")
	}
	if c.Language == "" {
		return fmt.Errorf("no target language provided")
	}
	return nil
}
