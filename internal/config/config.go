// Package config loads the lyricmood YAML configuration file.
//
// Every field has a default, so a missing file or a partial file is valid.
// Command-line flags are applied on top of the loaded values by the CLI.
//
// Example file:
//
//	corpus: database_source
//	dataset: music.csv
//	index: bm25.json
//	log_dir: logs
//	scope: verse
//	min_words: 24
//	language: en
//	stem: false
//	ranker: okapi
//	results: 10
//	bm25:
//	  k1: 1.5
//	  b: 0.75
//	  epsilon: 0.25
//	server:
//	  addr: ":8080"
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chriscorrea/lyricmood/internal/sentiment"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// BM25 holds the ranking parameters.
type BM25 struct {
	K1      float64 `yaml:"k1"`
	B       float64 `yaml:"b"`
	Epsilon float64 `yaml:"epsilon"`
}

// Server holds the HTTP transport settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// File mirrors the YAML configuration file.
type File struct {
	Corpus   string `yaml:"corpus"`
	Dataset  string `yaml:"dataset"`
	Index    string `yaml:"index"`
	LogDir   string `yaml:"log_dir"`
	Scope    string `yaml:"scope"`
	MinWords int    `yaml:"min_words"`
	Language string `yaml:"language"`
	Selector string `yaml:"selector"` // CSS selector for lyrics in HTML song files
	Stem     bool   `yaml:"stem"`
	Ranker   string `yaml:"ranker"`
	Results  int    `yaml:"results"`
	BM25     BM25   `yaml:"bm25"`
	Server   Server `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Corpus:   "database_source",
		Dataset:  "music.csv",
		Index:    "bm25.json",
		LogDir:   "logs",
		Scope:    sentiment.DefaultScope.String(),
		MinWords: 24,
		Language: "en",
		Ranker:   "okapi",
		Results:  10,
		BM25:     BM25{K1: 1.5, B: 0.75, Epsilon: 0.25},
		Server:   Server{Addr: ":8080"},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return File{}, err
	}

	slog.Debug("Configuration loaded", "path", path, "scope", cfg.Scope, "ranker", cfg.Ranker)
	return cfg, nil
}

// Validate checks value ranges. An unknown scope yields sentiment.ErrInvalidScope.
func (f File) Validate() error {
	if _, err := sentiment.ParseScope(f.Scope); err != nil {
		return err
	}

	switch {
	case f.MinWords < 0:
		return fmt.Errorf("%w: min_words must not be negative, got %d", ErrInvalid, f.MinWords)
	case f.Language == "":
		return fmt.Errorf("%w: language must not be empty", ErrInvalid)
	case !validRanker(f.Ranker):
		return fmt.Errorf("%w: ranker must be okapi or fielded, got %q", ErrInvalid, f.Ranker)
	case f.Results <= 0:
		return fmt.Errorf("%w: results must be positive, got %d", ErrInvalid, f.Results)
	case f.BM25.K1 < 0 || f.BM25.B < 0 || f.BM25.B > 1 || f.BM25.Epsilon < 0:
		return fmt.Errorf("%w: bm25 parameters out of range (k1=%g b=%g epsilon=%g)", ErrInvalid, f.BM25.K1, f.BM25.B, f.BM25.Epsilon)
	}
	return nil
}

// validRanker accepts ranker names case-insensitively, as the query engine does.
func validRanker(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "okapi", "fielded":
		return true
	default:
		return false
	}
}
