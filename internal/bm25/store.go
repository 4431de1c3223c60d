package bm25

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	"github.com/chriscorrea/lyricmood/internal/dataset"
	"github.com/chriscorrea/lyricmood/internal/mood"
)

// storeVersion is bumped whenever the serialized layout changes.
const storeVersion = 1

// ErrIncompatibleStore is returned when an index file was written by an
// incompatible version or is missing buckets.
var ErrIncompatibleStore = errors.New("incompatible index store")

// Options control how indexes are built.
type Options struct {
	Params Params
	Stem   bool // stem corpus and query tokens with the snowball English stemmer
}

// DefaultOptions returns Okapi defaults without stemming.
func DefaultOptions() Options {
	return Options{Params: DefaultParams()}
}

// Store holds one index per mood bucket.
type Store struct {
	Version int                    `json:"version"`
	Indexes map[mood.Bucket]*Index `json:"indexes"`
}

// Build groups songs by bucket and indexes the tokenized title and lyrics of
// each song. Every bucket gets an index, possibly empty.
func Build(songs []dataset.Song, opts Options) *Store {
	store := &Store{
		Version: storeVersion,
		Indexes: make(map[mood.Bucket]*Index, mood.Count),
	}

	for _, b := range mood.All {
		bucketSongs := dataset.ByMood(songs, b)
		titles := make([]string, len(bucketSongs))
		docs := make([][]string, len(bucketSongs))

		for i, song := range bucketSongs {
			titles[i] = song.Title
			docs[i] = DocumentTokens(song, opts.Stem)
		}

		idx := NewIndex(titles, docs, opts.Params)
		idx.Stemmed = opts.Stem
		store.Indexes[b] = idx

		slog.Debug("Bucket indexed", "bucket", int(b), "songs", len(bucketSongs))
	}

	return store
}

// DocumentTokens returns the index tokens for a song: its title followed by its lyrics.
func DocumentTokens(song dataset.Song, stem bool) []string {
	tokens := Tokenize(song.Title + "\n" + song.Lyrics)
	if stem {
		for i, token := range tokens {
			tokens[i] = Stem(token)
		}
	}
	return tokens
}

// Index returns the index for bucket b.
func (s *Store) Index(b mood.Bucket) (*Index, bool) {
	idx, ok := s.Indexes[b]
	return idx, ok
}

// Save serializes all indexes into a single file at path.
func (s *Store) Save(path string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode index store: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index store %q: %w", path, err)
	}

	slog.Debug("Index store saved", "path", path, "bytes", len(data))
	return nil
}

// Load reads an index store written by Save.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index store %q: %w", path, err)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to decode index store %q: %w", path, err)
	}
	if store.Version != storeVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrIncompatibleStore, store.Version, storeVersion)
	}
	for _, b := range mood.All {
		if idx, ok := store.Indexes[b]; !ok || idx == nil {
			return nil, fmt.Errorf("%w: bucket %d missing", ErrIncompatibleStore, b)
		}
	}

	return &store, nil
}
