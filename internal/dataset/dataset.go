// Package dataset persists categorized songs as a flat CSV table with the
// columns title, artist, lyrics and sentiment.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/chriscorrea/lyricmood/internal/mood"
)

// Header is the first row of every dataset file.
var Header = []string{"title", "artist", "lyrics", "sentiment"}

// ErrMalformed is returned when a dataset file does not match the expected layout.
var ErrMalformed = errors.New("malformed dataset")

// Song is one categorized song.
type Song struct {
	Title     string
	Artist    string
	Lyrics    string // metadata-stripped original lyrics
	Sentiment mood.Bucket
}

// Write encodes songs as CSV, header first, in the given order.
func Write(w io.Writer, songs []Song) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range songs {
		row := []string{s.Title, s.Artist, s.Lyrics, strconv.Itoa(int(s.Sentiment))}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read decodes a dataset written by Write.
func Read(r io.Reader) ([]Song, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrMalformed, i+1, header[i], col)
		}
	}

	var songs []Song
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		bucket, err := mood.Parse(row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, line, err)
		}
		songs = append(songs, Song{Title: row[0], Artist: row[1], Lyrics: row[2], Sentiment: bucket})
	}

	slog.Debug("Dataset read", "songs", len(songs))
	return songs, nil
}

// Save writes songs to path, replacing any existing file.
func Save(path string, songs []Song) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file %q: %w", path, err)
	}

	if err := Write(f, songs); err != nil {
		f.Close()
		return fmt.Errorf("failed to write dataset file %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close dataset file %q: %w", path, err)
	}

	slog.Debug("Dataset saved", "path", path, "songs", len(songs))
	return nil
}

// Load reads the dataset at path.
func Load(path string) ([]Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %q: %w", path, err)
	}
	defer f.Close()

	songs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %q: %w", path, err)
	}
	return songs, nil
}

// ByMood returns the songs in bucket b, preserving dataset order.
func ByMood(songs []Song, b mood.Bucket) []Song {
	var out []Song
	for _, s := range songs {
		if s.Sentiment == b {
			out = append(out, s)
		}
	}
	return out
}
