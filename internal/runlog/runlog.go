// Package runlog writes the plain-text summary of a categorization run.
//
// One file is written per run, named after the minute the run finished:
//
//	<dir>/sentiment-analysis-YYYYMMDD_HHMM
//
// The file lists the run timings and counts, then every failed, non-English
// and short file so that the corpus can be cleaned up by hand.
package runlog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chriscorrea/lyricmood/internal/mood"
)

// filePrefix is prepended to the timestamp in every log file name.
const filePrefix = "sentiment-analysis-"

// Rejection is a file skipped because its lyrics are not in the target language.
type Rejection struct {
	Path     string
	Language string // detected ISO 639-1 code
}

// Summary holds everything recorded about one run.
type Summary struct {
	Started   time.Time
	Finished  time.Time
	Scanned   int // files counted before the run started
	Scope     string
	Histogram mood.Histogram // songs categorized per bucket

	FailedPaths []string
	NonEnglish  []Rejection
	ShortPaths  []string
}

// Elapsed returns the wall-clock duration of the run.
func (s Summary) Elapsed() time.Duration {
	return s.Finished.Sub(s.Started)
}

// FileName returns the log file path for a run finished at t.
func FileName(dir string, t time.Time) string {
	return filepath.Join(dir, filePrefix+t.Format("20060102_1504"))
}

// Save writes s to a new file in dir, creating dir when needed, and returns its path.
func Save(dir string, s Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}

	path := FileName(dir, s.Finished)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create log file %q: %w", path, err)
	}

	if err := Write(f, s); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write log file %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close log file %q: %w", path, err)
	}

	slog.Debug("Run log written", "path", path)
	return path, nil
}

// Write renders s as text.
func Write(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)
	elapsed := s.Elapsed().Seconds()

	fmt.Fprintf(bw, "Started running.....: %s\n", s.Started.Format(time.ANSIC))
	fmt.Fprintf(bw, "Finished running....: %s\n", s.Finished.Format(time.ANSIC))
	fmt.Fprintf(bw, "Elapsed time........: %.2f seconds (about %.1f minutes).\n", elapsed, elapsed/60)
	fmt.Fprintf(bw, "Total songs scanned.: %d\n", s.Scanned)
	fmt.Fprintf(bw, "Scope...............: %s\n", s.Scope)
	fmt.Fprintf(bw, "Songs categorized...: %d\n", s.Histogram.Total())
	fmt.Fprintf(bw, "Short lyric files...: %d\n", len(s.ShortPaths))
	fmt.Fprintf(bw, "Non-english songs...: %d\n", len(s.NonEnglish))
	fmt.Fprintf(bw, "Songs failed........: %d\n", len(s.FailedPaths))
	fmt.Fprintln(bw, "Songs per category..:")
	for _, b := range mood.All {
		fmt.Fprintf(bw, " --- %d-%-15s: %d\n", int(b), b.String(), s.Histogram.Get(b))
	}

	if len(s.FailedPaths) == 0 {
		fmt.Fprintln(bw, "failedSongs: No failures occurred processing songs")
	} else {
		fmt.Fprintln(bw, "List of failed songs:")
		for _, path := range s.FailedPaths {
			fmt.Fprintf(bw, " --- %s\n", path)
		}
	}

	if len(s.NonEnglish) == 0 {
		fmt.Fprintln(bw, "nonEnglishSongs: No non-English songs were found")
	} else {
		fmt.Fprintln(bw, "List of Non-english songs:")
		for _, r := range s.NonEnglish {
			fmt.Fprintf(bw, " --- (%s): %s\n", r.Language, r.Path)
		}
	}

	if len(s.ShortPaths) == 0 {
		fmt.Fprintln(bw, "shortLyrics: No songs with short lyrics were found")
	} else {
		fmt.Fprintln(bw, "List of short lyrics on song files:")
		for _, path := range s.ShortPaths {
			fmt.Fprintf(bw, " --- %s\n", path)
		}
	}

	return bw.Flush()
}
