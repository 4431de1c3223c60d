// Package app contains the preparation pipeline of lyricmood: it walks the
// song corpus, categorizes every song into a mood bucket, writes the dataset
// and builds the per-bucket search indexes. CLI concerns live in cmd/lyricmood.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chriscorrea/lyricmood/internal/bm25"
	"github.com/chriscorrea/lyricmood/internal/corpus"
	"github.com/chriscorrea/lyricmood/internal/dataset"
	"github.com/chriscorrea/lyricmood/internal/mood"
	"github.com/chriscorrea/lyricmood/internal/progress"
	"github.com/chriscorrea/lyricmood/internal/runlog"
	"github.com/chriscorrea/lyricmood/internal/sentiment"
)

// Report summarizes one preparation run.
type Report struct {
	Started     time.Time
	Finished    time.Time
	Scanned     int // regular files found under the corpus root
	Scope       sentiment.Scope
	Categorized int
	Histogram   mood.Histogram

	Failed     []*FileError
	NonEnglish []runlog.Rejection
	Short      []string

	DatasetFile string // set once the dataset is written
	LogFile     string // set once the run log is written
}

// Processed returns the number of song files that reached an outcome.
func (r Report) Processed() int {
	return r.Categorized + len(r.Failed) + len(r.NonEnglish) + len(r.Short)
}

func (r *Report) record(out Outcome) {
	switch out.Kind {
	case Categorized:
		r.Categorized++
		r.Histogram.Add(out.Song.Sentiment)
	case RejectedShort:
		r.Short = append(r.Short, out.Path)
	case RejectedLanguage:
		r.NonEnglish = append(r.NonEnglish, runlog.Rejection{Path: out.Path, Language: out.Language})
	case Failed:
		r.Failed = append(r.Failed, out.Err)
	}
}

// Summary converts the report into a run log summary.
func (r Report) Summary() runlog.Summary {
	failedPaths := make([]string, len(r.Failed))
	for i, fe := range r.Failed {
		failedPaths[i] = fe.Path
	}

	return runlog.Summary{
		Started:     r.Started,
		Finished:    r.Finished,
		Scanned:     r.Scanned,
		Scope:       r.Scope.String(),
		Histogram:   r.Histogram,
		FailedPaths: failedPaths,
		NonEnglish:  r.NonEnglish,
		ShortPaths:  r.Short,
	}
}

// WriteSummary prints the results block shown at the end of a run.
func (r Report) WriteSummary(w io.Writer) {
	fmt.Fprintln(w, "Results:")
	fmt.Fprintf(w, " --- Songs analyzed (total): %d\n", r.Processed())
	fmt.Fprintf(w, " --- Successes.............: %d\n", r.Categorized)
	fmt.Fprintf(w, " --- Non-English*..........: %d\n", len(r.NonEnglish))
	fmt.Fprintf(w, " --- Short lyrics*.........: %d\n", len(r.Short))
	fmt.Fprintf(w, " --- Failures*.............: %d\n", len(r.Failed))
	fmt.Fprintln(w, " --- Songs in each category:")
	for _, b := range mood.All {
		fmt.Fprintf(w, "           %d-%-15s: %d\n", int(b), b.String(), r.Histogram.Get(b))
	}
	if r.LogFile != "" {
		fmt.Fprintf(w, "   * Check the log file %s for the list of songs\n", r.LogFile)
	}
}

// Run prepares the dataset and then builds the search indexes from it.
func Run(ctx context.Context, cfg Config, opts ...Option) (Report, error) {
	report, err := Prepare(ctx, cfg, opts...)
	if report.DatasetFile == "" {
		return report, err
	}

	// indexes depend on the dataset only
	_, indexErr := BuildIndexes(ctx, cfg)
	return report, errors.Join(err, indexErr)
}

// Prepare categorizes every song under cfg.CorpusDir and writes the dataset
// and the run log. Per-file failures are counted and never stop the batch.
// Write failures are returned, joined, after the batch completes.
//
// ctx is checked between files; a cancelled run writes nothing.
func Prepare(ctx context.Context, cfg Config, opts ...Option) (Report, error) {
	report := Report{Scope: cfg.Scope}
	if err := cfg.validate(); err != nil {
		return report, err
	}

	out := statusWriter(cfg.Quiet)
	fmt.Fprintf(out, "Starting song sentiment analysis on %s with scope %s\n", cfg.CorpusDir, cfg.Scope)

	total, err := corpus.Count(cfg.CorpusDir)
	if err != nil {
		return report, err
	}
	report.Scanned = total
	fmt.Fprintf(out, "Songs detected: %d\n", total)

	categorizer := NewCategorizer(cfg, opts...)
	reporter := progress.NewReporter(out, total)

	var songs []dataset.Song
	report.Started = time.Now()
	err = corpus.Walk(cfg.CorpusDir, func(entry corpus.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		outcome := categorizer.Process(entry)
		if outcome.Kind == Failed {
			slog.Error("Song processing failed", "path", entry.Path, "kind", outcome.Err.Kind, "error", outcome.Err.Err)
		}
		if outcome.Kind == Categorized {
			songs = append(songs, outcome.Song)
		}
		report.record(outcome)
		reporter.Advance()
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return report, fmt.Errorf("preparation interrupted after %d songs: %w", reporter.Done(), err)
		}
		return report, err
	}
	reporter.Finish()
	report.Finished = time.Now()

	var errs []error
	if err := dataset.Save(cfg.DatasetFile, songs); err != nil {
		errs = append(errs, err)
	} else {
		report.DatasetFile = cfg.DatasetFile
		fmt.Fprintf(out, "Songs were categorized on %s\n", cfg.DatasetFile)
	}

	if cfg.LogDir != "" {
		logFile, err := runlog.Save(cfg.LogDir, report.Summary())
		if err != nil {
			errs = append(errs, err)
		} else {
			report.LogFile = logFile
		}
	}

	slog.Debug("Preparation finished", "categorized", report.Categorized, "failed", len(report.Failed),
		"short", len(report.Short), "nonEnglish", len(report.NonEnglish))
	return report, errors.Join(errs...)
}

// BuildIndexes loads the dataset and writes one BM25 index per mood bucket.
func BuildIndexes(ctx context.Context, cfg Config) (*bm25.Store, error) {
	if cfg.IndexFile == "" {
		return nil, fmt.Errorf("no index file provided")
	}

	songs, err := dataset.Load(cfg.DatasetFile)
	if err != nil {
		return nil, err
	}

	spin := progress.NewSpinner(ctx, statusWriter(cfg.Quiet), "Creating indexes for text retrieval...")
	spin.Start()
	store := bm25.Build(songs, cfg.Index)
	spin.Stop()

	if err := store.Save(cfg.IndexFile); err != nil {
		return nil, err
	}

	slog.Debug("Indexes created", "songs", len(songs), "path", cfg.IndexFile)
	return store, nil
}

// statusWriter returns where user-facing status lines go.
func statusWriter(quiet bool) io.Writer {
	if quiet {
		return io.Discard
	}
	return os.Stderr
}
