package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/lyricmood/internal/bm25"
	"github.com/chriscorrea/lyricmood/internal/dataset"
	"github.com/chriscorrea/lyricmood/internal/mood"
)

func writeSong(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// setupCorpus builds a small corpus and a Config writing into a temp dir.
func setupCorpus(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "database_source")

	writeSong(t, root, "b/Beatles/Abbey Road/Here Comes the Sun", words("sun happy", 15))
	writeSong(t, root, "b/Beatles/Abbey Road/Short", words("happy", 3))
	writeSong(t, root, "g/Gardel/Tangos/Volver", words("corazón", 30))
	writeSong(t, root, "r/Rihanna/Loud/Umbrella", words("rain", 30))
	writeSong(t, root, "r/Rihanna/Loud/Broken", "\xff\xfe"+words("rain", 30))

	cfg := testConfig()
	cfg.CorpusDir = root
	cfg.DatasetFile = filepath.Join(dir, "music.csv")
	cfg.IndexFile = filepath.Join(dir, "bm25.json")
	cfg.LogDir = filepath.Join(dir, "logs")
	return cfg
}

func testOptions() []Option {
	return []Option{WithDetector(keywordDetector{}), WithPolarity(&keywordPolarity{})}
}

func TestPrepare(t *testing.T) {
	cfg := setupCorpus(t)

	report, err := Prepare(context.Background(), cfg, testOptions()...)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if report.Scanned != 5 {
		t.Errorf("Scanned = %d, want 5", report.Scanned)
	}
	if report.Processed() != 5 {
		t.Errorf("Processed() = %d, want 5", report.Processed())
	}
	if report.Categorized != 2 {
		t.Errorf("Categorized = %d, want 2", report.Categorized)
	}
	if len(report.Short) != 1 || !strings.HasSuffix(report.Short[0], "Short") {
		t.Errorf("Short = %v, want the Short song", report.Short)
	}
	if len(report.NonEnglish) != 1 || report.NonEnglish[0].Language != "es" {
		t.Errorf("NonEnglish = %v, want Volver as es", report.NonEnglish)
	}
	if len(report.Failed) != 1 || report.Failed[0].Kind != EncodingFailure {
		t.Errorf("Failed = %v, want one encoding failure", report.Failed)
	}
	if report.Histogram.Get(mood.VeryGood) != 1 || report.Histogram.Get(mood.Bad) != 1 {
		t.Errorf("Histogram = %v, want one very good and one bad", report.Histogram)
	}

	songs, err := dataset.Load(cfg.DatasetFile)
	if err != nil {
		t.Fatalf("dataset.Load() error = %v", err)
	}
	want := []dataset.Song{
		{Title: "Here Comes the Sun", Artist: "Beatles", Lyrics: words("sun happy", 15), Sentiment: mood.VeryGood},
		{Title: "Umbrella", Artist: "Rihanna", Lyrics: words("rain", 30), Sentiment: mood.Bad},
	}
	if len(songs) != len(want) {
		t.Fatalf("dataset has %d songs, want %d", len(songs), len(want))
	}
	for i := range want {
		if songs[i] != want[i] {
			t.Errorf("song %d = %+v, want %+v", i, songs[i], want[i])
		}
	}

	if report.LogFile == "" {
		t.Fatal("LogFile not set")
	}
	logData, err := os.ReadFile(report.LogFile)
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	if !strings.Contains(string(logData), "(es): ") {
		t.Errorf("run log missing non-English entry:\n%s", logData)
	}
}

func TestPrepare_Cancelled(t *testing.T) {
	cfg := setupCorpus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Prepare(ctx, cfg, testOptions()...)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Prepare() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(cfg.DatasetFile); !os.IsNotExist(err) {
		t.Error("dataset should not be written for a cancelled run")
	}
}

func TestPrepare_MissingCorpus(t *testing.T) {
	cfg := testConfig()
	cfg.CorpusDir = filepath.Join(t.TempDir(), "missing")

	if _, err := Prepare(context.Background(), cfg, testOptions()...); err == nil {
		t.Error("Prepare() expected error for missing corpus")
	}
}

func TestPrepare_DatasetWriteFailure(t *testing.T) {
	cfg := setupCorpus(t)
	cfg.DatasetFile = filepath.Join(t.TempDir(), "no-such-dir", "music.csv")

	report, err := Prepare(context.Background(), cfg, testOptions()...)
	if err == nil {
		t.Fatal("Prepare() expected dataset write error")
	}
	if report.Categorized != 2 {
		t.Errorf("Categorized = %d, want 2 despite write failure", report.Categorized)
	}
	if report.DatasetFile != "" {
		t.Errorf("DatasetFile = %q, want empty", report.DatasetFile)
	}
	if report.LogFile == "" {
		t.Error("run log should still be written")
	}
}

func TestRun(t *testing.T) {
	cfg := setupCorpus(t)

	if _, err := Run(context.Background(), cfg, testOptions()...); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	store, err := bm25.Load(cfg.IndexFile)
	if err != nil {
		t.Fatalf("bm25.Load() error = %v", err)
	}
	idx, _ := store.Index(mood.VeryGood)
	results := idx.TopN([]string{"sun"}, 10)
	if len(results) != 1 || results[0].Title != "Here Comes the Sun" {
		t.Errorf("TopN(sun) = %v, want Here Comes the Sun", results)
	}
}

func TestRun_LogWriteFailure(t *testing.T) {
	cfg := setupCorpus(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.LogDir = filepath.Join(blocker, "logs")

	report, err := Run(context.Background(), cfg, testOptions()...)
	if err == nil {
		t.Fatal("Run() expected error for unwritable log directory")
	}
	if report.LogFile != "" {
		t.Errorf("LogFile = %q, want empty", report.LogFile)
	}
	if report.DatasetFile != cfg.DatasetFile {
		t.Errorf("DatasetFile = %q, want %q", report.DatasetFile, cfg.DatasetFile)
	}

	store, err := bm25.Load(cfg.IndexFile)
	if err != nil {
		t.Fatalf("indexes not built after log failure: %v", err)
	}
	idx, _ := store.Index(mood.VeryGood)
	if results := idx.TopN([]string{"sun"}, 10); len(results) != 1 {
		t.Errorf("TopN(sun) returned %d results, want 1", len(results))
	}
}

func TestBuildIndexes_MissingDataset(t *testing.T) {
	cfg := testConfig()
	cfg.DatasetFile = filepath.Join(t.TempDir(), "missing.csv")
	cfg.IndexFile = filepath.Join(t.TempDir(), "bm25.json")

	if _, err := BuildIndexes(context.Background(), cfg); err == nil {
		t.Error("BuildIndexes() expected error for missing dataset")
	}
}

func TestReport_WriteSummary(t *testing.T) {
	var r Report
	r.record(Outcome{Kind: Categorized, Song: dataset.Song{Sentiment: mood.Neutral}})
	r.record(Outcome{Kind: RejectedShort, Path: "short"})
	r.record(Outcome{Kind: Failed, Path: "bad", Err: &FileError{Kind: IOFailure, Path: "bad"}})

	var buf bytes.Buffer
	r.WriteSummary(&buf)
	out := buf.String()

	for _, want := range []string{
		"Songs analyzed (total): 3",
		"Successes.............: 1",
		"Short lyrics*.........: 1",
		"Failures*.............: 1",
		"3-Neutral        : 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}

	if got := r.Summary().FailedPaths; len(got) != 1 || got[0] != "bad" {
		t.Errorf("Summary().FailedPaths = %v, want [bad]", got)
	}
}
