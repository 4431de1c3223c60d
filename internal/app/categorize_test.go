package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/chriscorrea/lyricmood/internal/bm25"
	"github.com/chriscorrea/lyricmood/internal/corpus"
	"github.com/chriscorrea/lyricmood/internal/mood"
	"github.com/chriscorrea/lyricmood/internal/sentiment"
)

// keywordDetector reports Spanish for texts containing "corazón" and English otherwise.
type keywordDetector struct{}

func (keywordDetector) Detect(text string) string {
	if strings.Contains(text, "corazón") {
		return "es"
	}
	return "en"
}

// keywordPolarity scores texts by the presence of a few words and counts calls.
type keywordPolarity struct {
	calls int
	panic bool
}

func (p *keywordPolarity) Compound(text string) float64 {
	p.calls++
	if p.panic {
		panic("lexicon exploded")
	}
	switch {
	case strings.Contains(text, "happy"):
		return 0.9
	case strings.Contains(text, "rain"):
		return -0.4
	default:
		return 0
	}
}

func words(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func testConfig() Config {
	return Config{
		CorpusDir:   "corpus",
		DatasetFile: "music.csv",
		IndexFile:   "bm25.json",
		Scope:       sentiment.Full,
		MinWords:    24,
		Language:    "en",
		Index:       bm25.DefaultOptions(),
		Quiet:       true,
	}
}

func newTestCategorizer(files map[string]string, polarity *keywordPolarity) *Categorizer {
	reader := func(path, selector string) (string, error) {
		content, ok := files[path]
		if !ok {
			return "", errors.New("no such file")
		}
		return content, nil
	}
	return NewCategorizer(testConfig(),
		WithReader(reader),
		WithDetector(keywordDetector{}),
		WithPolarity(polarity),
	)
}

func TestCategorizer_Process(t *testing.T) {
	files := map[string]string{
		"short":    words("happy", 23),
		"enough":   words("happy", 24),
		"spanish":  words("corazón", 30),
		"rainy":    "  " + words("rain", 30) + "\n\n",
		"metadata": words("happy", 24) + "\n________________\nLyrics licensed by someone\n",
		"binary":   "\xff\xfe" + words("happy", 30),
	}

	tests := []struct {
		name       string
		path       string
		wantKind   OutcomeKind
		wantBucket mood.Bucket
		wantLang   string
		wantFail   FailureKind
	}{
		{"23 words is short", "short", RejectedShort, 0, "", 0},
		{"24 words is categorized", "enough", Categorized, mood.VeryGood, "", 0},
		{"other language", "spanish", RejectedLanguage, 0, "es", 0},
		{"negative lyrics", "rainy", Categorized, mood.Bad, "", 0},
		{"metadata stripped", "metadata", Categorized, mood.VeryGood, "", 0},
		{"invalid utf-8", "binary", Failed, 0, "", EncodingFailure},
		{"unreadable", "missing", Failed, 0, "", IOFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCategorizer(files, &keywordPolarity{})
			entry := corpus.Entry{Path: tt.path, Artist: "Artist", Album: "Album", Title: "Title"}

			out := c.Process(entry)
			if out.Kind != tt.wantKind {
				t.Fatalf("Process() kind = %v, want %v", out.Kind, tt.wantKind)
			}
			if out.Path != tt.path {
				t.Errorf("Process() path = %q, want %q", out.Path, tt.path)
			}

			switch tt.wantKind {
			case Categorized:
				if out.Song.Sentiment != tt.wantBucket {
					t.Errorf("Sentiment = %v, want %v", out.Song.Sentiment, tt.wantBucket)
				}
				if out.Song.Title != "Title" || out.Song.Artist != "Artist" {
					t.Errorf("Song = %+v, want title and artist from the entry", out.Song)
				}
			case RejectedLanguage:
				if out.Language != tt.wantLang {
					t.Errorf("Language = %q, want %q", out.Language, tt.wantLang)
				}
			case Failed:
				if out.Err == nil {
					t.Fatal("Err = nil, want FileError")
				}
				if out.Err.Kind != tt.wantFail {
					t.Errorf("Err.Kind = %v, want %v", out.Err.Kind, tt.wantFail)
				}
			}
		})
	}
}

func TestCategorizer_LyricsKeepOriginalText(t *testing.T) {
	lyrics := words("I am so happy", 8)
	files := map[string]string{
		"song": lyrics + "\n____\nmetadata that must go",
	}
	c := newTestCategorizer(files, &keywordPolarity{})

	out := c.Process(corpus.Entry{Path: "song", Title: "Song"})
	if out.Kind != Categorized {
		t.Fatalf("Process() kind = %v, want categorized", out.Kind)
	}
	// stopwords are removed for scoring only
	if out.Song.Lyrics != lyrics {
		t.Errorf("Lyrics = %q, want %q", out.Song.Lyrics, lyrics)
	}
}

func TestCategorizer_NoScoringWhenRejected(t *testing.T) {
	files := map[string]string{
		"short":   words("happy", 5),
		"spanish": words("corazón", 30),
	}
	polarity := &keywordPolarity{}
	c := newTestCategorizer(files, polarity)

	c.Process(corpus.Entry{Path: "short"})
	c.Process(corpus.Entry{Path: "spanish"})

	if polarity.calls != 0 {
		t.Errorf("polarity called %d times for rejected songs, want 0", polarity.calls)
	}
}

func TestCategorizer_ScoringPanic(t *testing.T) {
	files := map[string]string{"song": words("happy", 30)}
	c := newTestCategorizer(files, &keywordPolarity{panic: true})

	out := c.Process(corpus.Entry{Path: "song"})
	if out.Kind != Failed {
		t.Fatalf("Process() kind = %v, want failed", out.Kind)
	}
	if out.Err.Kind != ScoringFailure {
		t.Errorf("Err.Kind = %v, want %v", out.Err.Kind, ScoringFailure)
	}
	if !strings.Contains(out.Err.Error(), "lexicon exploded") {
		t.Errorf("Err = %v, want panic value in message", out.Err)
	}
}

func TestFileError(t *testing.T) {
	cause := errors.New("permission denied")
	err := error(&FileError{Kind: IOFailure, Path: "a/b/c/song", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}

	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatal("errors.As() should find the FileError")
	}
	if fe.Kind != IOFailure {
		t.Errorf("Kind = %v, want %v", fe.Kind, IOFailure)
	}
	if !strings.Contains(err.Error(), `io failure on "a/b/c/song"`) {
		t.Errorf("Error() = %q", err.Error())
	}
}
