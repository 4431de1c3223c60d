package dataset

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/lyricmood/internal/mood"
)

func sampleSongs() []Song {
	return []Song{
		{Title: "Blue Skies", Artist: "A", Lyrics: "blue skies\nsmiling at me\n\nnothing but, \"blue\"", Sentiment: mood.Good},
		{Title: "Grey Clouds", Artist: "B", Lyrics: "grey clouds", Sentiment: mood.Bad},
		{Title: "Plain", Artist: "C", Lyrics: "", Sentiment: mood.Neutral},
	}
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleSongs()); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "title,artist,lyrics,sentiment\n") {
		t.Errorf("Write() output missing header: %q", buf.String())
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}

	want := sampleSongs()
	if len(got) != len(want) {
		t.Fatalf("Read() returned %d songs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("song %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRead_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"wrong header", "name,artist,lyrics,sentiment\n"},
		{"missing column", "title,artist,lyrics,sentiment\nA,B,C\n"},
		{"sentiment out of range", "title,artist,lyrics,sentiment\nA,B,C,7\n"},
		{"sentiment not a number", "title,artist,lyrics,sentiment\nA,B,C,happy\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Read() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "music.csv")

	if err := Save(path, sampleSongs()); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].Title != "Blue Skies" {
		t.Errorf("Load() = %+v", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Load() expected error for missing file")
	}
	if err := Save(filepath.Join(t.TempDir(), "no", "such", "dir.csv"), nil); err == nil {
		t.Error("Save() expected error for missing directory")
	}
}

func TestByMood(t *testing.T) {
	songs := append(sampleSongs(), Song{Title: "Sunny", Artist: "D", Sentiment: mood.Good})

	got := ByMood(songs, mood.Good)
	if len(got) != 2 || got[0].Title != "Blue Skies" || got[1].Title != "Sunny" {
		t.Errorf("ByMood(Good) = %+v", got)
	}
	if got := ByMood(songs, mood.VeryBad); len(got) != 0 {
		t.Errorf("ByMood(VeryBad) = %+v, want empty", got)
	}
}
