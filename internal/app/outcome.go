package app

import (
	"fmt"

	"github.com/chriscorrea/lyricmood/internal/dataset"
)

// FailureKind classifies why a song file could not be processed.
type FailureKind int

const (
	// the file could not be read
	IOFailure FailureKind = iota
	// the file is not valid UTF-8
	EncodingFailure
	// tokenization or sentiment scoring failed
	ScoringFailure
)

// String returns the string representation of the failure kind
func (k FailureKind) String() string {
	switch k {
	case IOFailure:
		return "io"
	case EncodingFailure:
		return "encoding"
	case ScoringFailure:
		return "scoring"
	default:
		return "unknown"
	}
}

// FileError reports a song file that failed processing.
type FileError struct {
	Kind FailureKind
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s failure on %q: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// OutcomeKind tells which variant an Outcome holds.
type OutcomeKind int

const (
	// the song was categorized
	Categorized OutcomeKind = iota
	// the lyrics have too few words
	RejectedShort
	// the lyrics are not in the target language
	RejectedLanguage
	// processing failed
	Failed
)

// String returns the string representation of the outcome kind
func (k OutcomeKind) String() string {
	switch k {
	case Categorized:
		return "categorized"
	case RejectedShort:
		return "short"
	case RejectedLanguage:
		return "non-english"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one song file. Only the fields of the
// variant named by Kind are set.
type Outcome struct {
	Kind     OutcomeKind
	Path     string
	Song     dataset.Song // Categorized
	Language string       // RejectedLanguage: detected language
	Err      *FileError   // Failed
}

func failed(path string, kind FailureKind, err error) Outcome {
	return Outcome{
		Kind: Failed,
		Path: path,
		Err:  &FileError{Kind: kind, Path: path, Err: err},
	}
}
