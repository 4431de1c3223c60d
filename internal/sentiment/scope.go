package sentiment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidScope is returned when a scope name is not one of full, verse or line.
var ErrInvalidScope = errors.New("invalid scope")

// Scope defines the granularity at which sentiment is aggregated.
type Scope int

const (
	// Verse averages the scores of each paragraph, ignoring paragraphs that score exactly 0 (default)
	Verse Scope = iota
	// Full scores the whole text at once
	Full
	// Line averages the scores of each non-blank line
	Line
)

// DefaultScope is used when no scope is configured.
const DefaultScope = Verse

// String returns the string representation of the scope
func (s Scope) String() string {
	switch s {
	case Full:
		return "full"
	case Verse:
		return "verse"
	case Line:
		return "line"
	default:
		return "unknown"
	}
}

// ParseScope converts a scope name into a Scope. An empty name yields DefaultScope.
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultScope, nil
	case "full":
		return Full, nil
	case "verse":
		return Verse, nil
	case "line":
		return Line, nil
	default:
		return DefaultScope, fmt.Errorf("%w: accepted 'full', 'verse' or 'line', provided %q", ErrInvalidScope, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so scopes can be read from config files.
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
