// Package counter provides text counting functionality for the lyricmood pipeline.
//
// Lyrics are filtered by length before any sentiment work happens, so the
// pipeline needs a single, predictable notion of "how long is this text".
// Words are counted by whitespace splitting, the measure the 24-word
// minimum was calibrated with.
//
// Usage Example:
//
//	c := counter.NewWordCounter()
//	if c.Count(lyrics) < 24 {
//		// too short to categorize
//	}
package counter

// Counter defines the interface for text counting strategies.
type Counter interface {
	// Count returns the number of units in the given text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// AtLeast reports whether text holds at least min units according to c.
func AtLeast(c Counter, text string, min int) bool {
	return c.Count(text) >= min
}
