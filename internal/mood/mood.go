// Package mood maps compound sentiment scores onto five ordered mood buckets.
package mood

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidBucket is returned when a value is outside 1..5.
var ErrInvalidBucket = errors.New("mood must be between 1 and 5")

// Bucket is one of five ordered mood categories.
type Bucket int

const (
	VeryBad Bucket = iota + 1
	Bad
	Neutral
	Good
	VeryGood
)

// Count is the number of buckets.
const Count = 5

// All lists the buckets in ascending order.
var All = []Bucket{VeryBad, Bad, Neutral, Good, VeryGood}

// FromCompound maps a compound score in [-1, 1] to its bucket:
//
//	score < -0.6          → VeryBad
//	-0.6 <= score < -0.2  → Bad
//	-0.2 <= score <= 0.2  → Neutral
//	0.2 < score <= 0.6    → Good
//	score > 0.6           → VeryGood
func FromCompound(score float64) Bucket {
	switch {
	case score < -0.6:
		return VeryBad
	case score < -0.2:
		return Bad
	case score <= 0.2:
		return Neutral
	case score <= 0.6:
		return Good
	default:
		return VeryGood
	}
}

// Valid reports whether b is one of the five buckets.
func (b Bucket) Valid() bool {
	return b >= VeryBad && b <= VeryGood
}

// String returns the category name used in run summaries.
func (b Bucket) String() string {
	switch b {
	case VeryBad:
		return "Very bad"
	case Bad:
		return "Bad"
	case Neutral:
		return "Neutral"
	case Good:
		return "Good"
	case VeryGood:
		return "Very good"
	default:
		return "Unknown"
	}
}

// Label returns the listener-facing mood word for the bucket.
func (b Bucket) Label() string {
	switch b {
	case VeryBad:
		return "very sad"
	case Bad:
		return "sad"
	case Neutral:
		return "neutral"
	case Good:
		return "happy"
	case VeryGood:
		return "very happy"
	default:
		return "unknown"
	}
}

// Parse converts a string such as "3" into a Bucket.
func Parse(s string) (Bucket, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidBucket, s)
	}
	b := Bucket(n)
	if !b.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidBucket, n)
	}
	return b, nil
}

// Histogram counts songs per bucket.
type Histogram [Count]int

// Add records one song in bucket b. Invalid buckets are ignored.
func (h *Histogram) Add(b Bucket) {
	if b.Valid() {
		h[b-1]++
	}
}

// Get returns the count for bucket b.
func (h Histogram) Get(b Bucket) int {
	if !b.Valid() {
		return 0
	}
	return h[b-1]
}

// Total returns the number of songs across all buckets.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}
