package corpus

import (
	"math"
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// boilerplateStems are stemmed words typical of the credits, licensing and
// sharing blocks that lyric sites wrap around the song text.
var boilerplateStems = map[string]struct{}{
	// credits
	"songwrit":    {},
	"writer":      {},
	"compos":      {},
	"produc":      {},
	"contributor": {},
	"credit":      {},
	"label":       {},
	"releas":      {},
	"album":       {},
	"track":       {},

	// licensing
	"lyric":      {},
	"licens":     {},
	"copyright":  {},
	"reserv":     {},
	"publish":    {},
	"lyricfind":  {},
	"musixmatch": {},
	"polici":     {},
	"privaci":    {},
	"term":       {},
	"cooki":      {},

	// site actions
	"submit":   {},
	"correct":  {},
	"verifi":   {},
	"translat": {},
	"embed":    {},
	"print":    {},
	"share":    {},
	"download": {},
	"ringtone": {},
	"advertis": {},
	"facebook": {},
	"twitter":  {},
	"login":    {},
	"signup":   {},
	"newslett": {},
}

var wordRegex = regexp.MustCompile(`\b[a-zA-Z]+\b`)

// isBoilerplate reports whether the paragraph at index of total looks like
// site chrome rather than lyrics. The tolerated share of boilerplate words is
// lowest at the edges of the page, where credits and footers sit.
func isBoilerplate(paragraph string, index, total int) bool {
	if total <= 0 || index < 0 || index >= total {
		return false
	}

	words := wordRegex.FindAllString(strings.ToLower(paragraph), -1)
	if len(words) == 0 {
		return true
	}

	hits := 0
	for _, word := range words {
		stemmed, err := snowball.Stem(word, "english", true)
		if err != nil {
			stemmed = word
		}
		if _, ok := boilerplateStems[stemmed]; ok {
			hits++
		}
	}

	return float64(hits)/float64(len(words)) > boilerplateThreshold(index, total)
}

// boilerplateThreshold follows an inverted V: 0.1 at the first and last
// paragraph, rising to 0.33 in the middle. Short pages use a flat 0.5.
func boilerplateThreshold(index, total int) float64 {
	if total <= 3 {
		return 0.5
	}

	relative := float64(index) / float64(total-1)
	factor := 1.0 - math.Abs(2.0*relative-1.0)

	const minThreshold, maxThreshold = 0.1, 0.33
	return minThreshold + (maxThreshold-minThreshold)*factor
}

// dropBoilerplate removes boilerplate paragraphs from extracted page text.
func dropBoilerplate(text string) string {
	paragraphs := strings.Split(text, "\n\n")

	kept := make([]string, 0, len(paragraphs))
	for i, p := range paragraphs {
		if !isBoilerplate(p, i, len(paragraphs)) {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
