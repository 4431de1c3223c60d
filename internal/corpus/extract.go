package corpus

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ErrExtract is returned when lyric text cannot be recovered from an HTML page.
var ErrExtract = errors.New("failed to extract lyrics")

// ExtractLyrics pulls lyric text out of an HTML page. With a CSS selector the
// matching elements are used; otherwise go-readability picks the main content.
// Line breaks (<br>) and paragraphs (<p>) become newlines and blank lines so
// verse structure survives.
func ExtractLyrics(content io.Reader, selector string) (string, error) {
	if selector != "" {
		return extractWithSelector(content, selector)
	}
	return extractMainContent(content)
}

// extractWithSelector uses a CSS selector to extract specific content
func extractWithSelector(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse HTML: %v", ErrExtract, err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("%w: no elements found matching selector %s", ErrExtract, selector)
	}

	var parts []string
	selection.Each(func(i int, s *goquery.Selection) {
		if text := selectionText(s); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, "\n\n"), nil
}

// extractMainContent uses go-readability to locate the lyric body and drops
// the credit and licensing paragraphs it tends to keep
func extractMainContent(content io.Reader) (string, error) {
	article, err := readability.FromReader(content, &url.URL{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse article HTML: %v", ErrExtract, err)
	}

	text := dropBoilerplate(selectionText(doc.Selection))
	if text == "" {
		return "", fmt.Errorf("%w: page has no readable content", ErrExtract)
	}
	return text, nil
}

// selectionText renders a selection as plain text with line structure kept.
func selectionText(s *goquery.Selection) string {
	s.Find("br").ReplaceWithHtml("\n")
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		p.AppendHtml("\n\n")
	})

	var lines []string
	blank := 0
	for _, line := range strings.Split(s.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank++
			continue
		}
		if blank > 0 && len(lines) > 0 {
			lines = append(lines, "")
		}
		blank = 0
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
