// Package bm25 provides Okapi BM25 lexical ranking over a fixed, tokenized corpus.
//
// An Index pre-calculates term frequencies, document lengths and inverse
// document frequencies once, so that scoring a query only walks the query
// terms. Indexes are never mutated after construction.
//
// The scoring function for a query Q and document D is:
//
//	score(D, Q) = Σ idf(q) · tf(q, D)·(k1 + 1) / (tf(q, D) + k1·(1 − b + b·|D|/avgdl))
//	idf(q)      = ln(N − df(q) + 0.5) − ln(df(q) + 0.5)
//
// Negative idf values (terms in more than half the documents) are floored to
// epsilon times the average idf of the corpus.
//
// Usage Example:
//
//	idx := bm25.NewIndex(titles, docs, bm25.DefaultParams())
//	results := idx.TopN([]string{"blue", "sky"}, 10)
package bm25

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Params tunes BM25 scoring.
type Params struct {
	K1      float64 `json:"k1"`      // term frequency saturation
	B       float64 `json:"b"`       // document length normalization
	Epsilon float64 `json:"epsilon"` // floor for negative idf, as a fraction of the average idf
}

// DefaultParams returns the standard Okapi parameters.
func DefaultParams() Params {
	return Params{K1: 1.5, B: 0.75, Epsilon: 0.25}
}

// Index holds one tokenized corpus and its pre-calculated BM25 statistics.
// Documents are keyed positionally: document i is titled Titles[i].
type Index struct {
	Titles       []string           `json:"titles"`
	TermFreqs    []map[string]int   `json:"term_freqs"`
	DocLengths   []int              `json:"doc_lengths"`
	IDF          map[string]float64 `json:"idf"`
	AvgDocLength float64            `json:"avg_doc_length"`
	Params       Params             `json:"params"`
	Stemmed      bool               `json:"stemmed"` // query tokens are stemmed before scoring
}

// Result is a ranked document.
type Result struct {
	Title    string
	Position int // position of the document in the corpus
	Score    float64
}

// NewIndex builds an index over docs, where docs[i] holds the tokens of the
// document titled titles[i].
func NewIndex(titles []string, docs [][]string, params Params) *Index {
	idx := &Index{
		Titles:     append([]string{}, titles...),
		TermFreqs:  make([]map[string]int, len(docs)),
		DocLengths: make([]int, len(docs)),
		IDF:        make(map[string]float64),
		Params:     params,
	}

	if len(docs) == 0 {
		slog.Debug("Empty document collection provided")
		return idx
	}

	docFreqs := make(map[string]int)
	totalTokens := 0
	for i, tokens := range docs {
		idx.TermFreqs[i] = termFrequency(tokens)
		idx.DocLengths[i] = len(tokens)
		totalTokens += len(tokens)

		for term := range idx.TermFreqs[i] {
			docFreqs[term]++
		}
	}
	idx.AvgDocLength = float64(totalTokens) / float64(len(docs))
	idx.calculateIDF(docFreqs)

	slog.Debug("BM25 index created", "documents", len(docs), "terms", len(idx.IDF), "avgDocLength", idx.AvgDocLength)
	return idx
}

// calculateIDF fills the idf table. Terms are visited in sorted order so the
// average, and with it every floored value, is reproducible.
func (idx *Index) calculateIDF(docFreqs map[string]int) {
	terms := make([]string, 0, len(docFreqs))
	for term := range docFreqs {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(idx.TermFreqs))
	var idfSum float64
	var negative []string
	for _, term := range terms {
		df := float64(docFreqs[term])
		idf := math.Log(n-df+0.5) - math.Log(df+0.5)
		idx.IDF[term] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, term)
		}
	}

	if len(terms) == 0 {
		return
	}
	floor := idx.Params.Epsilon * idfSum / float64(len(terms))
	for _, term := range negative {
		idx.IDF[term] = floor
	}
}

// Len returns the number of documents in the index.
func (idx *Index) Len() int {
	return len(idx.Titles)
}

// Scores returns the BM25 score of every document for the query tokens, in corpus order.
func (idx *Index) Scores(query []string) []float64 {
	scores := make([]float64, len(idx.TermFreqs))
	if len(scores) == 0 {
		return scores
	}

	k1, b := idx.Params.K1, idx.Params.B
	for _, term := range idx.analyze(query) {
		idf, ok := idx.IDF[term]
		if !ok {
			continue // term not in corpus
		}

		for doc, freqs := range idx.TermFreqs {
			tf := float64(freqs[term])
			if tf == 0 {
				continue
			}
			lengthRatio := 1.0
			if idx.AvgDocLength > 0 {
				lengthRatio = float64(idx.DocLengths[doc]) / idx.AvgDocLength
			}
			scores[doc] += idf * (tf * (k1 + 1)) / (tf + k1*(1-b+b*lengthRatio))
		}
	}

	return scores
}

// TopN ranks documents by descending score and returns at most n of them.
// Documents with equal scores keep their corpus order.
func (idx *Index) TopN(query []string, n int) []Result {
	if n <= 0 || idx.Len() == 0 {
		return []Result{}
	}

	scores := idx.Scores(query)
	results := make([]Result, len(scores))
	for i, score := range scores {
		results[i] = Result{Title: idx.Titles[i], Position: i, Score: score}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > n {
		results = results[:n]
	}
	return results
}

// analyze applies the same token transforms that were applied to the corpus.
func (idx *Index) analyze(query []string) []string {
	if !idx.Stemmed {
		return query
	}
	out := make([]string, len(query))
	for i, token := range query {
		out[i] = Stem(token)
	}
	return out
}

// Tokenize breaks text into lowercase alphabetic tokens. Words are maximal
// runs of letters and digits; any word containing a digit is dropped, as is
// all punctuation.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if strings.IndexFunc(word, unicode.IsDigit) >= 0 {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Stem reduces an English token to its snowball stem, or returns it unchanged
// when stemming fails.
func Stem(token string) string {
	stemmed, err := snowball.Stem(token, "english", true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}

// termFrequency counts occurrences of each term in tokens
func termFrequency(tokens []string) map[string]int {
	freqs := make(map[string]int, len(tokens))
	for _, token := range tokens {
		freqs[token]++
	}
	return freqs
}
