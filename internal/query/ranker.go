package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriscorrea/bm25md"

	"github.com/chriscorrea/lyricmood/internal/bm25"
	"github.com/chriscorrea/lyricmood/internal/dataset"
)

// ErrInvalidRanker is returned for an unknown ranker name.
var ErrInvalidRanker = errors.New("invalid ranker")

// Ranker selects the scoring model used at query time.
type Ranker int

const (
	// Okapi ranks with the serialized per-bucket BM25 indexes (default)
	Okapi Ranker = iota
	// Fielded ranks with field-weighted BM25, where title matches outweigh lyric matches
	Fielded
)

// String returns the string representation of the ranker
func (r Ranker) String() string {
	switch r {
	case Okapi:
		return "okapi"
	case Fielded:
		return "fielded"
	default:
		return "unknown"
	}
}

// ParseRanker converts a ranker name into a Ranker. An empty name yields Okapi.
func ParseRanker(name string) (Ranker, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "okapi":
		return Okapi, nil
	case "fielded":
		return Fielded, nil
	default:
		return Okapi, fmt.Errorf("%w: accepted 'okapi' or 'fielded', provided %q", ErrInvalidRanker, name)
	}
}

// titleWeight makes a title match count three times a lyric match.
const titleWeight = 3.0

// fieldedIndex scores one bucket with bm25md. Each song is parsed as a
// markdown document whose H1 is the title and whose body is the lyrics.
type fieldedIndex struct {
	corpus *bm25md.Corpus
	size   int
}

func newFieldedIndex(songs []dataset.Song, params bm25.Params) *fieldedIndex {
	weights := map[bm25md.Field]float64{
		bm25md.FieldH1:   titleWeight,
		bm25md.FieldBody: 1.0,
	}
	corpus := bm25md.NewCorpus(
		bm25md.WithFieldWeights(weights),
		bm25md.WithBM25Params(bm25md.BM25Parameters{K1: params.K1, B: params.B}),
	)

	parser := bm25md.NewMarkdownFieldParser()
	for i, song := range songs {
		doc := "# " + song.Title + "\n\n" + song.Lyrics
		corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   parser.ParseDocument(doc),
			Original: doc,
		})
	}

	return &fieldedIndex{corpus: corpus, size: len(songs)}
}

// scores returns the field-weighted score of every song, in dataset order.
func (f *fieldedIndex) scores(tokens []string) []float64 {
	scores := make([]float64, f.size)
	if f.size == 0 {
		return scores
	}

	q := strings.Join(tokens, " ")
	for i := range scores {
		scores[i] = f.corpus.Score(q, i)
	}
	return scores
}
