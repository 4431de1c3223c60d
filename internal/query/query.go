// Package query recommends songs for a mood and free-text keywords.
//
// The mood picks one of the five bucket indexes; the keywords rank the songs
// of that bucket by BM25 relevance. Ties keep dataset order, so the same
// dataset and query always produce the same recommendations.
//
// Usage Example:
//
//	engine, err := query.Load("bm25.json", "music.csv", query.Okapi)
//	if err != nil {
//		return err
//	}
//	recs, err := engine.Recommend(mood.Good, "blue skies", 10)
package query

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/chriscorrea/lyricmood/internal/bm25"
	"github.com/chriscorrea/lyricmood/internal/dataset"
	"github.com/chriscorrea/lyricmood/internal/mood"
)

var (
	// ErrInvalidMood is returned for a mood outside 1..5.
	ErrInvalidMood = errors.New("mood must be between 1 and 5")
	// ErrEmptyQuery is returned when the query holds no tokens.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrStaleIndex is returned when the index store does not match the dataset.
	ErrStaleIndex = errors.New("index does not match dataset")
)

// Recommendation is one ranked song.
type Recommendation struct {
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Score  float64 `json:"score"`
}

// Engine answers queries against a loaded dataset and index store. It is
// read-only after construction and safe for concurrent use.
type Engine struct {
	ranker  Ranker
	store   *bm25.Store
	songs   map[mood.Bucket][]dataset.Song
	fielded map[mood.Bucket]*fieldedIndex
}

// Load reads the index store and the dataset from disk.
func Load(indexFile, datasetFile string, ranker Ranker) (*Engine, error) {
	store, err := bm25.Load(indexFile)
	if err != nil {
		return nil, err
	}
	songs, err := dataset.Load(datasetFile)
	if err != nil {
		return nil, err
	}
	return New(store, songs, ranker)
}

// New creates an Engine. The store must have been built from songs.
func New(store *bm25.Store, songs []dataset.Song, ranker Ranker) (*Engine, error) {
	e := &Engine{
		ranker: ranker,
		store:  store,
		songs:  make(map[mood.Bucket][]dataset.Song, mood.Count),
	}

	for _, b := range mood.All {
		bucketSongs := dataset.ByMood(songs, b)
		idx, ok := store.Index(b)
		if !ok || idx == nil {
			return nil, fmt.Errorf("%w: bucket %d has no index", ErrStaleIndex, b)
		}
		if err := checkAligned(idx, bucketSongs); err != nil {
			return nil, fmt.Errorf("%w: bucket %d: %v", ErrStaleIndex, b, err)
		}
		e.songs[b] = bucketSongs
	}

	if ranker == Fielded {
		e.fielded = make(map[mood.Bucket]*fieldedIndex, mood.Count)
		params := storeParams(store)
		for _, b := range mood.All {
			e.fielded[b] = newFieldedIndex(e.songs[b], params)
		}
	}

	slog.Debug("Query engine ready", "songs", len(songs), "ranker", ranker.String())
	return e, nil
}

// storeParams returns the BM25 parameters the store was built with.
func storeParams(store *bm25.Store) bm25.Params {
	for _, b := range mood.All {
		if idx, ok := store.Index(b); ok && idx != nil {
			return idx.Params
		}
	}
	return bm25.DefaultParams()
}

// checkAligned verifies that document i of idx is song i of the bucket.
func checkAligned(idx *bm25.Index, songs []dataset.Song) error {
	if idx.Len() != len(songs) {
		return fmt.Errorf("index has %d songs, dataset has %d", idx.Len(), len(songs))
	}
	for i, title := range idx.Titles {
		if songs[i].Title != title {
			return fmt.Errorf("song %d is %q in the index and %q in the dataset", i, title, songs[i].Title)
		}
	}
	return nil
}

// Tokenize lowercases raw and splits it on whitespace.
func Tokenize(raw string) []string {
	return strings.Fields(strings.ToLower(raw))
}

// TopN returns the titles of at most n songs in bucket b, ranked by
// descending relevance to tokens.
func (e *Engine) TopN(b mood.Bucket, tokens []string, n int) ([]string, error) {
	ranked, err := e.rank(b, tokens, n)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(ranked))
	for i, r := range ranked {
		titles[i] = r.Title
	}
	return titles, nil
}

// Recommend tokenizes text and returns at most n ranked songs from bucket b.
func (e *Engine) Recommend(b mood.Bucket, text string, n int) ([]Recommendation, error) {
	return e.rank(b, Tokenize(text), n)
}

func (e *Engine) rank(b mood.Bucket, tokens []string, n int) ([]Recommendation, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMood, int(b))
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyQuery
	}

	if n < 0 {
		n = 0
	}

	var recs []Recommendation
	switch e.ranker {
	case Fielded:
		recs = e.rankFielded(b, tokens, n)
	default:
		recs = e.rankOkapi(b, tokens, n)
	}

	slog.Debug("Query ranked", "bucket", int(b), "tokens", len(tokens), "results", len(recs))
	return recs, nil
}

func (e *Engine) rankOkapi(b mood.Bucket, tokens []string, n int) []Recommendation {
	idx, _ := e.store.Index(b)
	songs := e.songs[b]

	results := idx.TopN(tokens, n)
	recs := make([]Recommendation, len(results))
	for i, r := range results {
		recs[i] = Recommendation{Title: r.Title, Artist: songs[r.Position].Artist, Score: r.Score}
	}
	return recs
}

func (e *Engine) rankFielded(b mood.Bucket, tokens []string, n int) []Recommendation {
	songs := e.songs[b]
	scores := e.fielded[b].scores(tokens)

	recs := make([]Recommendation, len(songs))
	for i, song := range songs {
		recs[i] = Recommendation{Title: song.Title, Artist: song.Artist, Score: scores[i]}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
