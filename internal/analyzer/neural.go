package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/oneirolabs/dream-backend/internal/lexicon"
	"github.com/oneirolabs/dream-backend/internal/types"
)

const (
	neuralMaxResults     = 6
	neuralScoreThreshold = 0.3
)

// weightsFile is the on-disk format produced by the offline training
// scripts: token embeddings of a fixed dimension.
type weightsFile struct {
	Dims    int                  `json:"dims"`
	Vectors map[string][]float64 `json:"vectors"`
}

// Neural scores lexicon entries by cosine similarity between embedding
// centroids of the dream text and of each entry. Both neural variants share
// this implementation and differ only in their weight files; construction
// fails when the file is absent, leaving the backend unavailable.
type Neural struct {
	name     string
	lex      *lexicon.Lexicon
	enhanced *Enhanced
	dims     int
	vectors  map[string][]float64
	entries  []neuralEntry
}

type neuralEntry struct {
	keyword        string
	interpretation string
	centroid       []float64
}

func TryNewTransformer(lex *lexicon.Lexicon, weightsPath string) (Analyzer, error) {
	return tryNewNeural(NameNeuralTransformer, lex, weightsPath)
}

func TryNewAdvanced(lex *lexicon.Lexicon, weightsPath string) (Analyzer, error) {
	return tryNewNeural(NameNeuralAdvanced, lex, weightsPath)
}

func tryNewNeural(name string, lex *lexicon.Lexicon, weightsPath string) (Analyzer, error) {
	if lex == nil || lex.Len() == 0 {
		return nil, fmt.Errorf("%s: empty lexicon", name)
	}
	if weightsPath == "" {
		return nil, fmt.Errorf("%s: weights path not configured", name)
	}
	raw, err := os.ReadFile(weightsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: read weights: %w", name, err)
	}
	var wf weightsFile
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, fmt.Errorf("%s: parse weights: %w", name, err)
	}
	if wf.Dims <= 0 || len(wf.Vectors) == 0 {
		return nil, fmt.Errorf("%s: weights file is empty", name)
	}
	for token, vec := range wf.Vectors {
		if len(vec) != wf.Dims {
			return nil, fmt.Errorf("%s: token %q has %d dims, want %d", name, token, len(vec), wf.Dims)
		}
	}

	n := &Neural{
		name:     name,
		lex:      lex,
		enhanced: &Enhanced{lex: lex},
		dims:     wf.Dims,
		vectors:  wf.Vectors,
	}
	lex.Each(func(keyword, interpretation string) {
		centroid := n.centroid(strings.ToLower(keyword + " " + interpretation))
		if centroid == nil {
			return
		}
		n.entries = append(n.entries, neuralEntry{
			keyword:        keyword,
			interpretation: interpretation,
			centroid:       centroid,
		})
	})
	if len(n.entries) == 0 {
		return nil, fmt.Errorf("%s: no lexicon entry overlaps the embedding vocabulary", name)
	}
	return n, nil
}

func (n *Neural) Name() string {
	return n.name
}

func (n *Neural) Analyze(_ context.Context, dreamText string) ([]types.Interpretation, error) {
	dreamCentroid := n.centroid(dreamText)
	if dreamCentroid == nil {
		return n.enhanced.matchKeywords(dreamText, fallbackMaxResults), nil
	}

	type scored struct {
		match types.Interpretation
		score float64
	}
	var matches []scored
	for _, entry := range n.entries {
		score := cosineDense(dreamCentroid, entry.centroid)
		if score <= neuralScoreThreshold {
			continue
		}
		matches = append(matches, scored{
			match: types.Interpretation{
				Keyword:        lexicon.DisplayKeyword(entry.keyword),
				Interpretation: entry.interpretation,
			},
			score: score,
		})
	}

	if len(matches) == 0 {
		return n.enhanced.matchKeywords(dreamText, fallbackMaxResults), nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > neuralMaxResults {
		matches = matches[:neuralMaxResults]
	}
	results := make([]types.Interpretation, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.match)
	}
	return results, nil
}

func (n *Neural) Summarize(ctx context.Context, dreamText string) (string, error) {
	return n.enhanced.Summarize(ctx, dreamText)
}

func (n *Neural) Perspective(ctx context.Context, dreamText string, results []types.Interpretation) (string, error) {
	return n.enhanced.Perspective(ctx, dreamText, results)
}

// centroid returns the mean embedding of the known tokens in text, or nil
// when no token is in the vocabulary.
func (n *Neural) centroid(text string) []float64 {
	sum := make([]float64, n.dims)
	count := 0
	for _, word := range words(text) {
		vec, ok := n.vectors[word]
		if !ok {
			continue
		}
		for i, v := range vec {
			sum[i] += v
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range sum {
		sum[i] /= float64(count)
	}
	return sum
}

func cosineDense(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
