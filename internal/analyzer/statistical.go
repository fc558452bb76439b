package analyzer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/oneirolabs/dream-backend/internal/lexicon"
	"github.com/oneirolabs/dream-backend/internal/types"
)

const (
	statisticalMaxResults = 10
	fallbackMaxResults    = 8
	similarityThreshold   = 0.1
)

// Statistical scores lexicon entries against the dream text with TF-IDF
// vectors and cosine similarity, built over a corpus of one document per
// lexicon entry. When similarity scoring yields nothing it falls back to
// plain keyword matching.
type Statistical struct {
	lex      *lexicon.Lexicon
	enhanced *Enhanced
	idf      map[string]float64
	docs     []entryVector
}

type entryVector struct {
	keyword        string
	interpretation string
	vec            map[string]float64
}

func TryNewStatistical(lex *lexicon.Lexicon) (Analyzer, error) {
	if lex == nil || lex.Len() == 0 {
		return nil, fmt.Errorf("statistical analyzer: empty lexicon")
	}

	var corpus []string
	lex.Each(func(keyword, interpretation string) {
		corpus = append(corpus, strings.ToLower(keyword+" "+interpretation))
	})

	idf := fitIDF(corpus)
	s := &Statistical{
		lex:      lex,
		enhanced: &Enhanced{lex: lex},
		idf:      idf,
	}
	lex.Each(func(keyword, interpretation string) {
		s.docs = append(s.docs, entryVector{
			keyword:        keyword,
			interpretation: interpretation,
			vec:            s.vectorize(strings.ToLower(keyword + " " + interpretation)),
		})
	})
	return s, nil
}

func (s *Statistical) Name() string {
	return NameStatisticalDeep
}

func (s *Statistical) Analyze(_ context.Context, dreamText string) ([]types.Interpretation, error) {
	dreamVec := s.vectorize(dreamText)

	type scored struct {
		match types.Interpretation
		score float64
	}
	var matches []scored
	for _, doc := range s.docs {
		score := cosine(dreamVec, doc.vec)
		if score <= similarityThreshold {
			continue
		}
		matches = append(matches, scored{
			match: types.Interpretation{
				Keyword:        lexicon.DisplayKeyword(doc.keyword),
				Interpretation: doc.interpretation,
			},
			score: score,
		})
	}

	if len(matches) == 0 {
		return s.enhanced.matchKeywords(dreamText, fallbackMaxResults), nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > statisticalMaxResults {
		matches = matches[:statisticalMaxResults]
	}
	results := make([]types.Interpretation, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.match)
	}
	return results, nil
}

func (s *Statistical) Summarize(ctx context.Context, dreamText string) (string, error) {
	if len(dreamText) > 100 {
		if top := s.topTerms(dreamText, 3); len(top) > 0 {
			return fmt.Sprintf("A dream centered on %s", strings.Join(top, ", ")), nil
		}
	}
	return s.enhanced.Summarize(ctx, dreamText)
}

func (s *Statistical) Perspective(ctx context.Context, dreamText string, results []types.Interpretation) (string, error) {
	return s.enhanced.Perspective(ctx, dreamText, results)
}

// topTerms returns the highest TF-IDF scoring words of the text, skipping
// short tokens.
func (s *Statistical) topTerms(dreamText string, n int) []string {
	vec := s.vectorize(dreamText)
	type term struct {
		word  string
		score float64
	}
	terms := make([]term, 0, len(vec))
	for word, score := range vec {
		if len(word) > 3 {
			terms = append(terms, term{word, score})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].score != terms[j].score {
			return terms[i].score > terms[j].score
		}
		return terms[i].word < terms[j].word
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, t.word)
	}
	return out
}

// vectorize builds an L2-normalized TF-IDF vector. Terms outside the fitted
// vocabulary are dropped, matching vectorizer.transform semantics.
func (s *Statistical) vectorize(text string) map[string]float64 {
	counts, _ := wordCounts(text)
	vec := make(map[string]float64, len(counts))
	var norm float64
	for word, count := range counts {
		idf, ok := s.idf[word]
		if !ok {
			continue
		}
		w := float64(count) * idf
		vec[word] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for word := range vec {
		vec[word] /= norm
	}
	return vec
}

// fitIDF computes smoothed inverse document frequencies over the corpus:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func fitIDF(corpus []string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range corpus {
		_, set := wordCounts(doc)
		for word := range set {
			df[word]++
		}
	}
	n := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for word, count := range df {
		idf[word] = math.Log((1+n)/(1+float64(count))) + 1
	}
	return idf
}

func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for word, av := range a {
		if bv, ok := b[word]; ok {
			dot += av * bv
		}
	}
	return dot
}
