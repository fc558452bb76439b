package analyzer

import (
	"context"
	"math/rand"
	"sort"
	"strings"

	"github.com/oneirolabs/dream-backend/internal/lexicon"
	"github.com/oneirolabs/dream-backend/internal/types"
)

const basicMaxResults = 5

// Basic is the zero-dependency keyword matcher. It is always constructible
// from a loaded lexicon and acts as the terminal fallback: the HTTP layer
// runs it directly when the orchestrator declines a request.
type Basic struct {
	lex *lexicon.Lexicon
}

func NewBasic(lex *lexicon.Lexicon) *Basic {
	return &Basic{lex: lex}
}

func (b *Basic) Name() string {
	return NameBasic
}

func (b *Basic) Analyze(_ context.Context, dreamText string) ([]types.Interpretation, error) {
	counts, _ := wordCounts(dreamText)

	type scored struct {
		match     types.Interpretation
		relevance float64
	}
	var matches []scored

	for _, compound := range b.lex.Compounds() {
		allPresent := true
		total := 0
		for _, part := range compound.Parts {
			if !strings.Contains(dreamText, part) {
				allPresent = false
				break
			}
			total += counts[part]
		}
		if !allPresent {
			continue
		}
		text, _ := b.lex.Interpretation(compound.Keyword)
		matches = append(matches, scored{
			match: types.Interpretation{
				Keyword:        lexicon.DisplayKeyword(compound.Keyword),
				Interpretation: text,
			},
			relevance: float64(total) / float64(len(compound.Parts)),
		})
	}

	for _, keyword := range b.lex.Singles() {
		if !strings.Contains(dreamText, keyword) {
			continue
		}
		text, _ := b.lex.Interpretation(keyword)
		matches = append(matches, scored{
			match:     types.Interpretation{Keyword: keyword, Interpretation: text},
			relevance: float64(counts[keyword]),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].relevance > matches[j].relevance
	})
	if len(matches) > basicMaxResults {
		matches = matches[:basicMaxResults]
	}

	results := make([]types.Interpretation, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.match)
	}
	return results, nil
}

func (b *Basic) Summarize(_ context.Context, dreamText string) (string, error) {
	return firstSentence(dreamText, 100), nil
}

func (b *Basic) Perspective(_ context.Context, dreamText string, _ []types.Interpretation) (string, error) {
	_, set := wordCounts(dreamText)
	if p := themedPerspective(set); p != "" {
		return p, nil
	}
	return generalPerspectives[rand.Intn(len(generalPerspectives))], nil
}
