package analyzer

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/oneirolabs/dream-backend/internal/lexicon"
	"github.com/oneirolabs/dream-backend/internal/types"
)

const (
	enhancedMaxResults = 7

	// Compound matches outrank any single-keyword frequency score.
	phraseRelevance = 10
	partsRelevance  = 8
	earlyBoost      = 2
)

// Enhanced ranks keyword matches by frequency and position and categorizes
// the dream into themes for its summary.
type Enhanced struct {
	lex *lexicon.Lexicon
}

func TryNewEnhanced(lex *lexicon.Lexicon) (Analyzer, error) {
	if lex == nil || lex.Len() == 0 {
		return nil, fmt.Errorf("enhanced analyzer: empty lexicon")
	}
	return &Enhanced{lex: lex}, nil
}

func (e *Enhanced) Name() string {
	return NameEnhanced
}

func (e *Enhanced) Analyze(_ context.Context, dreamText string) ([]types.Interpretation, error) {
	return e.matchKeywords(dreamText, enhancedMaxResults), nil
}

// matchKeywords is shared with the statistical backend's fallback path.
func (e *Enhanced) matchKeywords(dreamText string, limit int) []types.Interpretation {
	counts, set := wordCounts(dreamText)

	type scored struct {
		match     types.Interpretation
		relevance int
	}
	var matches []scored

	for _, compound := range e.lex.Compounds() {
		phrase := lexicon.DisplayKeyword(compound.Keyword)
		relevance := 0
		if strings.Contains(dreamText, phrase) {
			relevance = phraseRelevance
		} else if allIn(set, compound.Parts) {
			relevance = partsRelevance
		}
		if relevance == 0 {
			continue
		}
		text, _ := e.lex.Interpretation(compound.Keyword)
		matches = append(matches, scored{
			match:     types.Interpretation{Keyword: phrase, Interpretation: text},
			relevance: relevance,
		})
	}

	for _, keyword := range e.lex.Singles() {
		if _, ok := set[keyword]; !ok {
			continue
		}
		relevance := counts[keyword]
		if idx := strings.Index(dreamText, keyword); idx >= 0 && idx < len(dreamText)/3 {
			relevance += earlyBoost
		}
		text, _ := e.lex.Interpretation(keyword)
		matches = append(matches, scored{
			match:     types.Interpretation{Keyword: keyword, Interpretation: text},
			relevance: relevance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].relevance > matches[j].relevance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]types.Interpretation, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.match)
	}
	return results
}

func (e *Enhanced) Summarize(_ context.Context, dreamText string) (string, error) {
	_, set := wordCounts(dreamText)

	var themes []string
	for _, theme := range dreamThemes {
		if intersects(set, theme.Keywords) {
			themes = append(themes, theme.Name)
		}
	}

	var elements []string
	for _, keyword := range e.lex.Singles() {
		if _, ok := set[keyword]; ok {
			elements = append(elements, keyword)
		}
	}
	if len(elements) > 5 {
		elements = elements[:5]
	}

	switch {
	case len(themes) > 0 && len(elements) > 0:
		return fmt.Sprintf("A dream about %s, containing elements such as %s",
			strings.Join(themes, ", "), strings.Join(elements, ", ")), nil
	case len(themes) > 0:
		return fmt.Sprintf("A dream about %s", strings.Join(themes, ", ")), nil
	case len(elements) > 0:
		return fmt.Sprintf("A dream containing key elements such as %s",
			strings.Join(elements, ", ")), nil
	}
	return firstSentence(dreamText, 100), nil
}

func (e *Enhanced) Perspective(_ context.Context, dreamText string, results []types.Interpretation) (string, error) {
	_, set := wordCounts(dreamText)
	if p := themedPerspective(set); p != "" {
		return p, nil
	}

	if len(results) >= 2 {
		keywords := make([]string, 0, 3)
		for _, r := range results {
			keywords = append(keywords, strings.ToLower(r.Keyword))
			if len(keywords) == 3 {
				break
			}
		}
		last := keywords[len(keywords)-1]
		rest := strings.Join(keywords[:len(keywords)-1], ", ")
		return fmt.Sprintf("Your dream features elements such as %s and %s. From a psychological perspective, this combination suggests a complex inner state. These symbols together may reflect a period of transition or deeper emotional processing. The relationship between these elements mirrors internal dynamics that may be at work in your waking life.", rest, last), nil
	}

	base := generalPerspectives[rand.Intn(len(generalPerspectives))]
	insight := additionalInsights[rand.Intn(len(additionalInsights))]
	return base + " " + insight, nil
}

func allIn(set map[string]struct{}, parts []string) bool {
	for _, part := range parts {
		if _, ok := set[part]; !ok {
			return false
		}
	}
	return true
}
