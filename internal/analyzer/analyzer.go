// Package analyzer implements the interchangeable dream analysis backends.
// Every backend satisfies the same contract; construction failures mark a
// backend unavailable without affecting the others.
package analyzer

import (
	"context"

	"github.com/oneirolabs/dream-backend/internal/types"
)

// Canonical backend names, highest capability first.
const (
	NameNeuralAdvanced    = "neural-advanced"
	NameNeuralTransformer = "neural-transformer"
	NameStatisticalDeep   = "statistical-deep"
	NameEnhanced          = "enhanced"
	NameBasic             = "basic_matching"
)

// Analyzer is the capability set shared by all backends. Inputs are assumed
// to be lowercased by the caller.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, dreamText string) ([]types.Interpretation, error)
	Summarize(ctx context.Context, dreamText string) (string, error)
	Perspective(ctx context.Context, dreamText string, results []types.Interpretation) (string, error)
}

// Factory constructs a backend, reporting missing dependencies (weight
// files, lexicon) as an error rather than panicking.
type Factory func() (Analyzer, error)

// GenericInterpretation is returned when a backend finds no lexicon matches
// at all; responses never carry an empty interpretation list.
func GenericInterpretation() types.Interpretation {
	return types.Interpretation{
		Keyword:        "General",
		Interpretation: "Your dream contains elements that may represent your subconscious thoughts. Dreams are highly personal, and you might want to consider what these symbols mean specifically to you.",
	}
}
