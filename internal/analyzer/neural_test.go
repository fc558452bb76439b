package analyzer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeWeights(t *testing.T, wf weightsFile) string {
	t.Helper()
	raw, err := json.Marshal(wf)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testWeights() weightsFile {
	return weightsFile{
		Dims: 3,
		Vectors: map[string][]float64{
			"water":  {1, 0, 0},
			"ocean":  {0.9, 0.1, 0},
			"flying": {0, 1, 0},
			"sky":    {0.1, 0.9, 0},
			"snake":  {0, 0, 1},
		},
	}
}

func TestNeuralRanksByEmbeddingSimilarity(t *testing.T) {
	path := writeWeights(t, testWeights())
	a, err := TryNewTransformer(testLexicon(), path)
	if err != nil {
		t.Fatalf("TryNewTransformer: %v", err)
	}
	if a.Name() != NameNeuralTransformer {
		t.Fatalf("Name()=%q", a.Name())
	}

	results, err := a.Analyze(context.Background(), "drifting through the ocean water")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results) == 0 || results[0].Keyword != "water" {
		t.Fatalf("expected water ranked first, got %v", results)
	}
	if _, ok := findKeyword(results, "snake"); ok {
		t.Fatalf("orthogonal entry should stay below threshold: %v", results)
	}
}

func TestNeuralFallsBackWithoutVocabularyOverlap(t *testing.T) {
	path := writeWeights(t, testWeights())
	a, _ := TryNewAdvanced(testLexicon(), path)

	// No dream token is in the embedding vocabulary, so keyword matching
	// takes over.
	results, err := a.Analyze(context.Background(), "a door and a key")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, ok := findKeyword(results, "door"); !ok {
		t.Fatalf("expected keyword fallback to match door, got %v", results)
	}
}

func TestTryNewNeuralMissingFile(t *testing.T) {
	if _, err := TryNewTransformer(testLexicon(), filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing weights file")
	}
}

func TestTryNewNeuralUnconfiguredPath(t *testing.T) {
	if _, err := TryNewTransformer(testLexicon(), ""); err == nil {
		t.Fatal("expected error for empty weights path")
	}
}

func TestTryNewNeuralDimsMismatch(t *testing.T) {
	wf := testWeights()
	wf.Vectors["water"] = []float64{1, 0}
	path := writeWeights(t, wf)
	if _, err := TryNewTransformer(testLexicon(), path); err == nil {
		t.Fatal("expected error for inconsistent vector dims")
	}
}

func TestTryNewNeuralNoLexiconOverlap(t *testing.T) {
	path := writeWeights(t, weightsFile{
		Dims:    2,
		Vectors: map[string][]float64{"zzyzx": {1, 0}},
	})
	if _, err := TryNewTransformer(testLexicon(), path); err == nil {
		t.Fatal("expected error when no lexicon entry overlaps the vocabulary")
	}
}
