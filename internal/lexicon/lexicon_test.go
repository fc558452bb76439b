package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuildsIndexes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "interpretations.json")
	data := `{
		"water": "Symbolizes emotions.",
		"flying": "Usually symbolizes freedom.",
		"falling_teeth": "Anxiety about appearance.",
		"Deep_Water": "Emotions that ask to be explored."
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	lex, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lex.Len() != 4 {
		t.Fatalf("Len()=%d, want 4", lex.Len())
	}

	if !lex.HasSingle("water") || !lex.HasSingle("flying") {
		t.Fatal("single keywords missing from index")
	}
	if lex.HasSingle("falling_teeth") {
		t.Fatal("compound keyword indexed as single")
	}

	compounds := lex.Compounds()
	if len(compounds) != 2 {
		t.Fatalf("got %d compounds, want 2", len(compounds))
	}
	// Keywords are lowercased on load.
	if compounds[0].Keyword != "deep_water" {
		t.Fatalf("compounds[0]=%q, want deep_water", compounds[0].Keyword)
	}
	if got := compounds[1].Parts; len(got) != 2 || got[0] != "falling" || got[1] != "teeth" {
		t.Fatalf("falling_teeth parts=%v", got)
	}

	text, ok := lex.Interpretation("water")
	if !ok || text != "Symbolizes emotions." {
		t.Fatalf("Interpretation(water)=%q, ok=%v", text, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing lexicon file")
	}
}

func TestDisplayKeyword(t *testing.T) {
	if got := DisplayKeyword("falling_teeth"); got != "falling teeth" {
		t.Fatalf("DisplayKeyword=%q", got)
	}
	if got := DisplayKeyword("water"); got != "water" {
		t.Fatalf("DisplayKeyword=%q", got)
	}
}
