package translit

import (
	"slices"
	"testing"
)

func TestFoldStripsAccentsAndCase(t *testing.T) {
	if got := Fold("José"); got != "jose" {
		t.Fatalf("Fold = %q, want jose", got)
	}
}

func TestVariantsLatinAddsHebrewAndArabic(t *testing.T) {
	got := Variants("dani")
	if got[0] != "dani" {
		t.Fatalf("original must come first, got %v", got)
	}
	if !slices.Contains(got, "דאני") {
		t.Fatalf("missing Hebrew variant in %v", got)
	}
	if !slices.Contains(got, "داني") {
		t.Fatalf("missing Arabic variant in %v", got)
	}
}

func TestVariantsHebrewAddsLatin(t *testing.T) {
	got := Variants("דני")
	if !slices.Contains(got, "dny") {
		t.Fatalf("missing Latin variant in %v", got)
	}
}

func TestVariantsGreedyDigraphs(t *testing.T) {
	// "sh" must map as one letter, not s then h.
	got := Variants("shai")
	if !slices.Contains(got, "שאי") {
		t.Fatalf("expected digraph mapping in %v", got)
	}
	if slices.Contains(got, "סהאי") {
		t.Fatalf("digraph split letter by letter in %v", got)
	}
}

func TestVariantsNonNameInput(t *testing.T) {
	got := Variants("12345")
	if len(got) != 1 || got[0] != "12345" {
		t.Fatalf("digit input should yield only the original, got %v", got)
	}
}

func TestVariantsEmpty(t *testing.T) {
	if got := Variants("  "); got != nil {
		t.Fatalf("Variants(blank) = %v, want nil", got)
	}
}
