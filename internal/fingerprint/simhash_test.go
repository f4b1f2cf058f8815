package fingerprint

import (
	"strings"
	"testing"
)

const sampleText = "The tide came in slowly that morning, dragging kelp across the stones while gulls argued over scraps near the seawall."

func TestComputeDeterministic(t *testing.T) {
	a := Compute(sampleText, 256)
	b := Compute(sampleText, 256)
	if HammingDistance(a, b) != 0 {
		t.Error("identical input produced different fingerprints")
	}
	if len(a) != 256/64 {
		t.Errorf("fingerprint has %d words, want %d", len(a), 256/64)
	}
}

func TestHammingIdentity(t *testing.T) {
	texts := []string{sampleText, "short", "", "one two three four five"}
	for _, text := range texts {
		fp := Compute(text, 256)
		if d := HammingDistance(fp, fp); d != 0 {
			t.Errorf("HammingDistance(fp, fp) = %d for %q, want 0", d, text)
		}
	}
}

func TestHammingSymmetry(t *testing.T) {
	a := Compute(sampleText, 256)
	b := Compute("A completely different sentence about engines and rust in a dockyard at dusk, with nobody watching.", 256)
	if HammingDistance(a, b) != HammingDistance(b, a) {
		t.Error("Hamming distance is not symmetric")
	}
	if HammingDistance(a, b) == 0 {
		t.Error("unrelated texts should not collide to distance 0")
	}
}

func TestDegenerateInput(t *testing.T) {
	// Fewer tokens than the shingle size still yields a usable fingerprint.
	fp := Compute("hello world", 256)
	if len(fp) != 4 {
		t.Fatalf("unexpected fingerprint length %d", len(fp))
	}
	again := Compute("hello world", 256)
	if HammingDistance(fp, again) != 0 {
		t.Error("degenerate input not deterministic")
	}
}

func TestInvalidWidthFallsBackToDefault(t *testing.T) {
	fp := Compute(sampleText, 100)
	if len(fp)*64 != DefaultWidth {
		t.Errorf("width fallback produced %d bits, want %d", len(fp)*64, DefaultWidth)
	}
}

func TestSimilarTextsCloserThanDistinct(t *testing.T) {
	base := sampleText
	near := strings.Replace(sampleText, "gulls", "crows", 1)
	far := "Quarterly earnings exceeded projections because the logistics division renegotiated every vendor contract in March."

	dNear := HammingDistance(Compute(base, 256), Compute(near, 256))
	dFar := HammingDistance(Compute(base, 256), Compute(far, 256))
	if dNear >= dFar {
		t.Errorf("expected near distance (%d) < far distance (%d)", dNear, dFar)
	}
}

func TestTextDistanceMatchesWholeTextForShortInput(t *testing.T) {
	other := "Rain collected in the gutters overnight and by dawn the street had its own slow river."
	whole := HammingDistance(Compute(sampleText, 256), Compute(other, 256))
	if got := TextDistance(sampleText, other, 256); got != whole {
		t.Errorf("TextDistance = %d, want %d", got, whole)
	}
}

func TestTextDistanceChunkedFindsEmbeddedCopy(t *testing.T) {
	// The exemplar's second chunk is exactly the candidate, so the minimum
	// pairwise chunk distance must be zero even though the texts as a whole differ.
	blockA := strings.Repeat("alpha beta gamma delta ", 500) // 2000 tokens
	blockB := strings.Repeat("omega psi chi phi ", 500)      // 2000 tokens
	exemplar := blockB + blockA

	if got := TextDistance(blockA, exemplar, 256); got != 0 {
		t.Errorf("embedded verbatim chunk reported distance %d, want 0", got)
	}
}
