// Package fingerprint computes locality-sensitive SimHash fingerprints over
// token shingles. Similar texts produce fingerprints with small Hamming
// distance, which the anti-plagiarism guard uses as a paraphrase detector.
package fingerprint

import (
	"encoding/binary"
	"hash/fnv"
	"strings"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/textutil"
)

const (
	// DefaultWidth is the fingerprint width in bits.
	DefaultWidth = 256
	// ShingleSize is the token window length used for shingling.
	ShingleSize = 4
	// chunkTokens is the token count above which texts are fingerprinted in
	// chunks; the minimum pairwise chunk distance is then reported, since the
	// strictest pairwise similarity is what matters for the guard.
	chunkTokens = 2000
)

// Fingerprint is a fixed-width binary vector stored as 64-bit words,
// most significant word first. Immutable once computed.
type Fingerprint []uint64

// Compute returns the SimHash fingerprint of text at the given bit width.
// Width must be a positive multiple of 64; DefaultWidth is used otherwise.
// Deterministic for identical input and width.
func Compute(text string, width int) Fingerprint {
	if width <= 0 || width%64 != 0 {
		width = DefaultWidth
	}
	tokens := textutil.Tokenize(text)
	return computeFromTokens(tokens, width)
}

func computeFromTokens(tokens []string, width int) Fingerprint {
	words := width / 64
	counts := make([]int, width)

	for shingle, freq := range shingleCounts(tokens) {
		bits := hashShingle(shingle, words)
		for pos := 0; pos < width; pos++ {
			word := pos / 64
			if bits[word]&(1<<uint(63-pos%64)) != 0 {
				counts[pos] += freq
			} else {
				counts[pos] -= freq
			}
		}
	}

	fp := make(Fingerprint, words)
	for pos := 0; pos < width; pos++ {
		if counts[pos] > 0 {
			fp[pos/64] |= 1 << uint(63-pos%64)
		}
	}
	return fp
}

// shingleCounts returns frequency counts of overlapping ShingleSize-token
// windows. Degenerate input (fewer tokens than the shingle size) yields a
// single shingle zero-padded to the full window rather than none.
func shingleCounts(tokens []string) map[string]int {
	counts := make(map[string]int)
	if len(tokens) == 0 {
		return counts
	}
	if len(tokens) < ShingleSize {
		padded := make([]string, ShingleSize)
		copy(padded, tokens)
		counts[strings.Join(padded, "\x1f")] = 1
		return counts
	}
	for i := 0; i+ShingleSize <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+ShingleSize], "\x1f")]++
	}
	return counts
}

// hashShingle expands a shingle into width/64 stable 64-bit words by hashing
// the shingle together with the word index.
func hashShingle(shingle string, words int) []uint64 {
	out := make([]uint64, words)
	var seed [8]byte
	for i := 0; i < words; i++ {
		h := fnv.New64a()
		binary.BigEndian.PutUint64(seed[:], uint64(i))
		_, _ = h.Write(seed[:])
		_, _ = h.Write([]byte(shingle))
		out[i] = h.Sum64()
	}
	return out
}

// HammingDistance counts differing bit positions between two fingerprints.
// Symmetric; 0 only for bit-identical fingerprints. Fingerprints of unequal
// width treat the missing words of the shorter one as zero.
func HammingDistance(a, b Fingerprint) int {
	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	dist := 0
	for i, word := range longer {
		var other uint64
		if i < len(shorter) {
			other = shorter[i]
		}
		dist += popcount(word ^ other)
	}
	return dist
}

func popcount(x uint64) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}

// TextDistance fingerprints two texts and returns their Hamming distance.
// Texts longer than the chunking threshold are fingerprinted per chunk and the
// minimum pairwise distance across chunk pairs is reported.
func TextDistance(a, b string, width int) int {
	if width <= 0 || width%64 != 0 {
		width = DefaultWidth
	}
	tokensA := textutil.Tokenize(a)
	tokensB := textutil.Tokenize(b)

	if len(tokensA) <= chunkTokens && len(tokensB) <= chunkTokens {
		return HammingDistance(computeFromTokens(tokensA, width), computeFromTokens(tokensB, width))
	}

	chunksA := chunkFingerprints(tokensA, width)
	chunksB := chunkFingerprints(tokensB, width)
	min := width + 1
	for _, fa := range chunksA {
		for _, fb := range chunksB {
			if d := HammingDistance(fa, fb); d < min {
				min = d
			}
		}
	}
	return min
}

func chunkFingerprints(tokens []string, width int) []Fingerprint {
	if len(tokens) == 0 {
		return []Fingerprint{computeFromTokens(tokens, width)}
	}
	var out []Fingerprint
	for start := 0; start < len(tokens); start += chunkTokens {
		end := start + chunkTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, computeFromTokens(tokens[start:end], width))
	}
	return out
}
