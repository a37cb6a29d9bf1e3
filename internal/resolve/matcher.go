// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package resolve

// Matcher scores the similarity of two strings in [0, 1].
//
// The resolver performs a linear scan over every catalog title with the
// configured Matcher. That is acceptable at catalog scale, but the
// interface exists so the scan can be replaced by an indexed
// approximate-matching structure without touching callers.
type Matcher interface {
	Ratio(a, b string) float64
}

// SequenceMatcher implements Ratcliff/Obershelp similarity: the ratio
// of matched characters to total characters, where matches are found by
// locating the longest common contiguous subsequence and recursing into
// the unmatched remainders on both sides.
//
// The zero value is ready to use.
type SequenceMatcher struct{}

// Ratio returns 2*M / T where M is the total number of matched
// characters and T the combined length of both strings. Identical
// strings score 1.0; strings with nothing in common score 0.0.
func (SequenceMatcher) Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	matched := matchedChars(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

// matchedChars counts matched characters between a[alo:ahi] and
// b[blo:bhi]: the longest common block, plus recursive matches in the
// regions before and after it.
func matchedChars(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}

	return size +
		matchedChars(a, b, alo, i, blo, j) +
		matchedChars(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest block of characters common to
// a[alo:ahi] and b[blo:bhi]. On ties it prefers the block starting
// earliest in a, then earliest in b, which keeps matching
// deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (bestI, bestJ, bestSize int) {
	bestI, bestJ = alo, blo

	// j2len[j] is the length of the common block ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return bestI, bestJ, bestSize
}
