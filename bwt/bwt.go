// Package bwt derives the Burrows-Wheeler transform of a sentinel-
// terminated integer sequence from its suffix array, and carries the
// redundancy measure used to characterize how compressible a BWT is.
package bwt

// Transform returns bwt such that bwt[i] = mapped[(sa[i]-1) mod len(mapped)].
// mapped must be the sentinel-terminated sequence that sa is a suffix array
// of; the result is a permutation of mapped.
func Transform(mapped []int32, sa []int32) []int32 {
	n := len(mapped)
	bwt := make([]int32, n)
	for i, s := range sa {
		if s == 0 {
			bwt[i] = mapped[n-1]
		} else {
			bwt[i] = mapped[s-1]
		}
	}
	return bwt
}

// Redundancy measures the n/r compressibility of a symbol sequence, where r
// is the number of maximal runs of equal adjacent symbols. Higher values
// mean more redundant (more compressible) input.
func Redundancy(seq []int32) float64 {
	if len(seq) == 0 {
		return 0
	}
	r := 1
	previous := seq[0]
	for _, s := range seq[1:] {
		if s != previous {
			r++
			previous = s
		}
	}
	return float64(len(seq)) / float64(r)
}
