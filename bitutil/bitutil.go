// Package bitutil provides the bit-width arithmetic shared by the packed
// integer vectors, the RRR bit-vector and the wavelet tree: masks with all
// low or high bits set, and the minimum number of bits needed to represent
// a value.
package bitutil

import "Thesis/errutil"

// lowBitsSet[k] has its lowest k bits set and all higher bits clear, for
// k in [0,64]. lowBitsSet[64] is all-ones.
var lowBitsSet = buildLowBitsSet()

func buildLowBitsSet() [65]uint64 {
	var t [65]uint64
	for k := 0; k < 64; k++ {
		t[k] = (uint64(1) << uint(k)) - 1
	}
	t[64] = ^uint64(0)
	return t
}

// LowMask returns a mask with the lowest k bits set, for k in [0,64].
func LowMask(k int) uint64 {
	errutil.BugOn(k < 0 || k > 64, "LowMask: k out of range: %d", k)
	return lowBitsSet[k]
}

// HighMask returns the complement of LowMask(k).
func HighMask(k int) uint64 {
	return ^LowMask(k)
}

// tab64 is the de Bruijn lookup table used by log2Floor.
var tab64 = [64]int{
	63, 0, 58, 1, 59, 47, 53, 2,
	60, 39, 48, 27, 54, 33, 42, 3,
	61, 51, 37, 40, 49, 18, 28, 20,
	55, 30, 34, 11, 43, 14, 22, 4,
	62, 57, 46, 52, 38, 26, 32, 41,
	50, 36, 17, 19, 29, 10, 13, 21,
	56, 45, 25, 31, 35, 16, 9, 12,
	44, 24, 15, 8, 23, 7, 6, 5,
}

// log2Floor computes floor(log2(value)) for value > 0 via cascade-OR
// followed by a de Bruijn sequence lookup.
func log2Floor(value uint64) int {
	value |= value >> 1
	value |= value >> 2
	value |= value >> 4
	value |= value >> 8
	value |= value >> 16
	value |= value >> 32
	return tab64[((value-(value>>1))*0x07EDD5E59A4E28C2)>>58]
}

// MinBits returns the minimum number of bits needed to represent value:
// 1 if value is 0, otherwise floor(log2(value))+1.
func MinBits(value uint64) int {
	if value == 0 {
		return 1
	}
	return log2Floor(value) + 1
}
