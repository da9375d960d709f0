package fmindex

import "fmt"

// Extract writes text[start:stop] (as code points) into dest starting at
// destOffset, and returns stop-start. Requires EnableExtract.
func (f *FmIndex) Extract(start, stop int, dest []int32, destOffset int) (int, error) {
	if !f.enableExtract {
		return 0, ErrExtractNotEnabled
	}
	n := int(f.inputLength)
	if start < 0 || start > stop || stop >= n+1 {
		return 0, fmt.Errorf("%w: extract(%d,%d) outside [0,%d]", ErrOutOfRange, start, stop, n)
	}
	if len(dest)-destOffset < stop-start {
		return 0, fmt.Errorf("%w: need %d slots, have %d", ErrDestTooSmall, stop-start, len(dest)-destOffset)
	}
	if stop == start {
		return 0, nil
	}

	sampleRate := int(f.sampleRate)
	samplePosition := int(f.positions.Value(stop/sampleRate+1)) + 1
	skipUntilNextSampled := sampleRate - stop%sampleRate
	if stop/sampleRate == f.positions.Len()-2 {
		skipUntilNextSampled = n + 1 - stop
	}

	remaining := stop - start
	distance := 0
	for remaining > 0 {
		_, c := f.bwt.InverseSelect(samplePosition - 1)
		samplePosition = int(f.cumulativeCounts[c]) + int(f.bwt.Rank(samplePosition, c))
		if distance >= skipUntilNextSampled {
			dest[destOffset+remaining-1] = f.alphabet.codePoint(c)
			remaining--
		}
		distance++
	}
	return stop - start, nil
}

// ExtractUntilBoundary extracts the maximal substring around from that
// contains no occurrence of boundary, writing it into dest starting at
// destOffset and returning the number of symbols written. Neither boundary
// occurrence is included.
func (f *FmIndex) ExtractUntilBoundary(from int, dest []int32, destOffset int, boundary int32) (int, error) {
	return f.extractUntilBoundary(from, dest, destOffset, boundary, true, true)
}

// ExtractUntilBoundaryLeft emits only the left segment (from the boundary
// at or before `from`, exclusive, up to and including `from`).
func (f *FmIndex) ExtractUntilBoundaryLeft(from int, dest []int32, destOffset int, boundary int32) (int, error) {
	return f.extractUntilBoundary(from, dest, destOffset, boundary, true, false)
}

// ExtractUntilBoundaryRight emits only the right segment (from just after
// `from` up to the next boundary, exclusive).
func (f *FmIndex) ExtractUntilBoundaryRight(from int, dest []int32, destOffset int, boundary int32) (int, error) {
	return f.extractUntilBoundary(from, dest, destOffset, boundary, false, true)
}

func (f *FmIndex) extractUntilBoundary(from int, dest []int32, destOffset int, boundary int32, wantLeft, wantRight bool) (int, error) {
	if !f.enableExtract {
		return 0, ErrExtractNotEnabled
	}
	if _, ok := f.alphabet.lookup(boundary); !ok {
		return 0, ErrBoundaryNotInAlphabet
	}
	n := int(f.inputLength)
	if from < 0 || from >= n {
		return 0, fmt.Errorf("%w: extractUntilBoundary(%d) outside [0,%d)", ErrOutOfRange, from, n)
	}

	var left, right []int32
	if wantLeft {
		left = f.scanLeftUntilBoundary(from, boundary, n)
	}
	if wantRight {
		right = f.scanRightUntilBoundary(from, boundary, n)
	}

	total := len(left) + len(right)
	if len(dest)-destOffset < total {
		return 0, fmt.Errorf("%w: need %d slots, have %d", ErrDestTooSmall, total, len(dest)-destOffset)
	}
	copy(dest[destOffset:], left)
	copy(dest[destOffset+len(left):], right)
	return total, nil
}

// scanLeftUntilBoundary walks backward from `from` (inclusive), one symbol
// at a time via Extract, collecting symbols in text order until it emits
// boundary or reaches the start of the text.
func (f *FmIndex) scanLeftUntilBoundary(from int, boundary int32, n int) []int32 {
	var reversed []int32
	var buf [1]int32
	for pos := from; pos >= 0; pos-- {
		if _, err := f.Extract(pos, pos+1, buf[:], 0); err != nil {
			break
		}
		if buf[0] == boundary {
			break
		}
		reversed = append(reversed, buf[0])
	}
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}

// scanRightUntilBoundary walks forward from just after `from`, in batches
// of 4 symbols re-seeded from `positions`, collecting symbols until it
// emits boundary or reaches the end of the text. The batch size is an
// implementation constant, independent of the sample rate; since every batch
// is decoded by its own Extract call, any batch size works.
func (f *FmIndex) scanRightUntilBoundary(from int, boundary int32, n int) []int32 {
	const batchSize = 4
	var collected []int32
	window := make([]int32, batchSize)

	pos := from + 1
	for pos < n {
		stop := pos + batchSize
		if stop > n {
			stop = n
		}
		written, err := f.Extract(pos, stop, window, 0)
		if err != nil {
			break
		}
		done := false
		for _, c := range window[:written] {
			if c == boundary {
				done = true
				break
			}
			collected = append(collected, c)
		}
		pos = stop
		if done {
			break
		}
	}
	return collected
}
