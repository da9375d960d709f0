package fmindex

import "Thesis/errutil"

// Count returns the number of occurrences of pattern in the indexed text.
// A pattern symbol absent from the alphabet yields 0, never an error.
func (f *FmIndex) Count(pattern []int32) uint64 {
	return f.CountSlice(pattern, 0, len(pattern))
}

// CountSlice counts occurrences of pattern[offset:offset+length].
func (f *FmIndex) CountSlice(pattern []int32, offset, length int) uint64 {
	lo, hi, ok := f.backwardSearch(pattern, offset, length)
	if !ok {
		return 0
	}
	if hi <= lo {
		return 0
	}
	return uint64(hi - lo)
}

// backwardSearch narrows [lo, hi) to the BWT interval of suffixes starting
// with pattern[offset:offset+length], returning ok=false if any pattern
// symbol is outside the indexed alphabet.
func (f *FmIndex) backwardSearch(pattern []int32, offset, length int) (int, int, bool) {
	if length == 0 {
		return 0, int(f.cumulativeCounts[len(f.cumulativeCounts)-1]), true
	}
	i := offset + length - 1
	c, ok := f.alphabet.lookup(pattern[i])
	if !ok {
		return 0, 0, false
	}
	lo := int(f.cumulativeCounts[c])
	hi := int(f.cumulativeCounts[c+1])

	for lo < hi && i > offset {
		i--
		c, ok = f.alphabet.lookup(pattern[i])
		if !ok {
			return 0, 0, false
		}
		lo = int(f.cumulativeCounts[c]) + int(f.bwt.Rank(lo, c))
		hi = int(f.cumulativeCounts[c]) + int(f.bwt.Rank(hi, c))
	}
	return lo, hi, true
}

// Locate writes up to maxMatches text offsets where pattern occurs into
// dest, returning the number written. maxMatches < 0 means no cap beyond
// len(dest). Output order is BWT-interval order, not sorted by position.
func (f *FmIndex) Locate(pattern []int32, offset, length int, dest []uint32, maxMatches int) int {
	lo, hi, ok := f.backwardSearch(pattern, offset, length)
	if !ok || hi <= lo {
		return 0
	}

	limit := len(dest)
	if maxMatches >= 0 && maxMatches < limit {
		limit = maxMatches
	}

	count := 0
	for j := lo + 1; j <= hi && count < limit; j++ {
		k := j
		dist := uint64(0)
		for {
			sampled, err := f.sampledBitmap.Access(k - 1)
			errutil.BugOn(err != nil, "fmindex: sampled bitmap access: %v", err)
			if sampled {
				break
			}
			_, c := f.bwt.InverseSelect(k - 1)
			k = int(f.cumulativeCounts[c]) + int(f.bwt.Rank(k, c))
			dist++
		}
		sampleIdx := f.sampledBitmap.Rank1(k) - 1
		dest[count] = uint32(f.sampledSuffixes.Value(int(sampleIdx)) + dist)
		count++
	}
	return count
}
