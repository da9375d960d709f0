// Package sais implements the external suffix-array primitive the FM-Index
// is built on: given an integer alphabet sequence terminated by a sentinel
// that sorts before every other symbol, it returns the suffix array. The
// algorithm is a prefix-doubling (Karp-Miller-Rosenberg / Manber-Myers
// style) rank-doubling construction, O(n log^2 n) since each of the O(log n)
// rounds is a comparison sort, rather than a linear-time
// SA-IS; the interface is what the rest of this library depends on, not
// the construction algorithm, matching the out-of-scope treatment of
// suffix-array internals.
package sais

import "sort"

// Build returns the suffix array of mapped: a permutation of [0,len(mapped))
// such that mapped[sa[i]:] is the lexicographically i-th suffix. mapped must
// be terminated by a sentinel value strictly smaller than every other
// symbol in mapped, and that sentinel must not occur anywhere else.
func Build(mapped []int32) []int32 {
	n := len(mapped)
	if n == 0 {
		return nil
	}

	rank := make([]int32, n)
	for i, v := range mapped {
		rank[i] = v
	}
	sa := make([]int32, n)
	for i := range sa {
		sa[i] = int32(i)
	}

	tmp := make([]int32, n)
	for k := 1; k < n; k *= 2 {
		cmpKey := func(i int32) (int32, int32) {
			a := rank[i]
			b := int32(-1)
			if int(i)+k < n {
				b = rank[int(i)+k]
			}
			return a, b
		}
		sort.Slice(sa, func(x, y int) bool {
			ax, bx := cmpKey(sa[x])
			ay, by := cmpKey(sa[y])
			if ax != ay {
				return ax < ay
			}
			return bx < by
		})

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			tmp[sa[i]] = tmp[sa[i-1]]
			pa, pb := cmpKey(sa[i-1])
			ca, cb := cmpKey(sa[i])
			if pa != ca || pb != cb {
				tmp[sa[i]]++
			}
		}
		copy(rank, tmp)

		if rank[sa[n-1]] == int32(n-1) {
			break
		}
	}

	return sa
}
