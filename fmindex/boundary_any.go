package fmindex

import (
	"fmt"
	"unicode/utf8"

	iradix "github.com/hashicorp/go-immutable-radix"
)

// ExtractUntilBoundaryAny is like ExtractUntilBoundary but stops at the
// first occurrence of any of several boundary symbols (e.g. a log reader
// that should stop at '\n' or '\r' without caring which one it hit).
func (f *FmIndex) ExtractUntilBoundaryAny(from int, dest []int32, destOffset int, boundaries []int32) (int, error) {
	if !f.enableExtract {
		return 0, ErrExtractNotEnabled
	}
	if len(boundaries) == 0 {
		return 0, fmt.Errorf("fmindex: ExtractUntilBoundaryAny requires at least one boundary")
	}

	tree := iradix.New()
	for _, b := range boundaries {
		if _, ok := f.alphabet.lookup(b); !ok {
			return 0, ErrBoundaryNotInAlphabet
		}
		tree, _, _ = tree.Insert(boundaryKey(b), true)
	}

	n := int(f.inputLength)
	if from < 0 || from >= n {
		return 0, fmt.Errorf("%w: extractUntilBoundary(%d) outside [0,%d)", ErrOutOfRange, from, n)
	}

	isBoundary := func(c int32) bool {
		_, ok := tree.Get(boundaryKey(c))
		return ok
	}

	left := f.scanLeftUntilAny(from, isBoundary, n)
	right := f.scanRightUntilAny(from, isBoundary, n)

	total := len(left) + len(right)
	if len(dest)-destOffset < total {
		return 0, fmt.Errorf("%w: need %d slots, have %d", ErrDestTooSmall, total, len(dest)-destOffset)
	}
	copy(dest[destOffset:], left)
	copy(dest[destOffset+len(left):], right)
	return total, nil
}

func boundaryKey(c int32) []byte {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], rune(c))
	return buf[:n]
}

func (f *FmIndex) scanLeftUntilAny(from int, isBoundary func(int32) bool, n int) []int32 {
	var reversed []int32
	var buf [1]int32
	for pos := from; pos >= 0; pos-- {
		if _, err := f.Extract(pos, pos+1, buf[:], 0); err != nil {
			break
		}
		if isBoundary(buf[0]) {
			break
		}
		reversed = append(reversed, buf[0])
	}
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}

func (f *FmIndex) scanRightUntilAny(from int, isBoundary func(int32) bool, n int) []int32 {
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
			if isBoundary(c) {
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
