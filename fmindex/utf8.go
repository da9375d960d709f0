package fmindex

import (
	"fmt"
	"unicode/utf8"
)

// ConvertUTF8ToSymbols decodes a UTF-8 byte slice into a sequence of Unicode
// code points suitable for Build, Count, Locate and the boundary symbols
// passed to ExtractUntilBoundary. It fails if any decoded code point exceeds
// the maximum symbol value, or if bytes contains invalid UTF-8.
func ConvertUTF8ToSymbols(b []byte, dest []int32) (int, error) {
	n := utf8.RuneCount(b)
	if len(dest) < n {
		return 0, fmt.Errorf("%w: need %d slots, have %d", ErrDestTooSmall, n, len(dest))
	}
	i := 0
	total := len(b)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return 0, fmt.Errorf("fmindex: invalid UTF-8 at byte offset %d", total-len(b))
		}
		if int32(r) > maxSymbol {
			return 0, fmt.Errorf("%w: code point %d at rune offset %d", ErrOverflowsAlphabet, r, i)
		}
		dest[i] = int32(r)
		i++
		b = b[size:]
	}
	return i, nil
}
