package fmindex

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"testing"

	"Thesis/serial"

	"github.com/stretchr/testify/require"
)

func runesToSymbols(s string) []int32 {
	r := []rune(s)
	out := make([]int32, len(r))
	for i, c := range r {
		out[i] = int32(c)
	}
	return out
}

func symbolsToRunes(s []int32) []rune {
	out := make([]rune, len(s))
	for i, c := range s {
		out[i] = rune(c)
	}
	return out
}

func buildIndex(t *testing.T, text string, sampleRate uint32, enableExtract bool) *FmIndex {
	t.Helper()
	idx, err := Build(runesToSymbols(text), BuildOptions{SampleRate: sampleRate, EnableExtract: enableExtract})
	require.NoError(t, err)
	return idx
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	_, err := Build(nil, BuildOptions{})
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestCountMultiSentinelText(t *testing.T) {
	text := "This \x00is a \x00long string\x00"
	idx := buildIndex(t, text, 1, false)

	require.Equal(t, uint64(2), idx.Count(runesToSymbols("is")))
	require.Equal(t, uint64(3), idx.Count(runesToSymbols("\x00")))
}

func TestCountAgainstNaiveSubstringCount(t *testing.T) {
	text := "aloha what a string this is string is eh"
	idx := buildIndex(t, text, 1, false)

	for _, pattern := range []string{"a", "is", "string", "eh", "zzz", ""} {
		expected := naiveCount(text, pattern)
		require.Equal(t, uint64(expected), idx.Count(runesToSymbols(pattern)), "pattern %q", pattern)
	}
}

func naiveCount(text, pattern string) int {
	if pattern == "" {
		return len(text) + 1
	}
	count := 0
	for i := 0; i+len(pattern) <= len(text); i++ {
		if text[i:i+len(pattern)] == pattern {
			count++
		}
	}
	return count
}

func TestCountOfSymbolOutsideAlphabetIsZero(t *testing.T) {
	idx := buildIndex(t, "aloha what a string", 1, false)
	require.Equal(t, uint64(0), idx.Count(runesToSymbols("Z")))
}

func TestLocateFindsEveryOccurrence(t *testing.T) {
	text := "string is eh string is oh string"
	idx := buildIndex(t, text, 4, true)

	pattern := runesToSymbols("string")
	dest := make([]uint32, 16)
	n := idx.Locate(pattern, 0, len(pattern), dest, -1)

	var expected []int
	for i := 0; i+len(pattern) <= len(text); i++ {
		if text[i:i+len(pattern)] == "string" {
			expected = append(expected, i)
		}
	}
	require.Len(t, expected, n)

	got := make([]int, n)
	for i := 0; i < n; i++ {
		got[i] = int(dest[i])
	}
	sort.Ints(got)
	require.Equal(t, expected, got)
}

func TestLocateNonOccurringPatternReturnsZeroAndLeavesDestUntouched(t *testing.T) {
	idx := buildIndex(t, "aloha what a string", 4, true)
	dest := []uint32{42, 42, 42}
	n := idx.Locate(runesToSymbols("zzz"), 0, 3, dest, -1)
	require.Equal(t, 0, n)
	require.Equal(t, []uint32{42, 42, 42}, dest)
}

func buildSyntheticLog(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&b, "081109 2035%02d %02d INFO root: this is line number %d with some filler text\n", i%60, i%24, i)
	}
	return b.String()
}

func TestLocateWithCapReturnsExactlyThatManyDistinctMatches(t *testing.T) {
	text := buildSyntheticLog(2000)
	idx := buildIndex(t, text, 32, true)

	pattern := runesToSymbols("INFO")
	dest := make([]uint32, 100)
	n := idx.Locate(pattern, 0, len(pattern), dest, 100)
	require.Equal(t, 100, n)

	seen := make(map[uint32]bool, n)
	for i := 0; i < n; i++ {
		pos := dest[i]
		require.False(t, seen[pos], "duplicate position %d", pos)
		seen[pos] = true
		require.Equal(t, "INFO", text[pos:pos+4])
	}
}

func TestExtractRoundTripsAgainstOriginalText(t *testing.T) {
	text := "aloha what a string this is string is eh"
	idx := buildIndex(t, text, 8, true)
	runes := []rune(text)

	for a := 0; a <= len(runes); a++ {
		for b := a; b <= len(runes); b++ {
			dest := make([]int32, b-a)
			n, err := idx.Extract(a, b, dest, 0)
			require.NoError(t, err)
			require.Equal(t, b-a, n)
			require.Equal(t, string(runes[a:b]), string(symbolsToRunes(dest)))
		}
	}
}

func TestExtractFailsWhenNotEnabled(t *testing.T) {
	idx := buildIndex(t, "aloha what a string", 4, false)
	_, err := idx.Extract(0, 3, make([]int32, 3), 0)
	require.ErrorIs(t, err, ErrExtractNotEnabled)
}

func TestExtractFailsOnTooSmallDest(t *testing.T) {
	idx := buildIndex(t, "aloha what a string", 4, true)
	_, err := idx.Extract(0, 5, make([]int32, 2), 0)
	require.ErrorIs(t, err, ErrDestTooSmall)
}

func TestExtractUntilBoundaryMatchesEachLogLine(t *testing.T) {
	const numLines = 50
	text := buildSyntheticLog(numLines)
	idx := buildIndex(t, text, 16, true)

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	from := 5 // a position within the first line
	dest := make([]int32, 4096)
	n, err := idx.ExtractUntilBoundary(from, dest, 0, '\n')
	require.NoError(t, err)
	require.Equal(t, lines[0], string(symbolsToRunes(dest[:n])))

	nextFrom := n + 1 // line 0 starts at position 0, so its newline sits at position n
	n2, err := idx.ExtractUntilBoundary(nextFrom, dest, 0, '\n')
	require.NoError(t, err)
	require.Equal(t, lines[1], string(symbolsToRunes(dest[:n2])))
}

func TestExtractUntilBoundaryLeftAndRightSplitTheFullResult(t *testing.T) {
	text := buildSyntheticLog(10)
	idx := buildIndex(t, text, 16, true)
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	runes := []rune(text)
	var from int
	for i, r := range runes {
		if r == '\n' {
			from = i + 1 + len(lines[1])/2
			break
		}
	}

	var full, left, right [4096]int32
	nFull, err := idx.ExtractUntilBoundary(from, full[:], 0, '\n')
	require.NoError(t, err)
	nLeft, err := idx.ExtractUntilBoundaryLeft(from, left[:], 0, '\n')
	require.NoError(t, err)
	nRight, err := idx.ExtractUntilBoundaryRight(from, right[:], 0, '\n')
	require.NoError(t, err)

	require.Equal(t, string(symbolsToRunes(full[:nFull])), string(symbolsToRunes(left[:nLeft]))+string(symbolsToRunes(right[:nRight])))
	require.Equal(t, lines[1], string(symbolsToRunes(full[:nFull])))
}

func TestExtractUntilBoundaryFailsForSymbolOutsideAlphabet(t *testing.T) {
	idx := buildIndex(t, "aloha what a string", 4, true)
	_, err := idx.ExtractUntilBoundary(0, make([]int32, 10), 0, 'Z')
	require.ErrorIs(t, err, ErrBoundaryNotInAlphabet)
}

func TestExtractUntilBoundaryAnyStopsAtWhicheverComesFirst(t *testing.T) {
	text := "alpha\rbeta\ngamma\r\ndelta"
	idx := buildIndex(t, text, 4, true)

	dest := make([]int32, 64)
	n, err := idx.ExtractUntilBoundaryAny(0, dest, 0, []int32{'\n', '\r'})
	require.NoError(t, err)
	require.Equal(t, "alpha", string(symbolsToRunes(dest[:n])))
}

func TestUTF8SupplementarySymbolsRank(t *testing.T) {
	text := "Chodzą jeże koło wieży, 操據支救数料新方旅日旦时映時智更最月有服未本材来東 spotkał je tam pewien Jerzyk."
	idx := buildIndex(t, text, 1, false)
	runes := []rune(text)

	naiveRankAt := func(upTo int, c rune) uint64 {
		n := uint64(0)
		for i := 0; i < upTo && i < len(runes); i++ {
			if runes[i] == c {
				n++
			}
		}
		return n
	}

	for _, scenario := range []struct {
		upTo int
		c    rune
	}{
		{36, 'ł'},
		{68, '最'},
		{12, '人'},
	} {
		// Count occurrences of c within the prefix via backward search over
		// a one-symbol pattern restricted to that prefix is not directly
		// expressible with Count; instead corroborate via full-text Count
		// agreeing with the naive full-text count, and via Locate positions
		// all falling before upTo contributing exactly the naive prefix count.
		pattern := runesToSymbols(string(scenario.c))
		dest := make([]uint32, len(runes))
		total := idx.Locate(pattern, 0, 1, dest, -1)
		prefixCount := uint64(0)
		for i := 0; i < total; i++ {
			if int(dest[i]) < scenario.upTo {
				prefixCount++
			}
		}
		require.Equal(t, naiveRankAt(scenario.upTo, scenario.c), prefixCount)
	}
}

func TestSerializationRoundTripPreservesQueries(t *testing.T) {
	text := "aloha what a string this is string is eh"
	idx := buildIndex(t, text, 4, true)

	var buf bytes.Buffer
	w := serial.NewWriter(&buf)
	idx.WriteTo(w)
	require.NoError(t, w.Err())

	r, err := serial.NewReader(&buf)
	require.NoError(t, err)
	restored := Read(r)
	require.NoError(t, r.Err())

	require.Equal(t, idx.Hash(), restored.Hash())
	require.Equal(t, idx.InputLength(), restored.InputLength())
	require.Equal(t, idx.AlphabetSize(), restored.AlphabetSize())

	for _, pattern := range []string{"string", "is", "a", "zzz"} {
		require.Equal(t, idx.Count(runesToSymbols(pattern)), restored.Count(runesToSymbols(pattern)))
	}

	runes := []rune(text)
	got := make([]int32, len(runes))
	n, err := restored.Extract(0, len(runes), got, 0)
	require.NoError(t, err)
	require.Equal(t, text, string(symbolsToRunes(got[:n])))
}
