package fmstat

import (
	"strings"
	"testing"

	"Thesis/fmindex"

	"github.com/stretchr/testify/require"
)

func TestSummarizeReportsNonZeroFootprint(t *testing.T) {
	text := []rune("aloha what a string this is string is eh")
	symbols := make([]int32, len(text))
	for i, c := range text {
		symbols[i] = int32(c)
	}

	idx, err := fmindex.Build(symbols, fmindex.BuildOptions{SampleRate: 4, EnableExtract: true})
	require.NoError(t, err)

	report := Summarize(idx)
	require.Equal(t, idx.InputLength(), report.InputLength)
	require.Equal(t, idx.AlphabetSize(), report.AlphabetSize)
	require.Greater(t, report.TotalBytes, 0)
	require.Len(t, report.Children, 4)
	for _, child := range report.Children {
		require.GreaterOrEqual(t, child.TotalBytes, 0)
	}
	require.Greater(t, report.BitsPerSymbol, 0.0)

	out := report.String()
	require.True(t, strings.Contains(out, "fmindex:"))
	require.True(t, strings.Contains(out, "wavelet tree:"))
	require.True(t, strings.Contains(out, "bits/symbol"))
}
