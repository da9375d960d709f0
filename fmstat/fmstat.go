// Package fmstat formats a built FM-Index's resource footprint for
// operational visibility: total size, per-component breakdown, and bits
// per indexed symbol.
package fmstat

import (
	"fmt"

	"Thesis/fmindex"
	"Thesis/utils"

	"github.com/dustin/go-humanize"
)

// Report summarizes a built index as a hierarchical memory report (total
// size broken down by component) plus a couple of derived FM-Index-specific
// figures the generic report shape has no room for.
type Report struct {
	utils.MemReport
	InputLength   uint64
	AlphabetSize  uint32
	BitsPerSymbol float64
}

// Summarize builds a Report from idx.
func Summarize(idx *fmindex.FmIndex) Report {
	fp := idx.Footprint()

	bitsPerSymbol := 0.0
	if idx.InputLength() > 0 {
		bitsPerSymbol = 8 * float64(fp.TotalBytes) / float64(idx.InputLength())
	}

	return Report{
		MemReport: utils.MemReport{
			Name:       "fmindex",
			TotalBytes: int(fp.TotalBytes),
			Children: []utils.MemReport{
				{Name: "alphabet table", TotalBytes: int(fp.AlphabetBytes)},
				{Name: "wavelet tree", TotalBytes: int(fp.WaveletTreeBytes)},
				{Name: "sampled suffix array + bitmap", TotalBytes: int(fp.SampledSAABytes)},
				{Name: "positions table", TotalBytes: int(fp.PositionsBytes)},
			},
		},
		InputLength:   idx.InputLength(),
		AlphabetSize:  idx.AlphabetSize(),
		BitsPerSymbol: bitsPerSymbol,
	}
}

// String renders the report as utils.MemReport's tree, prefixed with the
// index-level figures the generic shape doesn't carry.
func (r Report) String() string {
	header := fmt.Sprintf(
		"input length:  %s symbols\nalphabet size: %d\nbits/symbol:   %.2f\n",
		humanize.Comma(int64(r.InputLength)), r.AlphabetSize, r.BitsPerSymbol,
	)
	return header + r.MemReport.String()
}
