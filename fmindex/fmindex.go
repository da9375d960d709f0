// Package fmindex implements the FM-Index shell: alphabet mapping from
// Unicode code points to a dense short-integer alphabet, construction of
// the Burrows-Wheeler transform and its fixed-block-boosting wavelet tree,
// sparsely sampled suffix-array positions, and the count/locate/extract
// query algorithms built on backward search.
package fmindex

import (
	"fmt"

	"Thesis/bitutil"
	"Thesis/bwt"
	"Thesis/intvec"
	"Thesis/rrrbv"
	"Thesis/sais"
	"Thesis/wavelet"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"
)

// FmIndex is a compressed, queryable index over a single immutable text.
// It is safe for concurrent read-only queries once built.
type FmIndex struct {
	alphabet *alphabet

	bwt              *wavelet.Tree
	cumulativeCounts []uint64

	sampledSuffixes *intvec.Fixed
	sampledBitmap   *rrrbv.Vec

	positions *intvec.Fixed // nil unless enableExtract

	inputLength   uint64
	sampleRate    uint32
	enableExtract bool
}

// BuildOptions configures FmIndex construction.
type BuildOptions struct {
	SampleRate    uint32
	EnableExtract bool
}

// Build constructs an FmIndex over text, a sequence of Unicode code points
// (or any non-negative integers <= 32767). text must not be empty.
func Build(text []int32, opts BuildOptions) (*FmIndex, error) {
	if len(text) == 0 {
		return nil, ErrEmptyInput
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 1
	}

	alpha, err := buildAlphabet(text)
	if err != nil {
		return nil, err
	}

	n := len(text)
	mapped := make([]int32, n+1)
	for i, cp := range text {
		id, ok := alpha.lookup(cp)
		if !ok {
			return nil, fmt.Errorf("fmindex: code point %d missing from discovered alphabet", cp)
		}
		mapped[i] = id
	}
	mapped[n] = 0 // sentinel

	sigma := alpha.size()
	cumulativeCounts := computeCumulativeCounts(mapped, sigma)

	sa := sais.Build(mapped)

	sampleRate := int(opts.SampleRate)
	bitWidthSuffixes := bitutil.MinBits(uint64(n + 1))
	numSamples := (n+1)/sampleRate + 1
	sampledSuffixes := intvec.NewFixed(numSamples, bitWidthSuffixes)

	bitmapBuilder := rrrbv.NewBuilder(n+1, sampleRate)
	nextSlot := 0
	for i, s := range sa {
		if int(s)%sampleRate == 0 {
			bitmapBuilder.SetBit(i)
			sampledSuffixes.Set(nextSlot, uint64(s))
			nextSlot++
		}
	}
	sampledBitmap := bitmapBuilder.Build()

	var positions *intvec.Fixed
	if opts.EnableExtract {
		posLen := (n+1)/sampleRate + 2
		positions = intvec.NewFixed(posLen, bitWidthSuffixes)
		for i, s := range sa {
			if int(s)%sampleRate == 0 {
				positions.Set(int(s)/sampleRate, uint64(i))
			}
		}
		wrapIndex := ((n+1)-1)/sampleRate + 1
		positions.Set(wrapIndex, positions.Value(0))
	}

	bwtSeq := bwt.Transform(mapped, sa)
	waveletTree := wavelet.Build(bwtSeq, sigma, sampleRate)

	return &FmIndex{
		alphabet:         alpha,
		bwt:              waveletTree,
		cumulativeCounts: cumulativeCounts,
		sampledSuffixes:  sampledSuffixes,
		sampledBitmap:    sampledBitmap,
		positions:        positions,
		inputLength:      uint64(n),
		sampleRate:       opts.SampleRate,
		enableExtract:    opts.EnableExtract,
	}, nil
}

// computeCumulativeCounts builds C: a histogram of mapped turned into a
// running prefix sum, C[sigma] = n+1.
func computeCumulativeCounts(mapped []int32, sigma int) []uint64 {
	c := make([]uint64, sigma+1)
	for _, s := range mapped {
		c[s+1]++
	}
	for i := 1; i <= sigma; i++ {
		c[i] += c[i-1]
	}
	return c
}

// InputLength returns the number of symbols in the original text, not
// counting the appended sentinel.
func (f *FmIndex) InputLength() uint64 { return f.inputLength }

// AlphabetSize returns sigma, the alphabet size including the sentinel.
func (f *FmIndex) AlphabetSize() uint32 { return uint32(f.alphabet.size()) }

// Hash returns a fingerprint of the built index, suitable for quick
// equality checks between two builds of the same text and options.
func (f *FmIndex) Hash() uint64 {
	h := xxh3.New()
	var buf [8]byte
	writeUint64 := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	writeUint64(f.inputLength)
	writeUint64(uint64(f.alphabet.size()))
	writeUint64(uint64(f.sampleRate))
	for _, c := range f.cumulativeCounts {
		writeUint64(c)
	}
	return h.Sum64()
}

// String summarizes the built index for logging and debugging.
func (f *FmIndex) String() string {
	return fmt.Sprintf(
		"FmIndex{inputLength=%s, alphabetSize=%d, sampleRate=%d, extract=%t, bwtBytes=%s}",
		humanize.Comma(int64(f.inputLength)),
		f.alphabet.size(),
		f.sampleRate,
		f.enableExtract,
		humanize.Bytes(f.approxBwtBytes()),
	)
}

func (f *FmIndex) approxBwtBytes() uint64 {
	// Rough accounting used only for the human-readable summary: the word
	// arrays of the sampled-suffix vector and, when present, the positions
	// vector. The sampled bitmap and the wavelet tree are not counted.
	total := uint64(f.sampledSuffixes.SizeBytes())
	if f.positions != nil {
		total += uint64(f.positions.SizeBytes())
	}
	return total
}
