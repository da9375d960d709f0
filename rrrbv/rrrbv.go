// Package rrrbv implements a compressed bit-vector with O(1) rank on 0s
// and 1s and O(1) access: the raw bits packed into words, plus a sampled
// array of cumulative 1-counts at every s-th bit.
package rrrbv

import (
	"errors"
	"fmt"
	"math/bits"

	"Thesis/bitutil"
	"Thesis/errutil"
	"Thesis/intvec"
	"Thesis/serial"
)

// ErrOutOfRange is returned by Access when the requested position falls
// outside [0, N). Matches the library's Query/OutOfRange error contract.
var ErrOutOfRange = errors.New("rrrbv: access position out of range")

// Vec is a rank/access-enabled compressed bit-vector.
type Vec struct {
	raw      []uint64
	n        int
	sample   int
	samples1 *intvec.Fixed
}

// Builder fills a bit sequence of n bits, all initially 0, with the given
// sample period (typically 8-256) before it is finalized into a queryable
// Vec. This two-phase construction matches how the wavelet tree fills one
// superblock's concatenated node bitvector incrementally.
type Builder struct {
	raw    []uint64
	n      int
	sample int
}

// NewBuilder allocates a zero-initialised bit sequence of n bits.
func NewBuilder(n, sample int) *Builder {
	errutil.BugOn(sample <= 0, "rrrbv: sample period must be positive, got %d", sample)
	return &Builder{
		raw:    make([]uint64, (n+63)/64),
		n:      n,
		sample: sample,
	}
}

// SetBit sets bit i to 1. Bits default to 0.
func (b *Builder) SetBit(i int) {
	b.raw[i/64] |= uint64(1) << uint(i%64)
}

// Build finalizes the bit-vector, computing the sampled rank array.
func (b *Builder) Build() *Vec {
	return fromRaw(b.raw, b.n, b.sample)
}

// FromBits builds a Vec directly from a caller-supplied []uint64 word
// array of n bits (useful when the caller already assembled the raw words).
// The input words are copied.
func FromBits(raw []uint64, n, sample int) *Vec {
	words := make([]uint64, len(raw))
	copy(words, raw)
	return fromRaw(words, n, sample)
}

func fromRaw(raw []uint64, n, sample int) *Vec {
	errutil.BugOn(sample <= 0, "rrrbv: sample period must be positive, got %d", sample)
	numSamples := n/sample + 1
	total := popcountAll(raw)
	width := bitutil.MinBits(uint64(total))
	if w := bitutil.MinBits(uint64(n)); w > width {
		width = w
	}
	samples1 := intvec.NewFixed(numSamples, width)
	running := uint64(0)
	nextSample := 0
	for i := 0; i <= n; i++ {
		if i%sample == 0 {
			samples1.Set(nextSample, running)
			nextSample++
		}
		if i < n && bitAt(raw, i) {
			running++
		}
	}
	return &Vec{raw: raw, n: n, sample: sample, samples1: samples1}
}

func bitAt(raw []uint64, i int) bool {
	return raw[i/64]&(uint64(1)<<uint(i%64)) != 0
}

func popcountAll(raw []uint64) uint64 {
	var total uint64
	for _, w := range raw {
		total += uint64(bits.OnesCount64(w))
	}
	return total
}

// Len returns the logical bit length N.
func (v *Vec) Len() int { return v.n }

// Access returns bit i. i must be in [0, N); out-of-range access returns
// ErrOutOfRange, matching the RRR contract that access (unlike rank) does
// not clamp.
func (v *Vec) Access(i int) (bool, error) {
	if i < 0 || i >= v.n {
		return false, fmt.Errorf("%w: requested %d when range is [0, %d)", ErrOutOfRange, i, v.n)
	}
	return bitAt(v.raw, i), nil
}

// Rank1 returns the number of 1-bits strictly before pos. Positions <= 0
// return 0; positions >= N return the total popcount.
func (v *Vec) Rank1(pos int) uint64 {
	if pos <= 0 {
		return 0
	}
	if pos > v.n {
		pos = v.n
	}
	sampleIdx := pos / v.sample
	rank := v.samples1.Value(sampleIdx)
	start := sampleIdx * v.sample
	for i := start; i < pos; i++ {
		if bitAt(v.raw, i) {
			rank++
		}
	}
	return rank
}

// Rank0 returns the number of 0-bits strictly before pos, computed as
// clamp(pos, 0, N) - Rank1(pos).
func (v *Vec) Rank0(pos int) uint64 {
	clamped := pos
	if clamped < 0 {
		clamped = 0
	}
	if clamped > v.n {
		clamped = v.n
	}
	return uint64(clamped) - v.Rank1(pos)
}

// WriteTo serializes v: N, sample period, then the Fixed samples1 vector
// and the raw words.
func (v *Vec) WriteTo(w *serial.Writer) {
	w.WriteUint32(uint32(v.n))
	w.WriteUint32(uint32(v.sample))
	v.samples1.WriteTo(w)
	w.WriteUint64Slice(v.raw)
}

// ReadVec deserializes a Vec written by WriteTo.
func ReadVec(r *serial.Reader) *Vec {
	n := int(r.ReadUint32())
	sample := int(r.ReadUint32())
	samples1 := intvec.ReadFixed(r)
	raw := r.ReadUint64Slice()
	return &Vec{raw: raw, n: n, sample: sample, samples1: samples1}
}
