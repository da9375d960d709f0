package rrrbv

import (
	"bytes"
	"encoding/base64"
	"math/rand"
	"testing"

	"Thesis/serial"

	siongui "github.com/siongui/go-succinct-data-structure-trie/reference"
	"github.com/hillbig/rsdic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// access is a test helper that unwraps the (bool, error) pair returned by
// Access for in-range positions, where a non-nil error would indicate a bug
// in the test itself rather than a case worth asserting on.
func access(t *testing.T, v *Vec, i int) bool {
	t.Helper()
	bit, err := v.Access(i)
	require.NoError(t, err)
	return bit
}

func TestVecWorkedExample(t *testing.T) {
	b := NewBuilder(1024, 32)
	for _, i := range []int{0, 2, 11, 18, 19, 20, 199, 512} {
		b.SetBit(i)
	}
	v := b.Build()

	assert.True(t, access(t, v, 0))
	assert.False(t, access(t, v, 1))
	assert.True(t, access(t, v, 2))
	assert.False(t, access(t, v, 15))
	assert.True(t, access(t, v, 19))
	assert.True(t, access(t, v, 199))
	assert.True(t, access(t, v, 512))

	assert.Equal(t, uint64(0), v.Rank1(0))
	assert.Equal(t, uint64(1), v.Rank1(1))
	assert.Equal(t, uint64(1), v.Rank1(2))
	assert.Equal(t, uint64(2), v.Rank1(3))

	assert.Equal(t, uint64(0), v.Rank0(0))
	assert.Equal(t, uint64(0), v.Rank0(1))
	assert.Equal(t, uint64(1), v.Rank0(2))
	assert.Equal(t, uint64(1), v.Rank0(3))
}

func TestVecCornerCases(t *testing.T) {
	// bits: 1010000... (bit0, bit2 set), 64 bits in total.
	b := NewBuilder(64, 32)
	b.SetBit(0)
	b.SetBit(2)
	v := b.Build()

	assert.Equal(t, uint64(0), v.Rank0(0))
	assert.Equal(t, uint64(0), v.Rank1(0))
	assert.Equal(t, uint64(0), v.Rank0(1))
	assert.Equal(t, uint64(1), v.Rank1(1))
	assert.Equal(t, uint64(62), v.Rank0(64))
	assert.Equal(t, uint64(2), v.Rank1(64))
}

func TestVecNegativeRankClampsToZero(t *testing.T) {
	b := NewBuilder(64, 32)
	b.SetBit(0)
	v := b.Build()
	assert.Equal(t, uint64(0), v.Rank0(-1))
	assert.Equal(t, uint64(0), v.Rank1(-1))
}

func TestVecAccessOutOfRangeReturnsError(t *testing.T) {
	b := NewBuilder(32, 32)
	v := b.Build()
	_, err := v.Access(9999)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = v.Access(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestVecRankZeroOnePlusRankOneIsClampedPosition(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 5000
	b := NewBuilder(n, 64)
	for i := 0; i < n; i++ {
		if rng.Float64() < 0.3 {
			b.SetBit(i)
		}
	}
	v := b.Build()
	for _, pos := range []int{-10, 0, 1, 37, n / 2, n - 1, n, n + 10} {
		clamped := pos
		if clamped < 0 {
			clamped = 0
		}
		if clamped > n {
			clamped = n
		}
		assert.Equal(t, uint64(clamped), v.Rank0(pos)+v.Rank1(pos), "pos=%d", pos)
	}
}

// TestVecAgainstRsdicOracle cross-checks rank against github.com/hillbig/rsdic,
// a real RRR-family rank/select bit-vector already used elsewhere in this
// dependency graph.
func TestVecAgainstRsdicOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{1, 10, 100, 1000, 10000} {
		for _, sample := range []int{4, 8, 32, 64, 256} {
			bits := make([]bool, n)
			b := NewBuilder(n, sample)
			oracle := rsdic.New()
			for i := 0; i < n; i++ {
				set := rng.Float64() < 0.5
				bits[i] = set
				if set {
					b.SetBit(i)
				}
				oracle.PushBack(set)
			}
			v := b.Build()

			require.Equal(t, oracle.Rank(uint64(n), true), v.Rank1(n), "n=%d sample=%d", n, sample)

			for i := 0; i < 50; i++ {
				p := rng.Intn(n + 1)
				assert.Equal(t, oracle.Rank(uint64(p), true), v.Rank1(p), "n=%d sample=%d p=%d", n, sample, p)
			}
			for i := 0; i < n; i++ {
				assert.Equal(t, bits[i], access(t, v, i))
			}
		}
	}
}

// TestVecTotalPopcountAgainstSionguiOracle cross-checks the vector's total
// 1-count against github.com/siongui/go-succinct-data-structure-trie's
// reference BitString, decoding the same raw bytes (encoded in the URL-safe
// base64 alphabet, which is the one that library reads). Total popcount over the
// whole buffer is independent of any bit-within-byte ordering convention, so
// this check is safe even though the two libraries may not agree on bit
// order for individual positions.
func TestVecTotalPopcountAgainstSionguiOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 777
	b := NewBuilder(n, 32)
	want := 0
	for i := 0; i < n; i++ {
		if rng.Float64() < 0.4 {
			b.SetBit(i)
			want++
		}
	}
	v := b.Build()

	raw := make([]byte, (n+7)/8)
	for i := 0; i < n; i++ {
		if access(t, v, i) {
			raw[i/8] |= 1 << uint(i%8)
		}
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)

	bs := &siongui.BitString{}
	bs.Init(encoded)
	got := bs.Count(0, uint(len(raw)*8))

	assert.Equal(t, uint(want), got)
}

func TestVecSerializationRoundTrip(t *testing.T) {
	b := NewBuilder(500, 16)
	for i := 0; i < 500; i += 3 {
		b.SetBit(i)
	}
	v := b.Build()

	var buf bytes.Buffer
	w := serial.NewWriter(&buf)
	v.WriteTo(w)
	require.NoError(t, w.Err())

	r, err := serial.NewReader(&buf)
	require.NoError(t, err)
	got := ReadVec(r)
	require.NoError(t, r.Err())

	require.Equal(t, v.Len(), got.Len())
	for i := 0; i < v.Len(); i++ {
		assert.Equal(t, access(t, v, i), access(t, got, i))
	}
	assert.Equal(t, v.Rank1(v.Len()), got.Rank1(got.Len()))
}
