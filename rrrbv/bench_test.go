package rrrbv

import (
	"math/rand"
	"testing"

	"github.com/hillbig/rsdic"
	trie "github.com/siongui/go-succinct-data-structure-trie/reference"
)

// Benchmarks at the same sizes the teacher's own bit-vector benchmarks used,
// run against this package's Vec alongside the two oracle libraries used for
// correctness cross-checks in rrrbv_test.go, for relative performance
// visibility rather than just correctness.

func buildRandomVec(n int, sample int) *Vec {
	b := NewBuilder(n, sample)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		if r.Float32() < 0.3 {
			b.SetBit(i)
		}
	}
	return b.Build()
}

func BenchmarkVecRank1_1K(b *testing.B)   { benchmarkVecRank1(b, 1_000) }
func BenchmarkVecRank1_10K(b *testing.B)  { benchmarkVecRank1(b, 10_000) }
func BenchmarkVecRank1_100K(b *testing.B) { benchmarkVecRank1(b, 100_000) }
func BenchmarkVecRank1_1M(b *testing.B)   { benchmarkVecRank1(b, 1_000_000) }

func benchmarkVecRank1(b *testing.B, n int) {
	v := buildRandomVec(n, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Rank1(i % n)
	}
}

func BenchmarkVecAccess_1K(b *testing.B)   { benchmarkVecAccess(b, 1_000) }
func BenchmarkVecAccess_10K(b *testing.B)  { benchmarkVecAccess(b, 10_000) }
func BenchmarkVecAccess_100K(b *testing.B) { benchmarkVecAccess(b, 100_000) }
func BenchmarkVecAccess_1M(b *testing.B)   { benchmarkVecAccess(b, 1_000_000) }

func benchmarkVecAccess(b *testing.B, n int) {
	v := buildRandomVec(n, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = v.Access(i % n)
	}
}

// Oracle benchmarks, kept for side-by-side comparison against Vec above.

func BenchmarkRsdicOracleRank_100K(b *testing.B) {
	rs := rsdic.New()
	r := rand.New(rand.NewSource(42))
	const n = 100_000
	for i := 0; i < n; i++ {
		rs.PushBack(r.Float32() < 0.3)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rs.Rank(uint64(i%n), true)
	}
}

func BenchmarkSuccinctTrieOracleGet_100K(b *testing.B) {
	data := generateRandomBase64Data(100_000)
	bs := &trie.BitString{}
	bs.Init(data)
	n := len(data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bs.Get(uint(i%n), 1)
	}
}

func generateRandomBase64Data(approxBits int) string {
	charsNeeded := (approxBits + 5) / 6
	const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	r := rand.New(rand.NewSource(7))
	result := make([]byte, charsNeeded)
	for i := range result {
		result[i] = base64Chars[r.Intn(len(base64Chars))]
	}
	return string(result)
}
