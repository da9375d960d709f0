// Package huffman computes per-block canonical Huffman code lengths and
// codes for the fixed-block-boosting wavelet tree: a standard
// priority-queue length assignment with a deterministic tie-break, and
// canonical code assignment over (length, symbol-id) order.
package huffman

import (
	"container/heap"

	"golang.org/x/exp/slices"
)

// node is one entry in the Huffman merge queue: a weight and the sorted
// list of original symbol ids it covers.
type node struct {
	weight  uint64
	symbols []int32
}

// less implements the spec's deterministic tie-break: weight ascending,
// then lexicographic order of the covered symbol-id list ascending.
func less(a, b *node) bool {
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	na, nb := len(a.symbols), len(b.symbols)
	for i := 0; i < na && i < nb; i++ {
		if a.symbols[i] != b.symbols[i] {
			return a.symbols[i] < b.symbols[i]
		}
	}
	return na < nb
}

type nodeHeap []*node

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return less(h[i], h[j]) }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// CodeLengths computes the canonical Huffman code length of every symbol
// with frequency[sym] > 0, given the frequency table over the block's
// global alphabet. Symbols with frequency 0 get length 0. A block with a
// single distinct symbol gets length 0 for that symbol (tree height 0).
func CodeLengths(frequency []uint64) []int {
	lengths := make([]int, len(frequency))
	h := &nodeHeap{}
	for sym, f := range frequency {
		if f > 0 {
			heap.Push(h, &node{weight: f, symbols: []int32{int32(sym)}})
		}
	}
	if h.Len() <= 1 {
		return lengths
	}
	for h.Len() > 1 {
		x := heap.Pop(h).(*node)
		y := heap.Pop(h).(*node)
		merged := &node{
			weight:  x.weight + y.weight,
			symbols: mergeSorted(x.symbols, y.symbols),
		}
		for _, s := range merged.symbols {
			lengths[s]++
		}
		heap.Push(h, merged)
	}
	return lengths
}

func mergeSorted(a, b []int32) []int32 {
	out := make([]int32, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return out
}

// Code is a canonical Huffman codeword: value holds codeLength low bits.
type Code struct {
	Symbol int32
	Length int
	Value  uint32
}

// CanonicalCodes assigns canonical codes to every symbol with a non-zero
// code length, in (length asc, symbol-id asc) order: starting with code 0,
// each successive code increments then left-shifts by the increase in
// length relative to the previous symbol.
func CanonicalCodes(lengths []int) []Code {
	var codes []Code
	for sym, l := range lengths {
		if l > 0 {
			codes = append(codes, Code{Symbol: int32(sym), Length: l})
		}
	}
	slices.SortFunc(codes, func(a, b Code) bool {
		if a.Length != b.Length {
			return a.Length < b.Length
		}
		return a.Symbol < b.Symbol
	})

	var code uint32
	prevLength := 0
	for i := range codes {
		if i > 0 {
			code <<= uint(codes[i].Length - prevLength)
		}
		codes[i].Value = code
		prevLength = codes[i].Length
		code++
	}
	return codes
}
