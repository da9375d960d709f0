// Package intvec implements packed integer vectors backed by a []uint64
// word array: Fixed stores N values of one fixed width, Variable is a raw
// bit stream written at caller-supplied bit positions, where each written
// value carries its own width.
package intvec

import (
	"Thesis/bitutil"
	"Thesis/errutil"
	"Thesis/serial"
)

const wordSize = 64

// Fixed is an array of length values, each packed into width bits of a
// shared []uint64 word array.
type Fixed struct {
	data   []uint64
	length int
	width  int
}

// NewFixed allocates a zero-initialised vector of length elements, each
// width bits wide.
func NewFixed(length, width int) *Fixed {
	errutil.BugOn(width < 0 || width > 64, "intvec: width out of range: %d", width)
	return &Fixed{
		data:   make([]uint64, wordCount(length, width)),
		length: length,
		width:  width,
	}
}

// FromValues builds a Fixed vector holding values, each truncated to width
// bits. Callers must ensure width >= bitutil.MinBits(max(values)) to avoid
// silent truncation.
func FromValues(values []uint64, width int) *Fixed {
	v := NewFixed(len(values), width)
	for i, val := range values {
		v.Set(i, val)
	}
	return v
}

func wordCount(length, width int) int {
	bits := int64(length) * int64(width)
	if bits%wordSize == 0 {
		return int(bits / wordSize)
	}
	return int(bits/wordSize) + 1
}

// Set writes value & LowMask(width) at element position i, using this
// vector's fixed element width. It may span two words.
func (v *Fixed) Set(i int, value uint64) {
	bitPos := int64(i) * int64(v.width)
	wordIndex := int(bitPos >> 6)
	offset := int(bitPos & 63)
	value &= bitutil.LowMask(v.width)

	if offset+v.width < wordSize {
		v.data[wordIndex] = v.data[wordIndex]&(bitutil.HighMask(offset+v.width)|bitutil.LowMask(offset)) | value<<uint(offset)
		return
	}
	v.data[wordIndex] = v.data[wordIndex]&bitutil.LowMask(offset) | value<<uint(offset)
	if rem := (offset + v.width) & 63; rem > 0 {
		v.data[wordIndex+1] = v.data[wordIndex+1]&bitutil.HighMask(rem) | value>>uint(v.width-rem)
	}
}

// Get reads readWidth bits starting at element position i (element
// positions are counted in units of this vector's stored width, not
// readWidth). readWidth may differ from the stored width: this supports
// patterns where the caller wrote with variable widths at known offsets.
// There is no runtime check that readWidth matches anything; callers must
// get this right.
func (v *Fixed) Get(i, readWidth int) uint64 {
	bitPos := int64(i) * int64(v.width)
	wordIndex := int(bitPos >> 6)
	offset := int(bitPos & 63)

	left := v.data[wordIndex] >> uint(offset)
	if offset+readWidth > wordSize {
		right := (v.data[wordIndex+1] & bitutil.LowMask((offset+readWidth)&63)) << uint(wordSize-offset)
		return left | right
	}
	return left & bitutil.LowMask(readWidth)
}

// Value reads the element at i using the vector's own stored width.
func (v *Fixed) Value(i int) uint64 {
	return v.Get(i, v.width)
}

// SetWord overwrites one whole 64-bit word.
func (v *Fixed) SetWord(wordIndex int, word uint64) {
	v.data[wordIndex] = word
}

// Words returns a reference to the underlying word array.
func (v *Fixed) Words() []uint64 { return v.data }

// Len returns the number of elements (not the bit length).
func (v *Fixed) Len() int { return v.length }

// Width returns the number of bits used to store each element.
func (v *Fixed) Width() int { return v.width }

// SizeBytes returns the number of bytes used by the underlying word array.
func (v *Fixed) SizeBytes() int { return len(v.data) * 8 }

// WriteTo serializes v: length, width, then the raw words. The serialVersion
// byte is written once per stream by serial.NewWriter, not here.
func (v *Fixed) WriteTo(w *serial.Writer) {
	w.WriteUint32(uint32(v.length))
	w.WriteUint32(uint32(v.width))
	w.WriteUint64Slice(v.data)
}

// ReadFixed deserializes a Fixed vector written by WriteTo.
func ReadFixed(r *serial.Reader) *Fixed {
	length := int(r.ReadUint32())
	width := int(r.ReadUint32())
	data := r.ReadUint64Slice()
	return &Fixed{data: data, length: length, width: width}
}
