package intvec

import (
	"Thesis/bitutil"
	"Thesis/serial"
)

// Variable is a packed bit stream of a fixed total bit capacity where each
// written value carries its own width. The caller tracks value boundaries
// externally; reads must supply widths matching the corresponding writes.
type Variable struct {
	data []uint64
}

// NewVariable allocates a zero-initialised stream of bitsSize raw bits.
func NewVariable(bitsSize int64) *Variable {
	n := bitsSize / wordSize
	if bitsSize%wordSize != 0 {
		n++
	}
	return &Variable{data: make([]uint64, n)}
}

// Set writes value using the minimum number of bits needed to represent it
// (bitutil.MinBits(value)), at the given absolute bit position.
func (v *Variable) Set(position int64, value uint64) {
	v.SetWidth(position, value, bitutil.MinBits(value))
}

// SetWidth writes value using exactly width bits at the given absolute bit
// position, spanning at most two words.
func (v *Variable) SetWidth(position int64, value uint64, width int) {
	wordIndex := int(position >> 6)
	offset := int(position & 63)
	value &= bitutil.LowMask(width)

	if offset+width < wordSize {
		v.data[wordIndex] = v.data[wordIndex]&(bitutil.HighMask(offset+width)|bitutil.LowMask(offset)) | value<<uint(offset)
		return
	}
	v.data[wordIndex] = v.data[wordIndex]&bitutil.LowMask(offset) | value<<uint(offset)
	if rem := (offset + width) & 63; rem > 0 {
		v.data[wordIndex+1] = v.data[wordIndex+1]&bitutil.HighMask(rem) | value>>uint(width-rem)
	}
}

// Get reads length bits starting at the given absolute bit position.
func (v *Variable) Get(position int64, length int) uint64 {
	wordIndex := int(position >> 6)
	offset := int(position & 63)

	left := v.data[wordIndex] >> uint(offset)
	if offset+length > wordSize {
		right := (v.data[wordIndex+1] & bitutil.LowMask((offset+length)&63)) << uint(wordSize-offset)
		return left | right
	}
	return left & bitutil.LowMask(length)
}

// SetWord overwrites one whole 64-bit word.
func (v *Variable) SetWord(wordIndex int, word uint64) {
	v.data[wordIndex] = word
}

// Words returns a reference to the underlying word array.
func (v *Variable) Words() []uint64 { return v.data }

// SizeBytes returns the number of bytes used by the underlying word array.
func (v *Variable) SizeBytes() int { return len(v.data) * 8 }

// WriteTo serializes v: word count, then the raw words (the serialVersion
// byte is written once per stream by serial.NewWriter). No width is stored;
// the caller tracks widths externally.
func (v *Variable) WriteTo(w *serial.Writer) {
	w.WriteUint64Slice(v.data)
}

// ReadVariable deserializes a Variable vector written by WriteTo.
func ReadVariable(r *serial.Reader) *Variable {
	return &Variable{data: r.ReadUint64Slice()}
}
