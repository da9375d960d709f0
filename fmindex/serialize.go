package fmindex

import (
	"Thesis/intvec"
	"Thesis/rrrbv"
	"Thesis/serial"
	"Thesis/wavelet"
)

// WriteTo serializes the full index. As with the wavelet tree's per-
// superblock lookup, the alphabet's minimal perfect hash table is not
// itself serialized: only reverse (dense id -> code point) is persisted,
// and forward is rebuilt by mph.Build on read.
func (f *FmIndex) WriteTo(w *serial.Writer) {
	w.WriteUint64(f.inputLength)
	w.WriteUint32(f.sampleRate)
	if f.enableExtract {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}

	w.WriteUint32(uint32(len(f.alphabet.reverse)))
	for _, cp := range f.alphabet.reverse {
		w.WriteUint32(uint32(cp))
	}

	w.WriteUint64Slice(f.cumulativeCounts)

	f.bwt.WriteTo(w)
	f.sampledSuffixes.WriteTo(w)
	f.sampledBitmap.WriteTo(w)
	if f.positions != nil {
		f.positions.WriteTo(w)
	}
}

// Read deserializes an FmIndex written by WriteTo.
func Read(r *serial.Reader) *FmIndex {
	f := &FmIndex{}
	f.inputLength = r.ReadUint64()
	f.sampleRate = r.ReadUint32()
	f.enableExtract = r.ReadByte() == 1

	n := int(r.ReadUint32())
	reverse := make([]int32, n)
	keys := make([]string, 0, n-1)
	for i := range reverse {
		reverse[i] = int32(r.ReadUint32())
		if i > 0 {
			keys = append(keys, codePointKey(reverse[i]))
		}
	}
	f.alphabet = rebuildAlphabet(reverse, keys)

	f.cumulativeCounts = r.ReadUint64Slice()

	f.bwt = wavelet.ReadTree(r)
	f.sampledSuffixes = intvec.ReadFixed(r)
	f.sampledBitmap = rrrbv.ReadVec(r)
	if f.enableExtract {
		f.positions = intvec.ReadFixed(r)
	}
	return f
}
