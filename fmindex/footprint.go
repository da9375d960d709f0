package fmindex

import "Thesis/serial"

// countingWriter discards bytes but counts them, for measuring the
// serialized size of a component without materializing it.
type countingWriter struct{ n int }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

// Footprint breaks down the serialized size of a built index by component,
// for operational visibility into where its bytes go.
type Footprint struct {
	AlphabetBytes    uint64
	WaveletTreeBytes uint64
	SampledSAABytes  uint64
	PositionsBytes   uint64
	TotalBytes       uint64
}

// Footprint measures the serialized size of each major component.
func (f *FmIndex) Footprint() Footprint {
	var fp Footprint

	var cw countingWriter
	w := serial.NewWriter(&cw)
	w.WriteUint32(uint32(len(f.alphabet.reverse)))
	for _, cp := range f.alphabet.reverse {
		w.WriteUint32(uint32(cp))
	}
	fp.AlphabetBytes = uint64(cw.n)

	cw = countingWriter{}
	w = serial.NewWriter(&cw)
	f.bwt.WriteTo(w)
	fp.WaveletTreeBytes = uint64(cw.n)

	cw = countingWriter{}
	w = serial.NewWriter(&cw)
	f.sampledSuffixes.WriteTo(w)
	f.sampledBitmap.WriteTo(w)
	fp.SampledSAABytes = uint64(cw.n)

	if f.positions != nil {
		cw = countingWriter{}
		w = serial.NewWriter(&cw)
		f.positions.WriteTo(w)
		fp.PositionsBytes = uint64(cw.n)
	}

	fp.TotalBytes = fp.AlphabetBytes + fp.WaveletTreeBytes + fp.SampledSAABytes + fp.PositionsBytes
	return fp
}
