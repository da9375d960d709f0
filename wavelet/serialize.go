package wavelet

import (
	"Thesis/huffman"
	"Thesis/intvec"
	"Thesis/rrrbv"
	"Thesis/serial"
)

// WriteTo serializes the full tree. The per-superblock alphabet lookup
// (dense array or minimal perfect hash) is not itself serialized: it is
// deterministically rebuilt from the persisted localToGlobal list on read,
// since github.com/dgryski/go-boomphf's on-disk format is not part of this
// package's contract to depend on. Likewise each block's globalToLocal and
// codeToLocal maps are rebuilt from localToGlobal/codes on read.
func (t *Tree) WriteTo(w *serial.Writer) {
	w.WriteUint32(uint32(t.size))
	w.WriteUint32(uint32(t.alphabetSize))

	w.WriteUint32(uint32(len(t.hyperBlockRank)))
	for _, row := range t.hyperBlockRank {
		w.WriteUint64Slice(row)
	}
	w.WriteUint32(uint32(len(t.superBlockRank)))
	for _, row := range t.superBlockRank {
		w.WriteUint64Slice(row)
	}
	w.WriteUint64Slice(t.totalRank)

	w.WriteUint32(uint32(len(t.superblocks)))
	for _, sb := range t.superblocks {
		writeSuperblock(w, sb)
	}
}

func writeSuperblock(w *serial.Writer, sb *SuperBlockHeader) {
	w.WriteUint32(uint32(sb.start))
	w.WriteUint32(uint32(sb.end))
	w.WriteUint32(uint32(sb.blockSizeLog))
	w.WriteUint32(uint32(sb.numBlocks))

	w.WriteUint32(uint32(len(sb.localToGlobal)))
	for _, g := range sb.localToGlobal {
		w.WriteUint32(uint32(g))
	}

	sb.rankSupport.WriteTo(w)

	for i := range sb.blocks {
		writeBlockHeader(w, &sb.blocks[i])
	}
}

func writeBlockHeader(w *serial.Writer, blk *BlockHeader) {
	w.WriteUint32(uint32(blk.size))
	if blk.single {
		w.WriteByte(1)
		w.WriteUint32(uint32(blk.sigma))
		for _, g := range blk.localToGlobal {
			w.WriteUint32(uint32(g))
		}
		w.WriteUint64(blk.singleRankAtBoundary)
		return
	}
	w.WriteByte(0)

	w.WriteUint32(uint32(blk.sigma))
	w.WriteUint32(uint32(blk.treeHeight))
	for _, g := range blk.localToGlobal {
		w.WriteUint32(uint32(g))
	}
	for _, c := range blk.codes {
		w.WriteUint32(uint32(c.Length))
		w.WriteUint32(c.Value)
	}
	w.WriteUint32(uint32(blk.bvOffset))
	w.WriteUint32(uint32(blk.bvRank))
	blk.header.WriteTo(w)
}

// ReadTree deserializes a Tree written by WriteTo.
func ReadTree(r *serial.Reader) *Tree {
	t := &Tree{}
	t.size = int(r.ReadUint32())
	t.alphabetSize = int(r.ReadUint32())

	numHyper := int(r.ReadUint32())
	t.hyperBlockRank = make([][]uint64, numHyper)
	for i := range t.hyperBlockRank {
		t.hyperBlockRank[i] = r.ReadUint64Slice()
	}
	numSuper := int(r.ReadUint32())
	t.superBlockRank = make([][]uint64, numSuper)
	for i := range t.superBlockRank {
		t.superBlockRank[i] = r.ReadUint64Slice()
	}
	t.totalRank = r.ReadUint64Slice()

	numSuperblocks := int(r.ReadUint32())
	t.superblocks = make([]*SuperBlockHeader, numSuperblocks)
	for i := range t.superblocks {
		t.superblocks[i] = readSuperblock(r, t.alphabetSize)
	}
	return t
}

func readSuperblock(r *serial.Reader, alphabetSize int) *SuperBlockHeader {
	sb := &SuperBlockHeader{}
	sb.start = int(r.ReadUint32())
	sb.end = int(r.ReadUint32())
	sb.blockSizeLog = int(r.ReadUint32())
	sb.blockSize = 1 << sb.blockSizeLog
	sb.numBlocks = int(r.ReadUint32())

	sigma := int(r.ReadUint32())
	sb.sigma = sigma
	sb.localToGlobal = make([]int32, sigma)
	for i := range sb.localToGlobal {
		sb.localToGlobal[i] = int32(r.ReadUint32())
	}
	sb.globalLookup = newLookup(sb.localToGlobal, alphabetSize)

	sb.rankSupport = rrrbv.ReadVec(r)

	sb.blocks = make([]BlockHeader, sb.numBlocks)
	for i := range sb.blocks {
		sb.blocks[i] = readBlockHeader(r)
	}
	return sb
}

func readBlockHeader(r *serial.Reader) BlockHeader {
	var blk BlockHeader
	blk.size = int(r.ReadUint32())
	single := r.ReadByte()
	if single == 1 {
		blk.single = true
		sigma := int(r.ReadUint32())
		blk.sigma = sigma
		blk.localToGlobal = make([]int32, sigma)
		for i := range blk.localToGlobal {
			blk.localToGlobal[i] = int32(r.ReadUint32())
		}
		blk.singleRankAtBoundary = r.ReadUint64()
		return blk
	}

	sigma := int(r.ReadUint32())
	blk.sigma = sigma
	blk.treeHeight = int(r.ReadUint32())
	blk.localToGlobal = make([]int32, sigma)
	for i := range blk.localToGlobal {
		blk.localToGlobal[i] = int32(r.ReadUint32())
	}
	blk.globalToLocal = make(map[int32]int32, sigma)
	for local, g := range blk.localToGlobal {
		blk.globalToLocal[g] = int32(local)
	}

	blk.codes = make([]huffman.Code, sigma)
	blk.codeToLocal = make(map[uint64]int32, sigma)
	for local := range blk.codes {
		length := int(r.ReadUint32())
		value := r.ReadUint32()
		blk.codes[local] = huffman.Code{Symbol: int32(local), Length: length, Value: value}
		blk.codeToLocal[codeKey(length, value)] = int32(local)
	}

	blk.bvOffset = int(r.ReadUint32())
	blk.bvRank = int(r.ReadUint32())
	blk.header = intvec.ReadVariable(r)

	return blk
}
