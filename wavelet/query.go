package wavelet

import "Thesis/errutil"

// Rank returns the number of occurrences of symbol c in the first pos
// positions of the indexed sequence. pos is clamped to [0, Size()]; c
// outside [0, AlphabetSize()) returns 0.
func (t *Tree) Rank(pos int, c int32) uint64 {
	if pos <= 0 {
		return 0
	}
	if pos > t.size {
		pos = t.size
	}
	if c < 0 || int(c) >= t.alphabetSize {
		return 0
	}

	sbSelector := pos
	if sbSelector == t.size {
		sbSelector--
	}
	sbIdx, sb := t.superblockAt(sbSelector)
	hb := sb.start >> hyperBlockSizeLog
	base := t.hyperBlockRank[hb][c] + t.superBlockRank[sbIdx][c]

	local := sb.globalLookup.lookup(c)
	if local < 0 {
		return base
	}

	posInSuperblock := pos - sb.start
	blockIdx := posInSuperblock / sb.blockSize
	if blockIdx >= sb.numBlocks {
		blockIdx = sb.numBlocks - 1
	}

	blk := &sb.blocks[blockIdx]
	if !blk.contains(c) {
		// c doesn't occur in this block; its count through pos equals its
		// count at the boundary of the next block (or superblock) that
		// does contain it, since nothing between here and there changes
		// c's running total.
		next := blockIdx + 1
		for next < sb.numBlocks && !sb.blocks[next].contains(c) {
			next++
		}
		if next < sb.numBlocks {
			return base + sb.blocks[next].rankAtBoundary(c)
		}
		if sbIdx+1 >= len(t.superblocks) {
			return t.totalRank[c]
		}
		nextSb := t.superblocks[sbIdx+1]
		nextHb := nextSb.start >> hyperBlockSizeLog
		return t.hyperBlockRank[nextHb][c] + t.superBlockRank[sbIdx+1][c]
	}

	posInBlock := posInSuperblock - blockIdx*sb.blockSize
	if posInBlock > blk.size {
		posInBlock = blk.size
	}
	return base + blk.rankAtBoundary(c) + blockRank(sb, blk, posInBlock, c)
}

// blockRank returns the number of occurrences of global symbol c in the
// first posInBlock positions of blk, walking the block's Huffman trie via
// its packed header and the superblock's concatenated node bitvector.
func blockRank(sb *SuperBlockHeader, blk *BlockHeader, posInBlock int, c int32) uint64 {
	if blk.single {
		if blk.sigma == 1 && blk.localToGlobal[0] == c {
			return uint64(posInBlock)
		}
		return 0
	}
	localID, ok := blk.globalToLocal[c]
	if !ok {
		return 0
	}
	code := blk.codes[localID]

	bvRank := blk.bvRank
	bvOffset := blk.bvOffset
	internalNodesCount := 1
	leftSiblingsCount := 0
	leftSiblingsTotalBvSize := 0
	currentNodeBvSize := blk.size
	currentDepthTotalBvSize := currentNodeBvSize
	currentNodeRank := posInBlock
	depthStart := 0
	levelPtr := 0

	for depth := 0; depth < code.Length; depth++ {
		bit := (code.Value >> uint(code.Length-1-depth)) & 1

		rank1 := int(sb.rankSupport.Rank1(bvOffset + leftSiblingsTotalBvSize + currentNodeRank))
		leftSiblingsTotalOnes := 0
		if leftSiblingsCount > 0 {
			leftSiblingsTotalOnes = int(blk.onesPrefix(depthStart + leftSiblingsCount - 1))
		}
		rank1 -= bvRank + leftSiblingsTotalOnes
		currentNodeOneCount := int(blk.onesPrefix(depthStart+leftSiblingsCount)) - leftSiblingsTotalOnes
		currentNodeZeroCount := currentNodeBvSize - currentNodeOneCount
		rank0 := currentNodeRank - rank1

		bvRank += int(blk.onesPrefix(depthStart + internalNodesCount - 1))
		depthStart += internalNodesCount
		leftSiblingsCount <<= 1

		if bit == 1 {
			currentNodeRank = rank1
			currentNodeBvSize = currentNodeOneCount
			leftSiblingsCount++
			leftSiblingsTotalBvSize += currentNodeZeroCount
		} else {
			currentNodeRank = rank0
			currentNodeBvSize = currentNodeZeroCount
		}

		if depth+1 < code.Length {
			nextLeafCount, nextBvSize := blk.levelInfo(levelPtr)
			levelPtr++
			leftSiblingsTotalBvSize -= currentDepthTotalBvSize - nextBvSize
			bvOffset += currentDepthTotalBvSize
			currentDepthTotalBvSize = nextBvSize
			internalNodesCount = internalNodesCount<<1 - nextLeafCount
			leftSiblingsCount -= nextLeafCount
		}
	}
	return uint64(currentNodeRank)
}

// InverseSelect returns (Rank(pos+1, T[pos]), T[pos]): the global symbol at
// position pos together with the number of occurrences of that symbol at or
// before pos. pos must be in [0, Size()).
func (t *Tree) InverseSelect(pos int) (uint64, int32) {
	errutil.BugOn(pos < 0 || pos >= t.size, "wavelet: InverseSelect position %d outside [0, %d)", pos, t.size)

	sbIdx, sb := t.superblockAt(pos)
	posInSuperblock := pos - sb.start
	blockIdx := posInSuperblock / sb.blockSize
	blk := &sb.blocks[blockIdx]
	posInBlock := posInSuperblock - blockIdx*sb.blockSize

	rankInBlock, global := blockInverseSelect(sb, blk, posInBlock)

	hb := sb.start >> hyperBlockSizeLog
	base := t.hyperBlockRank[hb][global] + t.superBlockRank[sbIdx][global]
	prior := blk.rankAtBoundary(global)

	return base + prior + rankInBlock + 1, global
}

// blockInverseSelect decodes the symbol at posInBlock by walking the
// block's Huffman trie bit by bit (reading each bit via the superblock's
// concatenated node bitvector, since the symbol isn't known in advance),
// accumulating the codeword until a leaf boundary is reached, then
// resolving the codeword to a block-local id via blk.codeToLocal.
func blockInverseSelect(sb *SuperBlockHeader, blk *BlockHeader, posInBlock int) (uint64, int32) {
	if blk.single {
		return uint64(posInBlock), blk.localToGlobal[0]
	}

	bvRank := blk.bvRank
	bvOffset := blk.bvOffset
	internalNodesCount := 1
	leftSiblingsCount := 0
	leftSiblingsTotalBvSize := 0
	currentNodeBvSize := blk.size
	currentDepthTotalBvSize := currentNodeBvSize
	currentNodeRank := posInBlock
	depthStart := 0
	levelPtr := 0

	var code uint32
	codeLength := 0

	for {
		rankPos := bvOffset + leftSiblingsTotalBvSize + currentNodeRank
		bitVal, err := sb.rankSupport.Access(rankPos)
		errutil.BugOn(err != nil, "wavelet: corrupt block bitvector access: %v", err)

		rank1 := int(sb.rankSupport.Rank1(rankPos))
		leftSiblingsTotalOnes := 0
		if leftSiblingsCount > 0 {
			leftSiblingsTotalOnes = int(blk.onesPrefix(depthStart + leftSiblingsCount - 1))
		}
		rank1 -= bvRank + leftSiblingsTotalOnes
		currentNodeOneCount := int(blk.onesPrefix(depthStart+leftSiblingsCount)) - leftSiblingsTotalOnes
		currentNodeZeroCount := currentNodeBvSize - currentNodeOneCount
		rank0 := currentNodeRank - rank1

		bvRank += int(blk.onesPrefix(depthStart + internalNodesCount - 1))
		depthStart += internalNodesCount
		leftSiblingsCount <<= 1

		code <<= 1
		codeLength++
		if bitVal {
			code |= 1
			currentNodeRank = rank1
			currentNodeBvSize = currentNodeOneCount
			leftSiblingsCount++
			leftSiblingsTotalBvSize += currentNodeZeroCount
		} else {
			currentNodeRank = rank0
			currentNodeBvSize = currentNodeZeroCount
		}

		if levelPtr >= blk.treeHeight-1 {
			break
		}
		nextLeafCount, nextBvSize := blk.levelInfo(levelPtr)
		levelPtr++
		leftSiblingsTotalBvSize -= currentDepthTotalBvSize - nextBvSize
		bvOffset += currentDepthTotalBvSize
		currentDepthTotalBvSize = nextBvSize
		internalNodesCount = internalNodesCount<<1 - nextLeafCount
		if leftSiblingsCount >= nextLeafCount {
			leftSiblingsCount -= nextLeafCount
		} else {
			break
		}
	}

	local, ok := blk.codeToLocal[codeKey(codeLength, code)]
	errutil.BugOn(!ok, "wavelet: no canonical code of length %d value %d in block", codeLength, code)
	return uint64(currentNodeRank), blk.localToGlobal[local]
}
