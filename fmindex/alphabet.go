package fmindex

import (
	"encoding/binary"
	"fmt"

	"Thesis/utils"

	"github.com/SaveTheRbtz/mph"
)

// alphabet is the map between user code points and dense symbol ids
// {0, ..., sigma-1}, where 0 is always the sentinel. Ids for user code
// points are assigned in order of first appearance in the indexed text, not
// in code-point order; the forward direction is a minimal perfect hash over
// the fixed, immutable set of code points once building is complete, since
// the alphabet never changes again.
type alphabet struct {
	reverse []int32 // dense id -> code point; reverse[0] is unused (sentinel has no code point)
	forward *mph.Table
}

func codePointKey(cp int32) string {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(cp))
	return string(buf[:])
}

// buildAlphabet discovers the distinct code points of text in order of
// first appearance and assigns them dense ids 1..sigma-1, reserving id 0 for
// the sentinel regardless of whether code point 0 occurs in text (if it
// does, it is simply one of the user code points assigned some id >= 1,
// which is what "shifts user symbols by +1" amounts to).
func buildAlphabet(text []int32) (*alphabet, error) {
	seen := make(map[int32]bool)
	var order []int32
	for _, cp := range text {
		if cp > maxSymbol {
			return nil, fmt.Errorf("%w: code point %d", ErrOverflowsAlphabet, cp)
		}
		if !seen[cp] {
			seen[cp] = true
			order = append(order, cp)
		}
	}
	if len(order) > maxSymbol {
		return nil, fmt.Errorf("%w: %d distinct symbols", ErrAlphabetTooLarge, len(order))
	}

	reverse := make([]int32, len(order)+1)
	copy(reverse[1:], order)
	keys := utils.Map(order, codePointKey)

	a := &alphabet{reverse: reverse}
	if len(keys) > 0 {
		a.forward = mph.Build(keys)
	}
	return a, nil
}

// size is sigma, the full alphabet size including the sentinel.
func (a *alphabet) size() int { return len(a.reverse) }

// lookup returns the dense id for a code point, and whether it is present
// in the alphabet. The sentinel code point is never looked up this way.
func (a *alphabet) lookup(cp int32) (int32, bool) {
	if a.forward == nil {
		return 0, false
	}
	idx, ok := a.forward.Lookup(codePointKey(cp))
	if !ok {
		return 0, false
	}
	id := int32(idx) + 1
	if int(id) >= len(a.reverse) || a.reverse[id] != cp {
		return 0, false
	}
	return id, true
}

// codePoint returns the code point for a dense id (id 0 is the sentinel and
// has no code point; callers must not ask for it).
func (a *alphabet) codePoint(id int32) int32 { return a.reverse[id] }

// rebuildAlphabet reconstructs an alphabet from a deserialized reverse
// table and its precomputed keys, rebuilding the minimal perfect hash
// rather than persisting it.
func rebuildAlphabet(reverse []int32, keys []string) *alphabet {
	a := &alphabet{reverse: reverse}
	if len(keys) > 0 {
		a.forward = mph.Build(keys)
	}
	return a
}
