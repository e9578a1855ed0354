package legacydb

import "errors"

const maxTrieDepth = 32

// trieResult is the outcome of one walk down the search trie.
type trieResult struct {
	// pointer is the terminal value, >= segments.
	pointer uint32
	// prefixLen is the number of address bits consumed before termination.
	prefixLen int
	visits    int
}

// walk descends the trie MSB first. Node n is 2*recordLength bytes at
// 2*recordLength*n: the first pointer is taken for a 0 bit, the second for a
// 1 bit. Any pointer >= segments ends the walk.
func (r *Reader) walk(ipnum uint32) (trieResult, error) {
	var res trieResult
	rl := int64(r.md.RecordLength)
	segments := r.md.Segments

	var node uint32
	for depth := maxTrieDepth - 1; depth >= 0; depth-- {
		off := 2 * rl * int64(node)
		buf, err := r.src.Slice(off, 2*rl)
		res.visits++
		if err != nil {
			if errors.Is(err, ErrCorrupt) || errors.Is(err, ErrClosed) {
				return res, err
			}
			return res, corrupt(off, "reading trie node %d: %v", node, err)
		}

		next := leUint(buf[:rl])
		if ipnum&(1<<uint(depth)) != 0 {
			next = leUint(buf[rl:])
		}
		if next >= segments {
			res.pointer = next
			res.prefixLen = maxTrieDepth - depth
			return res, nil
		}
		node = next
	}
	return res, corrupt(0, "trie walk for %d did not terminate within %d levels", ipnum, maxTrieDepth)
}
