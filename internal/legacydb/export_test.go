package legacydb

// TrieVisits exposes the number of nodes visited while resolving ipnum.
func (r *Reader) TrieVisits(ipnum uint32) (int, error) {
	res, err := r.walk(ipnum)
	return res.visits, err
}

// DecodePointer exposes the record decoder for a terminal trie pointer.
func (r *Reader) DecodePointer(pointer uint32) (*Record, error) {
	return r.decode(pointer)
}

// TerminalPointer exposes the trie result for ipnum.
func (r *Reader) TerminalPointer(ipnum uint32) (uint32, error) {
	res, err := r.walk(ipnum)
	return res.pointer, err
}

var UnwrapContainer = unwrapContainer
