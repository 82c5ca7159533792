// Package stringpool accumulates expanded argument strings in one shared
// backing buffer so argv assembly avoids a heap allocation per argument.
package stringpool

// Pool is an ordered accumulator of byte strings. Iteration order equals
// insertion order; there is no deduplication.
type Pool struct {
	buf  []byte
	refs []ref
}

// ref is either a range into buf or, when preOwned is set, a pre-owned
// slice.
type ref struct {
	start, end int
	owned      []byte
	preOwned   bool
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// PushStr copies b into the backing buffer and records it.
func (p *Pool) PushStr(b []byte) {
	start := len(p.buf)
	p.buf = append(p.buf, b...)
	p.refs = append(p.refs, ref{start: start, end: len(p.buf)})
}

// Push records a pre-owned slice without copying.
func (p *Pool) Push(b []byte) {
	p.refs = append(p.refs, ref{owned: b, preOwned: true})
}

// Len returns the number of strings recorded.
func (p *Pool) Len() int {
	return len(p.refs)
}

// Strings returns the recorded strings in insertion order.
func (p *Pool) Strings() [][]byte {
	out := make([][]byte, 0, len(p.refs))
	for _, r := range p.refs {
		if r.preOwned {
			out = append(out, r.owned)
			continue
		}
		out = append(out, p.buf[r.start:r.end])
	}
	return out
}
