package lineexec

import (
	"sync"

	"github.com/vicut/vicut/record"
)

// Collector reassembles out-of-order worker results into input order. Per
// §5: "the only shared mutable state is the collector's ordered output
// buffer, written under a single mutex keyed by input index; progress is
// monotone in input index." Results that arrive ahead of the next index to
// flush are held in pending; Submit drains every contiguous run starting at
// next, so memory is bounded by the widest gap between the slowest and
// fastest worker rather than by the total line count.
type Collector struct {
	mu      sync.Mutex
	next    int
	pending map[int][]record.Record
	sink    func(index int, recs []record.Record) error
}

// NewCollector builds a Collector that calls sink exactly once per index,
// in strictly increasing order, as results become contiguous.
func NewCollector(sink func(index int, recs []record.Record) error) *Collector {
	return &Collector{pending: make(map[int][]record.Record), sink: sink}
}

// Submit records the result for index and flushes every index that is now
// contiguous with the ones already flushed.
func (c *Collector) Submit(index int, recs []record.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[index] = recs
	for {
		r, ok := c.pending[c.next]
		if !ok {
			return nil
		}
		delete(c.pending, c.next)
		if err := c.sink(c.next, r); err != nil {
			return err
		}
		c.next++
	}
}
