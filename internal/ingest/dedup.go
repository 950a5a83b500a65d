package ingest

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Deduplicator tracks URLs already folded in, using a Bloom filter as the
// fast path with an exact map behind it for false positives.
type Deduplicator struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	exact  map[string]struct{}
	count  int
}

// NewDeduplicator creates a deduplicator sized for the estimated number
// of distinct URLs.
func NewDeduplicator(estimatedItems int) *Deduplicator {
	if estimatedItems < 1000 {
		estimatedItems = 1000
	}

	return &Deduplicator{
		filter: bloom.NewWithEstimates(uint(estimatedItems), 0.001),
		exact:  make(map[string]struct{}),
	}
}

// Seen records a URL and reports whether it had been recorded before.
func (d *Deduplicator) Seen(url string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filter.TestString(url) {
		if _, exists := d.exact[url]; exists {
			return true
		}
	}

	d.filter.AddString(url)
	d.exact[url] = struct{}{}
	d.count++
	return false
}

// Count returns the number of distinct URLs recorded.
func (d *Deduplicator) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}
