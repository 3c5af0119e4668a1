// Package bloom provides probabilistic job-signature deduplication.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter tracks job signatures already staged during a harvest run. False
// positives skip a fresh posting at the configured rate; false negatives
// cannot occur, and the signature-keyed upsert keeps duplicates harmless
// either way.
//
// Filter is safe for concurrent use by multiple goroutines. The underlying
// bloom filter is not, so every operation holds the mutex.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected signatures
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a signature to the filter.
func (f *Filter) Add(signature string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(signature)
}

// Seen returns true if the signature might already be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Seen(signature string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(signature)
}

// SeenOrAdd reports whether the signature was already present and records
// it in a single operation.
func (f *Filter) SeenOrAdd(signature string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestOrAddString(signature)
}

// EstimatedCount returns the approximate number of signatures in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
