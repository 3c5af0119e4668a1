package bloom_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/jobharvest/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndSeen(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Signature not yet added should return false
	assert.False(t, f.Seen("a1b2c3d4e5f60718"))

	// Add signature
	f.Add("a1b2c3d4e5f60718")

	// Now it should return true
	assert.True(t, f.Seen("a1b2c3d4e5f60718"))

	// Different signature should still return false
	assert.False(t, f.Seen("ffffffffffffffff"))
}

func TestFilter_SeenOrAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.SeenOrAdd("a1b2c3d4e5f60718"))
	assert.True(t, f.SeenOrAdd("a1b2c3d4e5f60718"))
	assert.True(t, f.Seen("a1b2c3d4e5f60718"))
}

func TestFilter_ConcurrentSeenOrAdd(t *testing.T) {
	t.Parallel()

	const (
		goroutines = 8
		signatures = 200
	)

	f := bloom.NewFilter(10000, 0.01)

	// Every goroutine races over the same signature set. SeenOrAdd is
	// atomic, so per signature at most one caller may observe it as new.
	var firstSights [signatures]atomic.Int32
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range signatures {
				if !f.SeenOrAdd(fmt.Sprintf("sig-%d", i)) {
					firstSights[i].Add(1)
				}
			}
		}()
	}
	wg.Wait()

	for i := range firstSights {
		// Zero is possible via a false positive; two means both callers
		// saw the signature as new.
		assert.LessOrEqual(t, firstSights[i].Load(), int32(1),
			"signature %d reported new more than once", i)
	}
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Empty filter should have count near 0
	assert.Equal(t, uint(0), f.EstimatedCount())

	// Add some signatures
	f.Add("a1b2c3d4e5f60718")
	f.Add("b2c3d4e5f6071829")
	f.Add("c3d4e5f60718293a")

	// Estimated count should be approximately 3
	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	sig := "a1b2c3d4e5f60718"

	f.Add(sig)
	countAfterFirst := f.EstimatedCount()

	// Adding the same signature multiple times should not change the filter
	f.Add(sig)
	f.Add(sig)
	f.Add(sig)

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Seen(sig))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	// Add 10k signatures
	for i := range numItems {
		f.Add(fmt.Sprintf("sig-added-%d", i))
	}

	// Probe with 10k signatures that were NOT added
	falsePositives := 0
	for i := range testProbes {
		if f.Seen(fmt.Sprintf("sig-notadded-%d", i)) {
			falsePositives++
		}
	}

	// False positive rate should be approximately 1%
	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
