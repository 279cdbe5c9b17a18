package cache

import (
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// recentNegativeFilter is a probabilistic membership test consulted
// before the negative cache proper: a false answer here means the key
// was definitely never denied recently, letting Find skip the
// negative-store lookup (which may hit disk) entirely. A true answer
// still requires confirming against the real negative store, since the
// filter can false-positive.
type recentNegativeFilter struct {
	mu sync.RWMutex
	bf *bitsbloom.BloomFilter
}

func newRecentNegativeFilter(expectedItems uint, falsePositiveRate float64) *recentNegativeFilter {
	return &recentNegativeFilter{bf: bitsbloom.NewWithEstimates(expectedItems, falsePositiveRate)}
}

func (f *recentNegativeFilter) add(key string) {
	f.mu.Lock()
	f.bf.AddString(key)
	f.mu.Unlock()
}

func (f *recentNegativeFilter) mightContain(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.TestString(key)
}

func (f *recentNegativeFilter) clear() {
	f.mu.Lock()
	f.bf.ClearAll()
	f.mu.Unlock()
}
