package testutil

import "sync"

// SeqAllocator hands out monotonically increasing fragment sequence
// numbers for tests. Plans built in a loop get stable, gap-free seq
// values without threading a counter through every helper.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SeqAllocator struct {
	mu  sync.Mutex
	seq int64
}

// NewSeqAllocator creates an allocator starting at 0.
//
// The first call to Next() returns 1.
func NewSeqAllocator() *SeqAllocator {
	return &SeqAllocator{seq: 0}
}

// Next increments and returns the next sequence number.
func (a *SeqAllocator) Next() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	return a.seq
}

// Current returns the current sequence number without incrementing.
func (a *SeqAllocator) Current() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq
}

// Reset resets the allocator to 0.
//
// Used for test reuse. After Reset(), the next call to Next() returns 1.
func (a *SeqAllocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq = 0
}
