package tokenizer

import "sync"

// Accumulator sums token counts contributed by independent pipeline workers.
// The total is order-independent, so contributions may arrive in any order.
type Accumulator struct {
	mutex sync.Mutex
	total int
}

// Add records one contribution. Negative counts are ignored.
func (accumulator *Accumulator) Add(tokenCount int) {
	if tokenCount < 0 {
		return
	}
	accumulator.mutex.Lock()
	accumulator.total += tokenCount
	accumulator.mutex.Unlock()
}

// Total returns the running sum.
func (accumulator *Accumulator) Total() int {
	accumulator.mutex.Lock()
	defer accumulator.mutex.Unlock()
	return accumulator.total
}
