package fetch

import "sync/atomic"

// Budget caps total outbound article requests for one run. No content
// fetch may happen without a successful Take. Owned by a single
// pipeline run; never shared across runs.
type Budget struct {
	total int64
	used  atomic.Int64
}

// NewBudget creates a budget of total units. Negative totals are
// treated as zero.
func NewBudget(total int) *Budget {
	if total < 0 {
		total = 0
	}
	return &Budget{total: int64(total)}
}

// Take atomically reserves n units and reports whether the reservation
// succeeded. On refusal nothing is reserved. The check and increment
// are a single compare-and-swap, so concurrent callers can never push
// used past total.
func (b *Budget) Take(n int) bool {
	if n <= 0 {
		return true
	}
	for {
		used := b.used.Load()
		if used+int64(n) > b.total {
			return false
		}
		if b.used.CompareAndSwap(used, used+int64(n)) {
			return true
		}
	}
}

// Used returns the units reserved so far.
func (b *Budget) Used() int { return int(b.used.Load()) }

// Total returns the budget cap.
func (b *Budget) Total() int { return int(b.total) }
