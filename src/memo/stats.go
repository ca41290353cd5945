package memo

import "fmt"

// Info is a consistent snapshot of one cache's statistics: all four fields
// were read under the same critical section.
type Info struct {
	// Hits and Misses count completed lookups since creation or the last
	// Clear. They only ever grow between Clears.
	Hits   uint64
	Misses uint64

	// MaxSize is the configured capacity, or Unbounded.
	MaxSize int

	// Size is the number of live entries at snapshot time.
	Size int
}

// String renders the snapshot in a compact single-line form.
func (i Info) String() string {
	if i.MaxSize == Unbounded {
		return fmt.Sprintf("Info(hits=%d, misses=%d, maxsize=unbounded, size=%d)",
			i.Hits, i.Misses, i.Size)
	}
	return fmt.Sprintf("Info(hits=%d, misses=%d, maxsize=%d, size=%d)",
		i.Hits, i.Misses, i.MaxSize, i.Size)
}

// HitRatio is the fraction of completed lookups served from cache, or 0
// when nothing has been looked up yet.
func (i Info) HitRatio() float64 {
	total := i.Hits + i.Misses
	if total == 0 {
		return 0
	}
	return float64(i.Hits) / float64(total)
}
