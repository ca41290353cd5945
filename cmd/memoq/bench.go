package main

import (
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/seuros/gopher-memo/src/memo"
)

// fib is deliberately naive iterative work so a miss has a measurable cost.
func fib(n int) uint64 {
	var a, b uint64 = 0, 1
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return a
}

func benchCommand(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	maxSize := fs.Int("maxsize", 64, "cache capacity (0 disables, -1 unbounded)")
	calls := fs.Int("n", 100000, "calls per worker")
	workers := fs.Int("workers", 8, "concurrent workers")
	keys := fs.Int("keys", 256, "distinct key count")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *keys <= 0 || *calls <= 0 || *workers <= 0 {
		return usageErrorf("bench: -n, -workers and -keys must be positive")
	}

	cache, err := memo.New(func(args []any, kwargs map[string]any) (any, error) {
		return fib(args[0].(int)%80 + 10), nil
	}, memo.Config{MaxSize: *maxSize})
	if err != nil {
		return err
	}

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(*workers)
	for w := 0; w < *workers; w++ {
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < *calls; i++ {
				// Square the counter for a skewed key mix: low keys
				// repeat far more often than high ones.
				k := (seed + i*i) % *keys
				if _, err := cache.Call(k); err != nil {
					panic(err)
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	info := cache.Info()
	total := info.Hits + info.Misses
	fmt.Printf("%d calls in %v (%.0f calls/s)\n",
		total, elapsed.Round(time.Millisecond),
		float64(total)/elapsed.Seconds())
	fmt.Println(info)
	fmt.Printf("hit ratio: %.1f%%\n", info.HitRatio()*100)
	return nil
}
