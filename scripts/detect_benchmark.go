//go:build ignore
// +build ignore

// Detection Benchmark Tool
// Measures engine throughput across the fast path, the full analysis path
// and the cache-hit path with synthetic header sets.
//
// Usage:
//   go run scripts/detect_benchmark.go --requests=100000 --workers=8

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/copyflow/detection-engine/internal/detect"
	"github.com/copyflow/detection-engine/internal/store"
)

var headerPools = map[string][]string{
	"amazon":      {"asin", "title", "price", "fulfilled-by", "browse node"},
	"shopify":     {"Handle", "Title", "Body (HTML)", "Vendor", "Variant SKU"},
	"woocommerce": {"post_title", "regular_price", "sale_price", "short_description"},
	"generic":     {"name", "description", "price", "quantity", "color"},
}

func main() {
	requests := flag.Int("requests", 100_000, "total detection requests")
	workers := flag.Int("workers", 8, "concurrent workers")
	uniques := flag.Int("uniques", 500, "distinct header sets (controls cache hit rate)")
	flag.Parse()

	cfg := detect.DefaultConfig()
	cfg.RateLimitPerMinute = 1 << 30 // not measuring the limiter
	engine := detect.NewEngine(store.NewMemoryStore(), cfg)

	pools := make([][]string, 0, len(headerPools))
	for _, p := range headerPools {
		pools = append(pools, p)
	}

	// Pre-build the request set so generation cost stays out of the
	// measurement.
	reqs := make([]*detect.Request, *uniques)
	for i := range reqs {
		pool := pools[i%len(pools)]
		headers := append([]string{fmt.Sprintf("col_%d", i)}, pool...)
		reqs[i] = &detect.Request{Headers: headers, Identity: "bench"}
	}

	var served, failed int64
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			n := *requests / *workers
			for i := 0; i < n; i++ {
				req := reqs[rng.Intn(len(reqs))]
				if _, err := engine.Detect(context.Background(), req); err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				atomic.AddInt64(&served, 1)
			}
		}(int64(w))
	}
	wg.Wait()

	elapsed := time.Since(start)
	if failed > 0 {
		log.Printf("WARNING: %d requests failed", failed)
	}
	fmt.Printf("served %d detections in %s (%.0f req/s, %d workers, %d unique header sets)\n",
		served, elapsed.Round(time.Millisecond),
		float64(served)/elapsed.Seconds(), *workers, *uniques)
}
