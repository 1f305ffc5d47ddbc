// Package aggregator fans a search out to every registered source adapter
// and reconciles the survivors into one listing collection.
package aggregator

import (
	"context"
	"sync"
	"time"

	"priceKart/domain"
	"priceKart/internal/cache"
	"priceKart/pkg/logger"
	"priceKart/pkg/metrics"
)

// SourceAdapter is the per-platform search contract. Adapters never return
// errors; a broken adapter contributes an empty slice.
type SourceAdapter interface {
	Platform() domain.Platform
	Search(ctx context.Context, query string, category domain.Category) []domain.PriceListing
}

type Service struct {
	adapters []SourceAdapter
	memo     *cache.Memo[[]domain.PriceListing]
}

// NewService keeps the adapters in the order given; that order decides how
// results are concatenated.
func NewService(adapters []SourceAdapter, memo *cache.Memo[[]domain.PriceListing]) *Service {
	return &Service{
		adapters: adapters,
		memo:     memo,
	}
}

// SearchAllPlatforms queries every adapter concurrently through the response
// cache and in-flight deduplicator. It waits for all adapters to settle and
// never fails: if every platform errors, the result is an empty collection.
func (s *Service) SearchAllPlatforms(ctx context.Context, query string, category domain.Category) []domain.PriceListing {
	start := time.Now()
	metrics.SearchRequests.Inc()
	defer func() {
		metrics.SearchLatency.Observe(time.Since(start).Seconds())
	}()

	req := domain.AggregationRequest{Query: query, Category: category}

	listings, err := s.memo.GetOrFetch(ctx, req.Signature(), func(ctx context.Context) ([]domain.PriceListing, error) {
		return s.fanOut(ctx, query, category), nil
	})
	if err != nil {
		// Unreachable: the fan-out never fails. Kept total anyway.
		logger.Error("aggregation fetch failed", "error", err)
		return []domain.PriceListing{}
	}

	return listings
}

// fanOut races all adapters and concatenates results in registration order.
// A panicking adapter is isolated and contributes nothing.
func (s *Service) fanOut(ctx context.Context, query string, category domain.Category) []domain.PriceListing {
	results := make([][]domain.PriceListing, len(s.adapters))

	var wg sync.WaitGroup
	for i, adapter := range s.adapters {
		wg.Add(1)
		go func(i int, adapter SourceAdapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("adapter panicked", "platform", adapter.Platform(), "panic", r)
				}
			}()

			results[i] = adapter.Search(ctx, query, category)
		}(i, adapter)
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}

	out := make([]domain.PriceListing, 0, total)
	for i, r := range results {
		metrics.PlatformListings.WithLabelValues(string(s.adapters[i].Platform())).Add(float64(len(r)))
		out = append(out, r...)
	}

	logger.Debug("aggregation settled",
		"query", query, "category", category, "listings", total)

	return out
}
