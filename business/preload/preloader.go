// Package preload schedules product imagery ahead of rendering. Preloading
// is strictly a latency optimization: every failure in here is swallowed and
// the real card's own load path is unaffected.
package preload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"priceKart/domain"
	"priceKart/pkg/logger"
	"priceKart/pkg/metrics"

	"golang.org/x/sync/semaphore"
)

// Tier is the scheduling class of a preload task.
type Tier string

const (
	TierCritical   Tier = "critical"
	TierBackground Tier = "background"
)

type Preloader struct {
	client    *http.Client
	batchSize int
	idleDelay time.Duration
	sem       *semaphore.Weighted

	mu       sync.Mutex
	seen     map[string]struct{}
	queue    []string
	draining bool

	wg   sync.WaitGroup
	stop chan struct{}
}

func NewPreloader(batchSize int, idleDelay, fetchTimeout time.Duration) *Preloader {
	if batchSize <= 0 {
		batchSize = 6
	}
	return &Preloader{
		client:    &http.Client{Timeout: fetchTimeout},
		batchSize: batchSize,
		idleDelay: idleDelay,
		sem:       semaphore.NewWeighted(int64(batchSize)),
		seen:      make(map[string]struct{}),
		stop:      make(chan struct{}),
	}
}

// Schedule registers the products' primary imagery for preloading. For the
// critical tier it returns preload Link header values (one per newly seen
// URL) and starts warm fetches immediately; background URLs are queued for
// batched idle-time draining. An already-seen URL is never re-scheduled,
// whatever tier it arrives on.
func (p *Preloader) Schedule(products []domain.Product, tier Tier) []string {
	var hints []string

	for _, product := range products {
		for _, imageURL := range product.PreloadImages() {
			if !p.markSeen(imageURL) {
				continue
			}
			metrics.PreloadScheduled.WithLabelValues(string(tier)).Inc()

			switch tier {
			case TierCritical:
				hints = append(hints, fmt.Sprintf("<%s>; rel=preload; as=image", imageURL))
				p.wg.Add(1)
				go func(u string) {
					defer p.wg.Done()
					p.warm(u)
				}(imageURL)
			default:
				p.enqueue(imageURL)
			}
		}
	}

	return hints
}

// Stop prevents new drain cycles and waits for in-flight fetches. In-flight
// fetches are never cancelled, only awaited.
func (p *Preloader) Stop() {
	close(p.stop)
	p.wg.Wait()
}

// markSeen returns true the first time a URL is scheduled in this process.
func (p *Preloader) markSeen(imageURL string) bool {
	if imageURL == "" {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[imageURL]; ok {
		return false
	}
	p.seen[imageURL] = struct{}{}
	return true
}

func (p *Preloader) enqueue(imageURL string) {
	p.mu.Lock()
	p.queue = append(p.queue, imageURL)
	start := !p.draining
	if start {
		p.draining = true
	}
	p.mu.Unlock()

	if start {
		p.wg.Add(1)
		go p.drain()
	}
}

// drain pulls fixed-size batches off the FIFO queue after a short idle
// delay, fetching each batch with internal unordered concurrency. It re-arms
// while the queue is non-empty and stops cleanly when it drains.
func (p *Preloader) drain() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			p.mu.Lock()
			p.draining = false
			p.mu.Unlock()
			return
		case <-time.After(p.idleDelay):
		}

		batch := p.nextBatch()
		if batch == nil {
			return
		}

		var wg sync.WaitGroup
		for _, u := range batch {
			if err := p.sem.Acquire(context.Background(), 1); err != nil {
				break
			}
			wg.Add(1)
			go func(u string) {
				defer wg.Done()
				defer p.sem.Release(1)
				p.warm(u)
			}(u)
		}
		wg.Wait()
	}
}

// nextBatch dequeues up to batchSize URLs, or ends the drain cycle (nil)
// when the queue is empty.
func (p *Preloader) nextBatch() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		p.draining = false
		return nil
	}

	n := p.batchSize
	if n > len(p.queue) {
		n = len(p.queue)
	}

	batch := make([]string, n)
	copy(batch, p.queue[:n])
	p.queue = p.queue[n:]

	return batch
}

// warm fetches one image to prime downstream caches. Failures are logged at
// most and never surfaced.
func (p *Preloader) warm(imageURL string) {
	res, err := p.client.Get(imageURL)
	if err != nil {
		metrics.PreloadFailures.Inc()
		logger.Debug("image preload failed", "url", imageURL, "error", err)
		return
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		metrics.PreloadFailures.Inc()
		logger.Debug("image preload returned non-2xx", "url", imageURL, "status", res.StatusCode)
	}
}
