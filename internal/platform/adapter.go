// Package platform holds one source adapter per upstream commerce platform.
// Each adapter translates a generic (query, category) request into a
// platform-specific call and normalizes the vendor reply into PriceListing
// records. Adapters never return errors: a failed or credential-less adapter
// falls back to its demo catalog.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"priceKart/domain"
	"priceKart/pkg/config"
	"priceKart/pkg/logger"
)

const requestTimeout = 8 * time.Second

// Adapter is the common search contract the aggregator fans out over.
type Adapter interface {
	Platform() domain.Platform
	Search(ctx context.Context, query string, category domain.Category) []domain.PriceListing
}

// searcher is the internal, fallible contract a real platform client
// implements. The fallback decorator absorbs its errors.
type searcher interface {
	search(ctx context.Context, query string, category domain.Category) ([]domain.PriceListing, error)
}

// fallbackAdapter wraps a real platform client with the demo catalog. The
// real client is nil when the platform's credential set is incomplete; it can
// also be bypassed at runtime through the admin demo-mode toggle.
type fallbackAdapter struct {
	platform domain.Platform

	mu        sync.RWMutex
	real      searcher
	forceDemo bool

	demo *demoCatalog
}

func (a *fallbackAdapter) Platform() domain.Platform {
	return a.platform
}

func (a *fallbackAdapter) Search(ctx context.Context, query string, category domain.Category) []domain.PriceListing {
	a.mu.RLock()
	real, forced := a.real, a.forceDemo
	a.mu.RUnlock()

	if real != nil && !forced {
		listings, err := real.search(ctx, query, category)
		if err == nil {
			return normalizeAll(listings)
		}
		logger.Warn("platform search failed, serving demo catalog",
			"platform", a.platform, "error", err)
	}

	return a.demo.listings(a.platform, category)
}

func (a *fallbackAdapter) demoMode() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.real == nil || a.forceDemo
}

func (a *fallbackAdapter) setForceDemo(v bool) {
	a.mu.Lock()
	a.forceDemo = v
	a.mu.Unlock()
}

func normalizeAll(listings []domain.PriceListing) []domain.PriceListing {
	now := time.Now()
	for i := range listings {
		listings[i].FetchedAt = now
		listings[i].Normalize()
	}
	return listings
}

// PlatformStatus is the admin view of one adapter.
type PlatformStatus struct {
	Platform       domain.Platform `json:"platform"`
	HasCredentials bool            `json:"has_credentials"`
	DemoMode       bool            `json:"demo_mode"`
}

// Registry owns the six adapters in registration order and exposes the admin
// surface for toggling demo mode.
type Registry struct {
	adapters []*fallbackAdapter
}

// NewRegistry wires one adapter per platform. Registration order is fixed:
// amazon, flipkart, myntra, ajio, nykaa, meesho.
func NewRegistry(cfg config.PlatformsConfig) *Registry {
	demo := newDemoCatalog()

	wrap := func(p domain.Platform, real searcher) *fallbackAdapter {
		if real == nil {
			logger.Info("platform running in demo mode", "platform", p)
		}
		return &fallbackAdapter{platform: p, real: real, demo: demo}
	}

	return &Registry{adapters: []*fallbackAdapter{
		wrap(domain.PlatformAmazon, newAmazonClient(cfg.Amazon)),
		wrap(domain.PlatformFlipkart, newFlipkartClient(cfg.Flipkart)),
		wrap(domain.PlatformMyntra, newMyntraClient(cfg.Myntra)),
		wrap(domain.PlatformAjio, newAjioClient(cfg.Ajio)),
		wrap(domain.PlatformNykaa, newNykaaClient(cfg.Nykaa)),
		wrap(domain.PlatformMeesho, newMeeshoClient(cfg.Meesho)),
	}}
}

// Adapters returns the adapters in registration order.
func (r *Registry) Adapters() []Adapter {
	out := make([]Adapter, len(r.adapters))
	for i, a := range r.adapters {
		out[i] = a
	}
	return out
}

func (r *Registry) Status() []PlatformStatus {
	out := make([]PlatformStatus, 0, len(r.adapters))
	for _, a := range r.adapters {
		a.mu.RLock()
		hasCreds := a.real != nil
		a.mu.RUnlock()

		out = append(out, PlatformStatus{
			Platform:       a.platform,
			HasCredentials: hasCreds,
			DemoMode:       a.demoMode(),
		})
	}
	return out
}

// SetDemoMode forces or releases demo mode for one platform. Releasing has
// no effect for a platform without credentials.
func (r *Registry) SetDemoMode(p domain.Platform, demo bool) error {
	for _, a := range r.adapters {
		if a.platform == p {
			a.setForceDemo(demo)
			return nil
		}
	}
	return fmt.Errorf("unknown platform %q", p)
}

// getJSON issues a GET with the shared timeout and decodes the vendor reply.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return fmt.Errorf("upstream returned status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
