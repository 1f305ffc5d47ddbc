package preload

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"priceKart/domain"
)

type countingServer struct {
	mu   sync.Mutex
	hits map[string]int
	srv  *httptest.Server
}

func newCountingServer() *countingServer {
	c := &countingServer{hits: make(map[string]int)}
	c.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.hits[r.URL.Path]++
		c.mu.Unlock()
		w.Write([]byte("img"))
	}))
	return c
}

func (c *countingServer) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits[path]
}

func (c *countingServer) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.hits {
		n += v
	}
	return n
}

func productWith(images ...string) domain.Product {
	return domain.Product{Images: images}
}

func TestCriticalScheduleEmitsHintAndWarmsOnce(t *testing.T) {
	srv := newCountingServer()
	defer srv.srv.Close()

	p := NewPreloader(6, 10*time.Millisecond, 2*time.Second)
	url := srv.srv.URL + "/hero.jpg"

	hints := p.Schedule([]domain.Product{productWith(url)}, TierCritical)
	if len(hints) != 1 {
		t.Fatalf("hints: got %d, want 1", len(hints))
	}
	want := "<" + url + ">; rel=preload; as=image"
	if hints[0] != want {
		t.Errorf("hint: got %q, want %q", hints[0], want)
	}

	// Critical again, then background: neither may refetch.
	if again := p.Schedule([]domain.Product{productWith(url)}, TierCritical); len(again) != 0 {
		t.Errorf("second critical schedule: got %d hints, want 0", len(again))
	}
	p.Schedule([]domain.Product{productWith(url)}, TierBackground)

	p.Stop()

	if got := srv.count("/hero.jpg"); got != 1 {
		t.Errorf("fetches: got %d, want exactly 1", got)
	}
}

func TestBackgroundScheduleIsIdempotent(t *testing.T) {
	srv := newCountingServer()
	defer srv.srv.Close()

	p := NewPreloader(6, 5*time.Millisecond, 2*time.Second)
	url := srv.srv.URL + "/card.jpg"

	p.Schedule([]domain.Product{productWith(url)}, TierBackground)
	p.Schedule([]domain.Product{productWith(url)}, TierBackground)

	time.Sleep(100 * time.Millisecond)
	p.Stop()

	if got := srv.count("/card.jpg"); got != 1 {
		t.Errorf("fetches: got %d, want exactly 1", got)
	}
}

func TestBackgroundQueueDrainsInBatches(t *testing.T) {
	srv := newCountingServer()
	defer srv.srv.Close()

	p := NewPreloader(3, 5*time.Millisecond, 2*time.Second)

	products := make([]domain.Product, 0, 8)
	for i := 0; i < 8; i++ {
		products = append(products, productWith(srv.srv.URL+"/img-"+string(rune('a'+i))+".jpg"))
	}

	p.Schedule(products, TierBackground)

	time.Sleep(200 * time.Millisecond)
	p.Stop()

	if got := srv.total(); got != 8 {
		t.Errorf("total fetches: got %d, want 8 (queue fully drained)", got)
	}
}

func TestScheduleTakesAtMostTwoImages(t *testing.T) {
	p := NewPreloader(6, time.Hour, time.Second)
	defer p.Stop()

	hints := p.Schedule([]domain.Product{
		productWith("https://img/a.jpg", "https://img/b.jpg", "https://img/c.jpg"),
	}, TierCritical)

	if len(hints) != 2 {
		t.Fatalf("hints: got %d, want 2", len(hints))
	}
	for _, h := range hints {
		if strings.Contains(h, "c.jpg") {
			t.Errorf("third image must not be scheduled: %q", h)
		}
	}
}

func TestPreloadFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewPreloader(6, 5*time.Millisecond, 2*time.Second)
	p.Schedule([]domain.Product{productWith(srv.URL + "/missing.jpg")}, TierBackground)

	time.Sleep(50 * time.Millisecond)
	p.Stop() // must not panic or block
}

func TestGateForceLoadMountsImmediately(t *testing.T) {
	g := NewGate(300, 0.01)

	if !g.Register("card-1", true) {
		t.Error("forceLoad card must mount with no intersection signal")
	}
	if !g.Mounted("card-1") {
		t.Error("forceLoad card must report mounted")
	}
}

func TestGateFiresOnce(t *testing.T) {
	g := NewGate(300, 0.01)

	if g.Register("card-2", false) {
		t.Error("observed card must start unmounted")
	}
	if g.Mounted("card-2") {
		t.Error("card mounted before any trigger")
	}

	if !g.Trigger("card-2") {
		t.Error("first trigger must fire")
	}
	if !g.Mounted("card-2") {
		t.Error("card must be mounted after first trigger")
	}
	if g.Trigger("card-2") {
		t.Error("second trigger must be a no-op (observation torn down)")
	}

	if g.Trigger("never-registered") {
		t.Error("trigger for unknown card must not fire")
	}
}

func TestGateReRegisterMountedCard(t *testing.T) {
	g := NewGate(300, 0.01)

	g.Register("card-3", false)
	g.Trigger("card-3")

	// A mounted card re-rendering stays mounted without a new observation.
	if !g.Register("card-3", false) {
		t.Error("re-registering a mounted card must report mounted")
	}
}
