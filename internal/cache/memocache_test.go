package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrFetchCachesValue(t *testing.T) {
	m := New[string](time.Minute, 10, 0)
	defer m.Close()

	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "payload", nil
	}

	for i := 0; i < 3; i++ {
		got, err := m.GetOrFetch(context.Background(), "sig-a", fetch)
		if err != nil {
			t.Fatalf("GetOrFetch: unexpected error %v", err)
		}
		if got != "payload" {
			t.Errorf("GetOrFetch: got %q, want %q", got, "payload")
		}
	}

	if calls != 1 {
		t.Errorf("fetch calls: got %d, want 1", calls)
	}
}

func TestConcurrentCallersShareOneFetch(t *testing.T) {
	m := New[int](time.Minute, 10, 0)
	defer m.Close()

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	const n = 20
	var wg sync.WaitGroup
	results := make([]int, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.GetOrFetch(context.Background(), "shared", fetch)
		}(i)
	}

	// Let every caller reach the dedup gate before the fetch resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch calls: got %d, want 1", got)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error %v", i, errs[i])
		}
		if results[i] != 42 {
			t.Errorf("caller %d: got %d, want 42", i, results[i])
		}
	}
}

func TestFailurePropagatesAndIsNotCached(t *testing.T) {
	m := New[string](time.Minute, 10, 0)
	defer m.Close()

	wantErr := errors.New("upstream down")
	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", wantErr
		}
		return "recovered", nil
	}

	if _, err := m.GetOrFetch(context.Background(), "sig", fetch); !errors.Is(err, wantErr) {
		t.Fatalf("first call: got err %v, want %v", err, wantErr)
	}
	if m.Contains("sig") {
		t.Error("failed fetch must not be cached")
	}

	got, err := m.GetOrFetch(context.Background(), "sig", fetch)
	if err != nil {
		t.Fatalf("second call: unexpected error %v", err)
	}
	if got != "recovered" {
		t.Errorf("second call: got %q, want %q", got, "recovered")
	}
	if calls != 2 {
		t.Errorf("fetch calls: got %d, want 2", calls)
	}
}

func TestTTLExpiry(t *testing.T) {
	m := New[string](40*time.Millisecond, 10, 0)
	defer m.Close()

	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return fmt.Sprintf("v%d", calls), nil
	}

	first, _ := m.GetOrFetch(context.Background(), "sig", fetch)
	if first != "v1" {
		t.Fatalf("first: got %q, want v1", first)
	}

	time.Sleep(80 * time.Millisecond)

	if m.Contains("sig") {
		t.Error("entry past TTL must be logically absent")
	}

	second, _ := m.GetOrFetch(context.Background(), "sig", fetch)
	if second != "v2" {
		t.Errorf("after expiry: got %q, want v2 (stale payload returned)", second)
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	m := New[int](30*time.Millisecond, 10, 0)
	defer m.Close()

	for i := 0; i < 4; i++ {
		sig := fmt.Sprintf("sig-%d", i)
		m.GetOrFetch(context.Background(), sig, func(ctx context.Context) (int, error) { return i, nil })
	}
	if m.Len() != 4 {
		t.Fatalf("Len: got %d, want 4", m.Len())
	}

	time.Sleep(60 * time.Millisecond)
	m.Sweep()

	if m.Len() != 0 {
		t.Errorf("Len after sweep: got %d, want 0", m.Len())
	}
}

func TestInsertionOrderEviction(t *testing.T) {
	const capacity = 3
	m := New[int](time.Minute, capacity, 0)
	defer m.Close()

	for i := 0; i < capacity; i++ {
		sig := fmt.Sprintf("sig-%d", i)
		m.GetOrFetch(context.Background(), sig, func(ctx context.Context) (int, error) { return i, nil })
		// Touch the first entry between inserts; insertion-order eviction
		// must ignore the access.
		m.GetOrFetch(context.Background(), "sig-0", func(ctx context.Context) (int, error) {
			t.Error("sig-0 refetched while it should still be live")
			return 0, nil
		})
	}

	m.GetOrFetch(context.Background(), fmt.Sprintf("sig-%d", capacity), func(ctx context.Context) (int, error) {
		return capacity, nil
	})

	if m.Len() != capacity {
		t.Errorf("Len: got %d, want %d", m.Len(), capacity)
	}
	if m.Contains("sig-0") {
		t.Error("oldest-inserted entry should have been evicted")
	}
	for i := 1; i <= capacity; i++ {
		sig := fmt.Sprintf("sig-%d", i)
		if !m.Contains(sig) {
			t.Errorf("entry %s unexpectedly evicted", sig)
		}
	}
}
