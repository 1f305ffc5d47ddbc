package preload

import "sync"

// Gate implements the per-card viewport gate. A card registers as observed
// and renders a placeholder until its visibility signal fires; the first
// trigger mounts the card and tears the observation down, so later signals
// for the same card are no-ops. Force-loaded cards skip observation and
// mount immediately.
type Gate struct {
	// Margin is how early (in px before entering the viewport) the client
	// should report visibility; Threshold is the minimal visible fraction.
	Margin    int
	Threshold float64

	mu       sync.Mutex
	observed map[string]struct{}
	mounted  map[string]struct{}
}

func NewGate(margin int, threshold float64) *Gate {
	return &Gate{
		Margin:    margin,
		Threshold: threshold,
		observed:  make(map[string]struct{}),
		mounted:   make(map[string]struct{}),
	}
}

// Register adds a card to the gate and reports whether it is mounted right
// away. forceLoad bypasses observation entirely.
func (g *Gate) Register(cardID string, forceLoad bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.mounted[cardID]; ok {
		return true
	}

	if forceLoad {
		g.mounted[cardID] = struct{}{}
		delete(g.observed, cardID)
		return true
	}

	g.observed[cardID] = struct{}{}
	return false
}

// Trigger fires the visibility signal for a card. Returns true only on the
// first trigger of an observed card; the observation is removed so the gate
// cannot fire twice.
func (g *Gate) Trigger(cardID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.observed[cardID]; !ok {
		return false
	}

	delete(g.observed, cardID)
	g.mounted[cardID] = struct{}{}
	return true
}

// Mounted reports whether a card's real content should render.
func (g *Gate) Mounted(cardID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.mounted[cardID]
	return ok
}
