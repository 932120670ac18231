package service

import "sync"

// ReplayGuard remembers the attendee ids seen during one scanning session.
// It is advisory only: it catches the same code shown twice before the
// store reflects the first write. The store stays authoritative.
//
// Entries never expire and the set is unbounded; a guard lives exactly as
// long as its session.
type ReplayGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewReplayGuard() *ReplayGuard {
	return &ReplayGuard{seen: make(map[string]struct{})}
}

func (g *ReplayGuard) HasRecentlyScanned(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.seen[id]
	return ok
}

func (g *ReplayGuard) RecordScanned(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seen[id] = struct{}{}
}

// Len returns the number of ids recorded this session.
func (g *ReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.seen)
}

// Reset forgets every recorded id.
func (g *ReplayGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	clear(g.seen)
}
