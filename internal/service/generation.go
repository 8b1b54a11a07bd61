package service

import (
	"sync"
	"time"

	"github.com/JonnyWalker81/breathe/backend/internal/analytics"
)

// windowKey identifies the window selected by one analysis
type windowKey struct {
	start    time.Time
	end      time.Time
	location string
}

func newWindowKey(window analytics.Window, loc *time.Location) windowKey {
	return windowKey{start: window.Start, end: window.End, location: loc.String()}
}

func (k windowKey) equal(other windowKey) bool {
	return k.start.Equal(other.start) && k.end.Equal(other.end) && k.location == other.location
}

// userGeneration is the current generation of one user and the window it
// was started for. active counts the user's analyses still running, of any
// generation.
type userGeneration struct {
	generation uint64
	window     windowKey
	active     int
}

// generationTracker hands out analysis generations. A user gets a new
// generation only when the selected window changes; analyses of the same
// window share one. Generations are unique across users and only ever grow.
// A user's entry is dropped once none of their analyses is running.
type generationTracker struct {
	mu    sync.Mutex
	last  uint64
	users map[string]*userGeneration
}

func newGenerationTracker() *generationTracker {
	return &generationTracker{users: make(map[string]*userGeneration)}
}

// start registers a running analysis of window for userID and returns its
// generation. Every start must be paired with a finish.
func (g *generationTracker) start(userID string, window windowKey) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, ok := g.users[userID]
	if !ok {
		u = &userGeneration{}
		g.users[userID] = u
	}
	if !ok || !u.window.equal(window) {
		g.last++
		u.generation = g.last
		u.window = window
	}
	u.active++
	return u.generation
}

// finish marks one analysis of userID as done
func (g *generationTracker) finish(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, ok := g.users[userID]
	if !ok {
		return
	}
	u.active--
	if u.active <= 0 {
		delete(g.users, userID)
	}
}

// anonymous takes the next generation without tracking it
func (g *generationTracker) anonymous() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.last++
	return g.last
}

// newest returns the current generation of userID, 0 when none is running
func (g *generationTracker) newest(userID string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if u, ok := g.users[userID]; ok {
		return u.generation
	}
	return 0
}

// tracked returns the number of users with a running analysis
func (g *generationTracker) tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.users)
}
