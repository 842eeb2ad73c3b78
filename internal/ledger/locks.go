package ledger

import "sync"

// groupLocks serializes ledger writes per group. Operations on the same
// group must not interleave their read-then-write sequence; operations on
// different groups run fully in parallel.
type groupLocks struct {
	mu     sync.Mutex
	groups map[int64]*sync.Mutex
}

func newGroupLocks() *groupLocks {
	return &groupLocks{groups: make(map[int64]*sync.Mutex)}
}

// acquire locks the given group and returns the unlock function.
// Group mutexes are never removed from the map; the set of active groups
// is small and long-lived.
func (g *groupLocks) acquire(groupID int64) func() {
	g.mu.Lock()
	m, ok := g.groups[groupID]
	if !ok {
		m = &sync.Mutex{}
		g.groups[groupID] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}
