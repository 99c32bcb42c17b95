package pedigree

import "sync"

// entryState is the per-identifier resolution state within one build call.
// An identifier is Unvisited (absent from the map), InProgress while its
// record fetch and child recursion are in flight, or Resolved once a node
// (possibly nil) has been constructed for it.
type entryState int

const (
	stateInProgress entryState = iota + 1
	stateResolved
)

// cacheEntry holds the state and, once resolved, the memoized node.
type cacheEntry struct {
	state entryState
	node  *Node
}

// buildCache is the per-build-call memoization table. It doubles as the
// cycle guard: encountering an InProgress identifier means the identifier is,
// directly or transitively, listed as its own ancestor (or, in parallel
// builds, concurrently in flight on a sibling branch) and the branch is
// treated as unresolved. The cache must never outlive its build call.
type buildCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newBuildCache() *buildCache {
	return &buildCache{entries: make(map[string]cacheEntry)}
}

// begin atomically consults and claims an identifier. It returns the current
// state: stateInProgress or stateResolved when the identifier was already
// known (with the memoized node in the resolved case), or zero when the
// caller has claimed it and now owns its resolution.
func (c *buildCache) begin(id string) (entryState, *Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		return e.state, e.node
	}
	c.entries[id] = cacheEntry{state: stateInProgress}
	return 0, nil
}

// resolve transitions an identifier to Resolved with the constructed node,
// which may be nil for missing or failed records.
func (c *buildCache) resolve(id string, node *Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cacheEntry{state: stateResolved, node: node}
}
