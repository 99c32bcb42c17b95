package pedigree

// Node is one individual in a materialized ancestor tree. Nodes are built
// once per computation and are immutable afterwards. Because the same
// ancestor can be reached through multiple lineage branches, one identifier
// may appear as several node instances, or as a single memoized instance
// shared between branches; traversal is strictly descending either way and
// nodes never reference their descendants.
type Node struct {
	// ID is the identifier of the individual.
	ID string
	// DisplayName is the human-readable name of the individual.
	DisplayName string
	// Sire is the paternal subtree, nil when unknown, unresolvable, or
	// truncated by the depth budget.
	Sire *Node
	// Dam is the maternal subtree, nil under the same conditions.
	Dam *Node
	// Inbreeding is the individual's own coefficient of inbreeding as a
	// fraction in [0, 1], taken from the stored record when available. It
	// scales the contribution of this individual as a common ancestor.
	Inbreeding float64
}
