package pedigree

// CollectAncestors flattens the subtree rooted at node into pre-order:
// the node itself, then the sire subtree, then the dam subtree. A nil node
// yields an empty slice. Identifiers reached through multiple branches appear
// once per occurrence; use AncestorSet for the de-duplicated view.
func CollectAncestors(node *Node) []*Node {
	if node == nil {
		return nil
	}
	nodes := []*Node{node}
	nodes = append(nodes, CollectAncestors(node.Sire)...)
	nodes = append(nodes, CollectAncestors(node.Dam)...)
	return nodes
}

// AncestorSet reduces the subtree rooted at node to the set of reachable
// identifiers, mapped to the first-seen node instance in pre-order. The
// coefficient formula does not depend on which instance is kept; first-seen
// is retained for stable bookkeeping.
func AncestorSet(node *Node) map[string]*Node {
	set := make(map[string]*Node)
	for _, n := range CollectAncestors(node) {
		if _, seen := set[n.ID]; !seen {
			set[n.ID] = n
		}
	}
	return set
}
