package pedigree

// FindPaths enumerates every distinct route from root down to a node whose
// identifier equals targetID, within an already-materialized tree. Each path
// is the ordered identifier sequence from root to target, both inclusive. The
// traversal branches at every sire/dam edge, so an ancestor reached through
// structurally different branches (pedigree collapse) terminates one path per
// route. A nil root yields no paths.
func FindPaths(root *Node, targetID string) [][]string {
	var paths [][]string
	var walk func(n *Node, trail []string)
	walk = func(n *Node, trail []string) {
		if n == nil {
			return
		}
		trail = append(trail, n.ID)
		if n.ID == targetID {
			path := make([]string, len(trail))
			copy(path, trail)
			paths = append(paths, path)
			return
		}
		walk(n.Sire, trail)
		walk(n.Dam, trail)
	}
	walk(root, nil)
	return paths
}
