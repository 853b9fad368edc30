package scene

// WalkFunc is called for each visited node. Returning false skips the node's children.
type WalkFunc func(n Node, parent *Group, depth int) bool

// Walk visits n and its descendants depth first, in attach order.
func Walk(n Node, fn WalkFunc) {
	walk(n, nil, 0, fn)
}

func walk(n Node, parent *Group, depth int, fn WalkFunc) {
	if n == nil || !fn(n, parent, depth) {
		return
	}
	if g, ok := n.(*Group); ok {
		for _, c := range g.children {
			walk(c, g, depth+1, fn)
		}
	}
}

// CountByKind tallies the nodes under n, including n itself.
func CountByKind(n Node) map[Kind]int {
	counts := make(map[Kind]int)
	Walk(n, func(n Node, _ *Group, _ int) bool {
		counts[n.Kind()]++
		return true
	})
	return counts
}
