package ast

// Arena owns the two node-list arenas of spec.md §3: node_lists (ordered
// node sequences referenced by list index) and orphan_nodes (nodes that
// are the sole child of a quantifier, held separately for stable
// indexing once their parent list is rewritten). Both arenas only grow;
// nothing is freed until the whole Arena is dropped after compilation.
type Arena struct {
	Lists   [][]Node
	Orphans []Node
}

// NewList allocates a fresh, empty node list and returns its index.
func (a *Arena) NewList() int {
	a.Lists = append(a.Lists, nil)
	return len(a.Lists) - 1
}

// Append adds n to the end of the list at the given index.
func (a *Arena) Append(list int, n Node) {
	a.Lists[list] = append(a.Lists[list], n)
}

// CloneList copies the contents of the list at src into a freshly
// allocated list and returns the new list's index. The original list
// is left untouched.
func (a *Arena) CloneList(src int) int {
	idx := a.NewList()
	cloned := make([]Node, len(a.Lists[src]))
	copy(cloned, a.Lists[src])
	a.Lists[idx] = cloned
	return idx
}

// PopLast removes and returns the last node appended to the list at
// the given index. Callers must only call this on a non-empty list.
func (a *Arena) PopLast(list int) Node {
	nodes := a.Lists[list]
	n := nodes[len(nodes)-1]
	a.Lists[list] = nodes[:len(nodes)-1]
	return n
}

// NewOrphan moves n into the orphan arena and returns its index.
func (a *Arena) NewOrphan(n Node) int {
	a.Orphans = append(a.Orphans, n)
	return len(a.Orphans) - 1
}
