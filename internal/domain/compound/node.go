package compound

// Node represents a compound in a dependency tree. Leaf nodes are raw materials.
type Node struct {
	Compound Compound
	Children []*Node
}

// IsLeaf returns true if this is a raw material with no inputs
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Depth returns the number of levels below and including this node
func (n *Node) Depth() int {
	if n.IsLeaf() {
		return 1
	}
	max := 0
	for _, child := range n.Children {
		if d := child.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Walk visits every node in pre-order
func (n *Node) Walk(fn func(node *Node, level int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, level int), level int) {
	fn(n, level)
	for _, child := range n.Children {
		child.walk(fn, level+1)
	}
}
