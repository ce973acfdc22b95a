package hierarchy

// CollapseDepth is the depth from which nodes start out collapsed.
const CollapseDepth = 2

// SyntheticRootID names the node wrapping several roots.
const SyntheticRootID ComponentID = "Root"

// TreeNode is an annotated snapshot of one component in the rendered tree.
type TreeNode struct {
	ID          ComponentID `json:"id"`
	Status      Status      `json:"status,omitempty"`
	Highlighted bool        `json:"highlighted"`
	Collapsed   bool        `json:"collapsed"`
	Synthetic   bool        `json:"synthetic,omitempty"`
	Children    []*TreeNode `json:"children,omitempty"`
}

// Build derives the tree for m. Nodes at depth CollapseDepth or deeper are
// collapsed unless listed in forceExpand. Only the node whose id equals
// highlighted is marked. A nil statusOf reports every component as unknown.
//
// m must have passed Validate; Build does not guard against cycles.
func Build(m *AdjacencyMap, statusOf StatusFunc, highlighted ComponentID, forceExpand map[ComponentID]bool) *TreeNode {
	if statusOf == nil {
		statusOf = func(ComponentID) Status { return StatusUnknown }
	}
	b := builder{m: m, statusOf: statusOf, highlighted: highlighted, forceExpand: forceExpand}

	roots := m.Roots()
	nodes := make([]*TreeNode, 0, len(roots))
	for _, r := range roots {
		nodes = append(nodes, b.build(r, 0))
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	return &TreeNode{ID: SyntheticRootID, Synthetic: true, Children: nodes}
}

type builder struct {
	m           *AdjacencyMap
	statusOf    StatusFunc
	highlighted ComponentID
	forceExpand map[ComponentID]bool
}

func (b *builder) build(id ComponentID, depth int) *TreeNode {
	n := &TreeNode{
		ID:          id,
		Status:      b.statusOf(id),
		Highlighted: b.highlighted != "" && id == b.highlighted,
		Collapsed:   depth >= CollapseDepth && !b.forceExpand[id],
	}
	kids, _ := b.m.Children(id)
	if len(kids) > 0 {
		n.Children = make([]*TreeNode, 0, len(kids))
		for _, c := range kids {
			n.Children = append(n.Children, b.build(c, depth+1))
		}
	}
	return n
}

// ExpandSet turns a path into a force-expand set.
func ExpandSet(path []ComponentID) map[ComponentID]bool {
	set := make(map[ComponentID]bool, len(path))
	for _, id := range path {
		set[id] = true
	}
	return set
}

// Walk visits n and its descendants depth-first. depth is 0 for n.
// Returning false from fn skips the node's children.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int) bool) {
	var walk func(node *TreeNode, depth int)
	walk = func(node *TreeNode, depth int) {
		if !fn(node, depth) {
			return
		}
		for _, c := range node.Children {
			walk(c, depth+1)
		}
	}
	if n != nil {
		walk(n, 0)
	}
}

// Find returns the first node with the given id, or nil.
func (n *TreeNode) Find(id ComponentID) *TreeNode {
	var found *TreeNode
	n.Walk(func(node *TreeNode, _ int) bool {
		if found != nil {
			return false
		}
		if node.ID == id && !node.Synthetic {
			found = node
			return false
		}
		return true
	})
	return found
}

// Count returns the number of non-synthetic nodes in the tree.
func (n *TreeNode) Count() int {
	count := 0
	n.Walk(func(node *TreeNode, _ int) bool {
		if !node.Synthetic {
			count++
		}
		return true
	})
	return count
}

// Highlights returns the ids of highlighted nodes.
func (n *TreeNode) Highlights() []ComponentID {
	var out []ComponentID
	n.Walk(func(node *TreeNode, _ int) bool {
		if node.Highlighted {
			out = append(out, node.ID)
		}
		return true
	})
	return out
}
