package diagrams

import "github.com/ziadkadry99/riskmap/internal/hierarchy"

// Node is one tree node in the flattened diagram.
type Node struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Parent      string           `json:"parent,omitempty"`
	Depth       int              `json:"depth"`
	Status      hierarchy.Status `json:"status,omitempty"`
	Fill        string           `json:"fill"`
	Stroke      string           `json:"stroke"`
	Highlighted bool             `json:"highlighted"`
	Collapsed   bool             `json:"collapsed"`
	Hidden      bool             `json:"hidden"` // under a collapsed ancestor
	Synthetic   bool             `json:"synthetic,omitempty"`
}

// Edge links a parent to a child in the flattened diagram.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Hidden bool   `json:"hidden"`
}

// Diagram is the node/edge form of a tree, in depth-first order.
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Flatten lists every node of tree with its style, depth and visibility.
func Flatten(tree *hierarchy.TreeNode, styles Stylesheet) Diagram {
	d := Diagram{Nodes: []Node{}, Edges: []Edge{}}
	if tree == nil {
		return d
	}
	var walk func(n *hierarchy.TreeNode, parent string, depth int, hidden bool)
	walk = func(n *hierarchy.TreeNode, parent string, depth int, hidden bool) {
		style := styles.For(n.Status)
		stroke := style.Stroke
		if n.Highlighted && styles.Highlight.Stroke != "" {
			stroke = styles.Highlight.Stroke
		}
		d.Nodes = append(d.Nodes, Node{
			ID:          string(n.ID),
			Label:       styles.Label(n.ID),
			Parent:      parent,
			Depth:       depth,
			Status:      n.Status,
			Fill:        style.Fill,
			Stroke:      stroke,
			Highlighted: n.Highlighted,
			Collapsed:   n.Collapsed,
			Hidden:      hidden,
			Synthetic:   n.Synthetic,
		})
		childHidden := hidden || n.Collapsed
		for _, c := range n.Children {
			d.Edges = append(d.Edges, Edge{From: string(n.ID), To: string(c.ID), Hidden: childHidden})
			walk(c, string(n.ID), depth+1, childHidden)
		}
	}
	walk(tree, "", 0, false)
	return d
}

// Visible returns the nodes not hidden under a collapsed ancestor.
func (d Diagram) Visible() []Node {
	var out []Node
	for _, n := range d.Nodes {
		if !n.Hidden {
			out = append(out, n)
		}
	}
	return out
}
