package view

import (
	"fmt"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// Handlers are the callbacks a renderer can trigger. Nil fields fall back to
// the defaults: clicks are ignored and hovering shows AdvisoryTooltip.
type Handlers struct {
	Click      func(node *hierarchy.TreeNode)
	HoverEnter func(node *hierarchy.TreeNode) string
}

// EventTable dispatches renderer events by node id. It is built from one tree
// and must be rebuilt when the tree is.
type EventTable struct {
	nodes    map[hierarchy.ComponentID]*hierarchy.TreeNode
	handlers Handlers
	hovered  hierarchy.ComponentID
	tooltip  string
}

// NewEventTable indexes every node of tree.
func NewEventTable(tree *hierarchy.TreeNode, h Handlers) *EventTable {
	if h.HoverEnter == nil {
		h.HoverEnter = AdvisoryTooltip
	}
	t := &EventTable{nodes: make(map[hierarchy.ComponentID]*hierarchy.TreeNode), handlers: h}
	if tree != nil {
		tree.Walk(func(n *hierarchy.TreeNode, _ int) bool {
			if !n.Synthetic {
				t.nodes[n.ID] = n
			}
			return true
		})
	}
	return t
}

// OnNodeClick dispatches a click. It reports false for ids not in the tree.
func (t *EventTable) OnNodeClick(id hierarchy.ComponentID) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	if t.handlers.Click != nil {
		t.handlers.Click(n)
	}
	return true
}

// OnNodeHoverEnter records the hovered node and returns its tooltip.
func (t *EventTable) OnNodeHoverEnter(id hierarchy.ComponentID) string {
	n, ok := t.nodes[id]
	if !ok {
		t.OnNodeHoverLeave()
		return ""
	}
	t.hovered = id
	t.tooltip = t.handlers.HoverEnter(n)
	return t.tooltip
}

// OnNodeHoverLeave clears the hover state.
func (t *EventTable) OnNodeHoverLeave() {
	t.hovered = ""
	t.tooltip = ""
}

// Hovered returns the hovered node id, if any.
func (t *EventTable) Hovered() hierarchy.ComponentID { return t.hovered }

// Tooltip returns the tooltip of the hovered node.
func (t *EventTable) Tooltip() string { return t.tooltip }

// AdvisoryTooltip warns about at-risk nodes and says nothing about the rest.
func AdvisoryTooltip(n *hierarchy.TreeNode) string {
	if n == nil || !n.Status.AtRisk() {
		return ""
	}
	if n.Status == hierarchy.StatusDown {
		return fmt.Sprintf("%s is down and may be blocking dependent components", n.ID)
	}
	return fmt.Sprintf("%s is causing instability due to deployment errors", n.ID)
}
