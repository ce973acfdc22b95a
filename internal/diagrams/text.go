package diagrams

import (
	"fmt"
	"io"
	"strings"

	"github.com/ddddddO/gtree"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// Text writes tree as an indented text tree. Each line carries the node status;
// the highlighted node is starred and collapsed nodes show their hidden count.
func Text(w io.Writer, tree *hierarchy.TreeNode) error {
	if tree == nil {
		return nil
	}
	root := gtree.NewRoot(textLabel(tree))
	addChildren(root, tree)
	if err := gtree.OutputFromRoot(w, root); err != nil {
		return fmt.Errorf("rendering text tree: %w", err)
	}
	return nil
}

// TextString is Text rendered into a string.
func TextString(tree *hierarchy.TreeNode) (string, error) {
	var b strings.Builder
	if err := Text(&b, tree); err != nil {
		return "", err
	}
	return b.String(), nil
}

func addChildren(parent *gtree.Node, n *hierarchy.TreeNode) {
	if n.Collapsed {
		return
	}
	for _, c := range n.Children {
		addChildren(parent.Add(textLabel(c)), c)
	}
}

func textLabel(n *hierarchy.TreeNode) string {
	label := string(n.ID)
	if !n.Synthetic {
		st := n.Status
		if st == "" {
			st = hierarchy.StatusUnknown
		}
		label += " [" + string(st) + "]"
	}
	if n.Collapsed && len(n.Children) > 0 {
		label += fmt.Sprintf(" (+%d)", hiddenCount(n))
	}
	if n.Highlighted {
		label = "* " + label
	}
	return label
}
