package diagrams

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// Mermaid renders the visible part of tree as a top-down flowchart. Nodes get
// a class per status, the highlighted node an extra class, and collapsed nodes
// show how many descendants they hide. Node ids are assigned in visit order
// (n0, n1, ...) so distinct components never share one; the component id is
// the label.
func Mermaid(tree *hierarchy.TreeNode, styles Stylesheet) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")
	if tree == nil {
		return b.String()
	}

	used := make(map[hierarchy.Status]bool)
	var highlighted []string

	ids := make(map[*hierarchy.TreeNode]string)
	nodeID := func(n *hierarchy.TreeNode) string {
		if id, ok := ids[n]; ok {
			return id
		}
		id := fmt.Sprintf("n%d", len(ids))
		ids[n] = id
		return id
	}

	var walk func(n *hierarchy.TreeNode)
	walk = func(n *hierarchy.TreeNode) {
		id := nodeID(n)
		label := escapeMermaid(string(n.ID))
		if n.Collapsed && len(n.Children) > 0 {
			label += fmt.Sprintf(" +%d", hiddenCount(n))
		}
		st := n.Status
		if st == "" {
			st = hierarchy.StatusUnknown
		}
		used[st] = true
		fmt.Fprintf(&b, "    %s[\"%s\"]:::%s\n", id, label, st)
		if n.Highlighted {
			highlighted = append(highlighted, id)
		}
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			fmt.Fprintf(&b, "    %s --> %s\n", id, nodeID(c))
			walk(c)
		}
	}
	walk(tree)

	classes := make([]string, 0, len(used))
	for st := range used {
		classes = append(classes, string(st))
	}
	sort.Strings(classes)
	for _, c := range classes {
		style := styles.For(hierarchy.Status(c))
		fmt.Fprintf(&b, "    classDef %s fill:%s,stroke:%s,color:%s\n", c, style.Fill, style.Stroke, style.Text)
	}
	if len(highlighted) > 0 {
		fmt.Fprintf(&b, "    classDef highlighted stroke:%s,stroke-width:4px\n", styles.Highlight.Stroke)
		fmt.Fprintf(&b, "    class %s highlighted\n", strings.Join(highlighted, ","))
	}
	return b.String()
}

func hiddenCount(n *hierarchy.TreeNode) int {
	count := -1 // n itself
	n.Walk(func(*hierarchy.TreeNode, int) bool {
		count++
		return true
	})
	return count
}

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}
