package hierarchy

import (
	"github.com/sells-group/media-explorer/internal/model"
)

// Resolve walks path from root and returns the deepest bucket node reached
// together with the prefix of path that names it. Segments that do not name
// a bucket child, and everything after them, are dropped.
func Resolve(root *model.HierarchyNode, path model.FilterPath) (*model.HierarchyNode, model.FilterPath) {
	valid := model.FilterPath{}
	if root == nil {
		return nil, valid
	}
	node := root
	for _, seg := range path {
		child, ok := node.Child(seg)
		if !ok || child.Attribute == "" {
			break
		}
		node = child
		valid = append(valid, seg)
	}
	return node, valid
}

// Ancestors returns the nodes from root down to, but excluding, the node
// named by path. path must be valid for root.
func Ancestors(root *model.HierarchyNode, path model.FilterPath) []*model.HierarchyNode {
	var out []*model.HierarchyNode
	node := root
	for _, seg := range path {
		out = append(out, node)
		child, ok := node.Child(seg)
		if !ok {
			break
		}
		node = child
	}
	return out
}

// Depth returns the number of bucket levels below n.
func Depth(n *model.HierarchyNode) int {
	best := 0
	for _, c := range n.Children {
		if c.Attribute == "" {
			continue
		}
		if d := 1 + Depth(c); d > best {
			best = d
		}
	}
	return best
}
