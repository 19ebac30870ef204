package server

import (
	"github.com/sells-group/media-explorer/internal/color"
	"github.com/sells-group/media-explorer/internal/model"
)

// TreeNode is a hierarchy node as served to the tree view, with its
// resolved colour.
type TreeNode struct {
	Name          string            `json:"name"`
	Attribute     model.Attribute   `json:"attribute,omitempty"`
	Value         int               `json:"value"`
	AvgRating     float64           `json:"avgRating"`
	DominantType  model.TitleType   `json:"dominantType,omitempty"`
	DominantGenre string            `json:"dominantGenre,omitempty"`
	Color         string            `json:"color"`
	Remainder     bool              `json:"remainder,omitempty"`
	Record        *model.FlatRecord `json:"record,omitempty"`
	Children      []*TreeNode       `json:"children,omitempty"`
}

// BuildTree converts root for serving. A non-negative depth prunes nodes
// more than depth levels below root; values are unaffected.
func BuildTree(root *model.HierarchyNode, colors *color.Resolver, saturation model.Attribute, depth int) *TreeNode {
	if root == nil {
		return nil
	}
	return convert(root, nil, colors, saturation, depth)
}

func convert(n *model.HierarchyNode, ancestors []*model.HierarchyNode, colors *color.Resolver, saturation model.Attribute, depth int) *TreeNode {
	out := &TreeNode{
		Name:          n.Name,
		Attribute:     n.Attribute,
		Value:         n.Value,
		AvgRating:     n.AvgRating,
		DominantType:  n.DominantType,
		DominantGenre: n.DominantGenre,
		Remainder:     n.Remainder,
		Record:        n.Record,
	}
	if colors != nil {
		out.Color = colors.ResolveNode(n, ancestors, saturation).Hex
	}
	if depth == 0 {
		return out
	}
	next := append(ancestors[:len(ancestors):len(ancestors)], n)
	for _, c := range n.Children {
		out.Children = append(out.Children, convert(c, next, colors, saturation, depth-1))
	}
	return out
}
