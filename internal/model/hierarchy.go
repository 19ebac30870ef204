package model

// RootLabel is the name of the synthetic root node.
const RootLabel = "Media"

// OtherLabel is the synthetic bucket that collects genres outside the top N.
const OtherLabel = "Other"

// IsSentinel reports whether a bucket label is synthetic and must not be
// compared against a literal field value.
func IsSentinel(label string) bool {
	return label == OtherLabel || label == RootLabel
}

// HierarchyNode is one node of the drill-down tree. Bucket nodes carry
// children; title leaves carry the record they represent.
type HierarchyNode struct {
	Name string `json:"name" yaml:"name"`
	// Attribute is the hierarchy attribute this node's label binds. Empty
	// for the root and for title leaves.
	Attribute     Attribute        `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Children      []*HierarchyNode `json:"children,omitempty" yaml:"children,omitempty"`
	Value         int              `json:"value" yaml:"value"`
	Count         int              `json:"count" yaml:"count"`
	AvgRating     float64          `json:"avgRating" yaml:"avg_rating"`
	DominantType  TitleType        `json:"dominantType,omitempty" yaml:"dominant_type,omitempty"`
	DominantGenre string           `json:"dominantGenre,omitempty" yaml:"dominant_genre,omitempty"`
	// Record is set on title leaves only.
	Record *FlatRecord `json:"record,omitempty" yaml:"record,omitempty"`
	// Remainder marks the leaf that stands in for members not retained as
	// individual titles. Its Value is the number of omitted members.
	Remainder bool `json:"remainder,omitempty" yaml:"remainder,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *HierarchyNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Child returns the direct child with the given name.
func (n *HierarchyNode) Child(name string) (*HierarchyNode, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func (n *HierarchyNode) Walk(fn func(node *HierarchyNode, ancestors []*HierarchyNode) bool) {
	var visit func(node *HierarchyNode, ancestors []*HierarchyNode)
	visit = func(node *HierarchyNode, ancestors []*HierarchyNode) {
		if !fn(node, ancestors) {
			return
		}
		next := append(ancestors[:len(ancestors):len(ancestors)], node)
		for _, c := range node.Children {
			visit(c, next)
		}
	}
	visit(n, nil)
}
