package model

// FilterPath is an ordered list of bucket labels. Index i constrains
// HierarchyLevels[i]; the empty path is the unfiltered root.
type FilterPath []string

// Clone returns an independent copy of p.
func (p FilterPath) Clone() FilterPath {
	if p == nil {
		return FilterPath{}
	}
	out := make(FilterPath, len(p))
	copy(out, p)
	return out
}

// Equal reports whether two paths hold the same segments.
func (p FilterPath) Equal(o FilterPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading subsequence of p.
func (p FilterPath) HasPrefix(prefix FilterPath) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// NavigationEvent is emitted by a view when the user clicks a bucket
// (push) or a breadcrumb (pop).
type NavigationEvent struct {
	ID       string     `json:"id,omitempty"`
	Path     FilterPath `json:"path"`
	Depth    int        `json:"depth"`
	IsGoBack bool       `json:"isGoBack"`
}

// JumpEvent switches the active attribute directly and clears the path.
type JumpEvent struct {
	ID        string    `json:"id,omitempty"`
	Attribute Attribute `json:"attribute"`
}
