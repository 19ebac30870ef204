package filter

import (
	"github.com/sells-group/media-explorer/internal/binning"
	"github.com/sells-group/media-explorer/internal/model"
)

// State is the current drill-down position: a path of length L in
// [0, len(levels)], plus an optional attribute chosen by a jump. It is owned
// by a single coordinator; readers get copies.
type State struct {
	table  binning.Table
	levels []model.Attribute
	path   model.FilterPath
	preds  []Predicate
	jumped model.Attribute
}

// NewState returns a State at the root.
func NewState(table binning.Table, levels []model.Attribute) *State {
	if len(levels) == 0 {
		levels = model.HierarchyLevels
	}
	return &State{table: table, levels: levels, path: model.FilterPath{}}
}

// SetPath replaces the path wholesale and recompiles every predicate. It
// also cancels a previous jump.
func (s *State) SetPath(path model.FilterPath) {
	if len(path) > len(s.levels) {
		path = path[:len(s.levels)]
	}
	s.path = path.Clone()
	s.preds = Compile(s.table, s.levels, s.path)
	s.jumped = ""
}

// Jump resets the path to the root and makes attr active directly.
func (s *State) Jump(attr model.Attribute) {
	s.SetPath(nil)
	s.jumped = attr
}

// Reset returns to the root state.
func (s *State) Reset() {
	s.SetPath(nil)
}

// Path returns a copy of the current path.
func (s *State) Path() model.FilterPath {
	return s.path.Clone()
}

// Depth returns the current path length.
func (s *State) Depth() int {
	return len(s.path)
}

// Predicates returns a copy of the compiled predicates.
func (s *State) Predicates() []Predicate {
	return append([]Predicate(nil), s.preds...)
}

// Jumped returns the attribute chosen by the last jump, if it is still in
// effect.
func (s *State) Jumped() (model.Attribute, bool) {
	return s.jumped, s.jumped != ""
}

// ActiveAttribute returns the jumped attribute, or the next unconstrained
// level.
func (s *State) ActiveAttribute() model.Attribute {
	if s.jumped != "" {
		return s.jumped
	}
	return ActiveAttribute(s.levels, len(s.path))
}

// Apply filters records by the current path.
func (s *State) Apply(records []model.FlatRecord) []model.FlatRecord {
	return Apply(records, s.preds)
}
