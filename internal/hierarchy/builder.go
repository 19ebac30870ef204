// Package hierarchy builds the drill-down tree from flat records.
package hierarchy

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/binning"
	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/stats"
)

// LeafOrder is the rating order used to pick the titles kept as leaves.
type LeafOrder string

const (
	LeafOrderDesc LeafOrder = "desc" // highest-rated first
	LeafOrderAsc  LeafOrder = "asc"  // lowest-rated first
)

// Defaults for Options.
const (
	DefaultMinBucketSize = 20
	DefaultLeafLimit     = 10
)

// Options configures the builder.
//
// A bucket is terminal when it sits below MaxDepth partitioned levels or
// holds fewer than MinBucketSize records. A terminal bucket keeps its top
// LeafLimit titles as leaves plus one remainder leaf for the rest, so
// every node's Value is its member count.
type Options struct {
	Levels        []model.Attribute
	MaxDepth      int
	MinBucketSize int
	LeafLimit     int
	LeafOrder     LeafOrder
}

func (o Options) withDefaults() Options {
	if len(o.Levels) == 0 {
		o.Levels = model.HierarchyLevels
	}
	if o.MaxDepth <= 0 || o.MaxDepth > len(o.Levels) {
		o.MaxDepth = len(o.Levels)
	}
	if o.MinBucketSize <= 0 {
		o.MinBucketSize = DefaultMinBucketSize
	}
	if o.LeafLimit <= 0 {
		o.LeafLimit = DefaultLeafLimit
	}
	if o.LeafOrder != LeafOrderAsc {
		o.LeafOrder = LeafOrderDesc
	}
	return o
}

// Builder partitions records recursively following the level order, using
// the strategy table for each level's buckets.
type Builder struct {
	table binning.Table
	opts  Options
}

// NewBuilder creates a Builder.
func NewBuilder(table binning.Table, opts Options) *Builder {
	return &Builder{table: table, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (b *Builder) Options() Options {
	return b.opts
}

// Build returns the root node. It never fails: an empty input yields a
// root with no children.
func (b *Builder) Build(records []model.FlatRecord) *model.HierarchyNode {
	root := b.bucketNode(model.RootLabel, "", records, 0)
	zap.L().Debug("hierarchy: built",
		zap.Int("records", len(records)),
		zap.Int("top_level_buckets", len(root.Children)),
	)
	return root
}

// Members returns the records of the bucket named by path, partitioned from
// records exactly as Build partitions them. Quantile buckets are recomputed
// over each parent's members, so the result can differ from filtering the
// full dataset by the same labels. ok is false when a segment names no
// bucket.
func (b *Builder) Members(records []model.FlatRecord, path model.FilterPath) ([]model.FlatRecord, bool) {
	for level, seg := range path {
		if !b.partitions(records, level) {
			return nil, false
		}
		found := false
		for _, bucket := range b.table.Group(b.opts.Levels[level], records) {
			if bucket.Label == seg && len(bucket.Records) > 0 {
				records, found = bucket.Records, true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return records, true
}

// partitions reports whether a bucket of records at level is split into
// child buckets rather than title leaves.
func (b *Builder) partitions(records []model.FlatRecord, level int) bool {
	return level < b.opts.MaxDepth && len(records) >= b.opts.MinBucketSize
}

func (b *Builder) bucketNode(name string, attr model.Attribute, records []model.FlatRecord, level int) *model.HierarchyNode {
	node := &model.HierarchyNode{
		Name:          name,
		Attribute:     attr,
		Count:         len(records),
		AvgRating:     stats.AverageRating(records),
		DominantType:  stats.DominantType(records),
		DominantGenre: stats.DominantGenre(records),
	}
	if len(records) == 0 {
		return node
	}
	node.Children = b.children(records, level)
	for _, c := range node.Children {
		node.Value += c.Value
	}
	return node
}

func (b *Builder) children(records []model.FlatRecord, level int) []*model.HierarchyNode {
	if !b.partitions(records, level) {
		return b.leaves(records)
	}
	attr := b.opts.Levels[level]
	buckets := b.table.Group(attr, records)
	if len(buckets) == 0 {
		return b.leaves(records)
	}
	out := make([]*model.HierarchyNode, 0, len(buckets))
	for _, bucket := range buckets {
		if len(bucket.Records) == 0 {
			continue
		}
		out = append(out, b.bucketNode(bucket.Label, attr, bucket.Records, level+1))
	}
	return out
}

// leaves keeps the LeafLimit best (or worst) rated titles. Equal ratings
// keep input order.
func (b *Builder) leaves(records []model.FlatRecord) []*model.HierarchyNode {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(x, y model.FlatRecord) int {
		if b.opts.LeafOrder == LeafOrderAsc {
			return cmpFloat(x.Rating, y.Rating)
		}
		return cmpFloat(y.Rating, x.Rating)
	})

	keep := min(len(sorted), b.opts.LeafLimit)
	out := make([]*model.HierarchyNode, 0, keep+1)
	for i := range keep {
		rec := sorted[i]
		out = append(out, &model.HierarchyNode{
			Name:          rec.Title,
			Value:         1,
			Count:         1,
			AvgRating:     rec.Rating,
			DominantType:  rec.Type,
			DominantGenre: rec.Genre,
			Record:        &rec,
		})
	}

	if rest := sorted[keep:]; len(rest) > 0 {
		out = append(out, &model.HierarchyNode{
			Name:          fmt.Sprintf("%d more", len(rest)),
			Value:         len(rest),
			Count:         len(rest),
			AvgRating:     stats.AverageRating(rest),
			DominantType:  stats.DominantType(rest),
			DominantGenre: stats.DominantGenre(rest),
			Remainder:     true,
		})
	}
	return out
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
