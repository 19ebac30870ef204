// Package explorer is the application-state object. It owns the dataset,
// the drill-down tree, the filter state, and the navigation bus, and it is
// the only place the current path is mutated.
package explorer

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/media-explorer/internal/binning"
	"github.com/sells-group/media-explorer/internal/color"
	"github.com/sells-group/media-explorer/internal/dataset"
	"github.com/sells-group/media-explorer/internal/events"
	"github.com/sells-group/media-explorer/internal/filter"
	"github.com/sells-group/media-explorer/internal/hierarchy"
	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/view"
)

// DefaultTopGenres is the number of genres given their own bucket and hue.
const DefaultTopGenres = 10

// Options configures an Explorer.
type Options struct {
	Binning   binning.Mode
	TopGenres int
	Hierarchy hierarchy.Options
}

// Snapshot is the state pushed to views after every applied navigation.
type Snapshot struct {
	Seq             uint64           `json:"seq"`
	EventID         string           `json:"eventId,omitempty"`
	Path            model.FilterPath `json:"path"`
	ActiveAttribute model.Attribute  `json:"activeAttribute"`
	Jumped          bool             `json:"jumped"`
	RecordCount     int              `json:"recordCount"`
	View            view.View        `json:"view"`
}

// Explorer coordinates navigation. Event handling is serialized: each
// event is applied and its stateChanged emission delivered before the next
// event is processed. stateChanged handlers may read state but must not
// navigate synchronously.
type Explorer struct {
	ds      *dataset.Dataset
	levels  []model.Attribute
	table   binning.Table
	builder *hierarchy.Builder
	tree    *model.HierarchyNode
	colors  *color.Resolver
	views   *view.Builder
	bus     *events.Bus

	// nav serializes event processing, including the stateChanged fan-out.
	nav sync.Mutex

	mu    sync.RWMutex
	state *filter.State
	snap  Snapshot
}

// New builds the tree and the colour resolver concurrently, computes the
// root snapshot, and subscribes to navigation events on bus.
func New(ctx context.Context, ds *dataset.Dataset, bus *events.Bus, opts Options) (*Explorer, error) {
	if ds == nil {
		return nil, eris.New("explorer: dataset is required")
	}
	if bus == nil {
		bus = events.NewBus()
	}
	if opts.TopGenres <= 0 {
		opts.TopGenres = DefaultTopGenres
	}

	top := ds.TopGenres(opts.TopGenres)
	table := binning.NewTable(binning.Options{Mode: opts.Binning, TopGenres: top})
	builder := hierarchy.NewBuilder(table, opts.Hierarchy)
	levels := builder.Options().Levels

	e := &Explorer{
		ds:      ds,
		levels:  levels,
		table:   table,
		builder: builder,
		bus:     bus,
		state:   filter.NewState(table, levels),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.tree = builder.Build(ds.Records())
		return gctx.Err()
	})
	g.Go(func() error {
		e.colors = color.NewResolver(ds, top)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "explorer: build")
	}

	e.views = view.NewBuilder(table, levels, e.colors)
	e.snap = e.snapshotLocked("")

	bus.On(events.PathChange, events.Typed(e.onPathChange))
	bus.On(events.JumpToAttribute, events.Typed(e.onJump))

	zap.L().Info("explorer: ready",
		zap.Int("records", ds.Len()),
		zap.Int("root_value", e.tree.Value),
		zap.String("binning", string(opts.Binning)),
		zap.Int("depth", hierarchy.Depth(e.tree)),
	)
	return e, nil
}

// Bus returns the navigation bus.
func (e *Explorer) Bus() *events.Bus { return e.bus }

// Dataset returns the loaded dataset.
func (e *Explorer) Dataset() *dataset.Dataset { return e.ds }

// Levels returns the hierarchy attribute order.
func (e *Explorer) Levels() []model.Attribute {
	return append([]model.Attribute(nil), e.levels...)
}

// Tree returns the drill-down tree. It is built once and must not be
// modified.
func (e *Explorer) Tree() *model.HierarchyNode { return e.tree }

// Colors returns the colour resolver.
func (e *Explorer) Colors() *color.Resolver { return e.colors }

// FilteredData returns the records matching path. Segments are applied
// against the level order as given; sentinel labels bypass their level.
func (e *Explorer) FilteredData(path model.FilterPath) []model.FlatRecord {
	return filter.Apply(e.ds.Records(), filter.Compile(e.table, e.levels, path))
}

// ActiveAttribute returns the next unconstrained level for path, or the
// last level once path is exhausted.
func (e *Explorer) ActiveAttribute(path model.FilterPath) model.Attribute {
	return filter.ActiveAttribute(e.levels, len(path))
}

// ComputeStats groups records by attr's binning rule and summarizes each
// bucket. Empty input yields an empty slice.
func (e *Explorer) ComputeStats(records []model.FlatRecord, attr model.Attribute) []view.Group {
	return e.views.Groups(records, attr)
}

// ResolveColor returns the visual category key of s.
func (e *Explorer) ResolveColor(s color.Subject, saturation model.Attribute) color.Key {
	return e.colors.Resolve(s, saturation)
}

// View builds the correlation view of path along attr. An empty attr
// selects the active attribute of path.
func (e *Explorer) View(path model.FilterPath, attr model.Attribute) view.View {
	if attr == "" {
		attr = e.ActiveAttribute(path)
	}
	return e.buildView(path, attr, false)
}

// buildView summarizes the members of the tree bucket named by path, so the
// group keys of the next level are exactly that bucket's child labels. A
// path that names no bucket falls back to FilteredData.
func (e *Explorer) buildView(path model.FilterPath, attr model.Attribute, jumped bool) view.View {
	records, ok := e.builder.Members(e.ds.Records(), path)
	if !ok {
		records = e.FilteredData(path)
	}
	v := e.views.Build(records, attr, path)
	v.Drillable = !jumped && ok && attr == e.ActiveAttribute(path) && len(path) < len(e.levels) && e.hasBuckets(path)
	return v
}

// hasBuckets reports whether the node named by path has bucket children
// rather than title leaves.
func (e *Explorer) hasBuckets(path model.FilterPath) bool {
	node, valid := hierarchy.Resolve(e.tree, path)
	if len(valid) != len(path) {
		return false
	}
	for _, c := range node.Children {
		if c.Attribute != "" {
			return true
		}
	}
	return false
}

// Snapshot returns the current state.
func (e *Explorer) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Path returns a copy of the current path.
func (e *Explorer) Path() model.FilterPath {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Path()
}

// Navigate emits a pathChange event. It is the entry point views use to
// move through the hierarchy.
func (e *Explorer) Navigate(ctx context.Context, path model.FilterPath, isGoBack bool) error {
	ev := model.NavigationEvent{
		ID:       uuid.NewString(),
		Path:     path.Clone(),
		Depth:    len(path),
		IsGoBack: isGoBack,
	}
	return e.bus.Emit(ctx, events.PathChange, ev)
}

// JumpTo emits a jumpToAttribute event.
func (e *Explorer) JumpTo(ctx context.Context, attr model.Attribute) error {
	return e.bus.Emit(ctx, events.JumpToAttribute, model.JumpEvent{ID: uuid.NewString(), Attribute: attr})
}

func (e *Explorer) onPathChange(ctx context.Context, ev model.NavigationEvent) error {
	e.nav.Lock()
	defer e.nav.Unlock()

	_, valid := hierarchy.Resolve(e.tree, ev.Path)
	if len(valid) != len(ev.Path) {
		zap.L().Debug("explorer: path truncated to deepest valid ancestor",
			zap.Strings("requested", ev.Path),
			zap.Strings("applied", valid),
		)
	}

	e.mu.Lock()
	e.state.SetPath(valid)
	snap := e.snapshotLocked(ev.ID)
	e.mu.Unlock()

	return e.publish(ctx, snap)
}

func (e *Explorer) onJump(ctx context.Context, ev model.JumpEvent) error {
	attr, ok := model.ParseAttribute(string(ev.Attribute))
	if !ok {
		return eris.Errorf("explorer: unknown attribute %q", ev.Attribute)
	}

	e.nav.Lock()
	defer e.nav.Unlock()

	e.mu.Lock()
	e.state.Jump(attr)
	snap := e.snapshotLocked(ev.ID)
	e.mu.Unlock()

	return e.publish(ctx, snap)
}

func (e *Explorer) publish(ctx context.Context, snap Snapshot) error {
	if err := e.bus.Emit(ctx, events.StateChanged, snap); err != nil {
		return eris.Wrap(err, "explorer: publish state")
	}
	return nil
}

// snapshotLocked recomputes the snapshot from the filter state. The caller
// holds mu for writing, or is the constructor.
func (e *Explorer) snapshotLocked(eventID string) Snapshot {
	path := e.state.Path()
	attr := e.state.ActiveAttribute()
	_, jumped := e.state.Jumped()
	v := e.buildView(path, attr, jumped)

	e.snap = Snapshot{
		Seq:             e.snap.Seq + 1,
		EventID:         eventID,
		Path:            path,
		ActiveAttribute: attr,
		Jumped:          jumped,
		RecordCount:     v.Count,
		View:            v,
	}
	return e.snap
}
