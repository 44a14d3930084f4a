package canvas

import "sync/atomic"

// State is an immutable snapshot of a canvas: its dimensions, layer tree,
// per-layer view props, annotations, and document metadata. Snapshots are
// never mutated in place; every change produces a new *State that shares
// as much of the old tree as possible, which is what makes cheap
// pointer-identity diffing (see Diff) possible in the first place.
//
// Go's garbage collector removes the need for a separate mutable
// "transient" builder type and manual refcounting: a single type serves
// both roles, since building a new State is just constructing a new value
// from an old one's fields, and the old one remains valid and shared for
// as long as anything still holds it.
type State struct {
	Width, Height   int
	OffsetX, OffsetY int

	Root       *LayerList
	LayerProps *LayerPropsList
	Annotations *Annotations
	Metadata   *DocumentMetadata

	Background *Tile // shared checker tile

	// routes is a pointer to an atomic.Pointer rather than an
	// atomic.Pointer field directly, since Clone copies State by value
	// (cp := *s) and an atomic value must never be copied — each State
	// gets its own fresh cache cell instead.
	routes *atomic.Pointer[LayerRoutes]
}

// NewState returns an empty canvas of the given pixel dimensions: no
// layers, an empty props list, no annotations, default metadata.
func NewState(width, height int) *State {
	return &State{
		Width:       width,
		Height:      height,
		Root:        NewLayerList(nil),
		LayerProps:  NewLayerPropsList(nil),
		Annotations: &Annotations{},
		Metadata:    &DocumentMetadata{},
		Background:  NewCheckerTile(),
		routes:      new(atomic.Pointer[LayerRoutes]),
	}
}

// TilesX and TilesY are the canvas's tile-grid dimensions, rounding up
// partial edge tiles.
func (s *State) TilesX() int { return (s.Width + TileSize - 1) / TileSize }
func (s *State) TilesY() int { return (s.Height + TileSize - 1) / TileSize }

// Routes returns the cached layer-id-to-path index, building it on first
// use. Safe to call concurrently: renderTileInto runs as a job across
// several render-pool worker goroutines sharing the same published
// *State, so the lazy build goes through an atomic compare-and-swap
// rather than a bare nil check. buildLayerRoutes is pure, so if two
// goroutines race to build it they simply redo the same work once and
// the loser's result is discarded.
func (s *State) Routes() *LayerRoutes {
	if r := s.routes.Load(); r != nil {
		return r
	}
	built := buildLayerRoutes(s.Root)
	s.routes.CompareAndSwap(nil, built)
	return s.routes.Load()
}

// Clone returns a shallow copy of s: a new *State value with the same
// field contents, ready to have one or two fields replaced by the caller
// without disturbing the original. The routes cache is intentionally not
// copied, since a clone usually exists in order to change Root; the clone
// gets its own empty cache cell rather than sharing or copying s's.
func (s *State) Clone() *State {
	cp := *s
	cp.routes = new(atomic.Pointer[LayerRoutes])
	return &cp
}

// WithLayerProps returns a new State whose LayerProps has fn applied to
// the props of the layer with the given id, sharing every other props
// subtree with s. Returns s unchanged if id isn't found.
func (s *State) WithLayerProps(id int, fn func(p *LayerProps) *LayerProps) *State {
	path, ok := s.Routes().Path(id)
	if !ok {
		return s
	}
	next := transientLayerPropsList(s.LayerProps, path, fn)
	if next == s.LayerProps {
		return s
	}
	cp := s.Clone()
	cp.LayerProps = next
	return cp
}

// WithLayerContent returns a new State whose Root has fn applied to the
// leaf entry with the given id, sharing every other subtree with s.
// Returns s unchanged if id isn't found or names a group.
func (s *State) WithLayerContent(id int, fn func(c *LayerContent) *LayerContent) *State {
	path, ok := s.Routes().Path(id)
	if !ok {
		return s
	}
	isGroup := false
	next := transientLayerList(s.Root, path, func(e *LayerEntry) *LayerEntry {
		if e.IsGroup() {
			isGroup = true
			return e
		}
		return &LayerEntry{Content: fn(e.Content)}
	})
	if isGroup || next == s.Root {
		return s
	}
	cp := s.Clone()
	cp.Root = next
	return cp
}

// FindContent returns the leaf content layer with the given id, or nil.
func (s *State) FindContent(id int) *LayerContent {
	path, ok := s.Routes().Path(id)
	if !ok {
		return nil
	}
	list := s.Root
	var entry *LayerEntry
	for i, idx := range path {
		entry = list.Entries[idx]
		if i < len(path)-1 {
			list = entry.Group.Children
		}
	}
	if entry == nil || entry.IsGroup() {
		return nil
	}
	return entry.Content
}

// FindProps returns the props for the layer with the given id, or nil.
func (s *State) FindProps(id int) *LayerProps {
	path, ok := s.Routes().Path(id)
	if !ok {
		return nil
	}
	lpl := s.LayerProps
	var item *LayerProps
	for i, idx := range path {
		if idx < 0 || idx >= len(lpl.Items) {
			return nil
		}
		item = lpl.Items[idx]
		if i < len(path)-1 {
			lpl = item.Children
		}
	}
	return item
}

// SameLayerProps reports whether s and o share the exact same LayerProps
// tree by pointer identity — the fast path the tick loop uses to decide
// whether a LayerPropsChanged event is owed to subscribers.
func (s *State) SameLayerProps(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.LayerProps.Equal(o.LayerProps)
}
