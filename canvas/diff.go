package canvas

// Diff describes what changed between two canvas snapshots: whether the
// canvas was resized, which tiles' content changed, whether layer view
// props changed, and whether annotations or document metadata changed.
// It is built once per tick and consumed by the change-emission pass.
type Diff struct {
	Resized           bool
	OldWidth          int
	OldHeight         int
	DeltaOffsetX      int
	DeltaOffsetY      int
	LayerPropsChanged bool
	AnnotationsChanged bool
	MetadataChanged   bool

	changedTiles map[tilePos]bool
}

type tilePos struct{ X, Y int }

// NewDiff computes the diff between prev and next. prev may be nil, in
// which case every tile in next is reported changed (the initial-snapshot
// case). If prev == next by pointer identity, the returned Diff is empty
// — the structural-sharing fast path that lets an idle tick cost nothing.
func NewDiff(prev, next *State) *Diff {
	d := &Diff{changedTiles: make(map[tilePos]bool)}
	if prev == next {
		return d
	}
	if prev == nil {
		d.Resized = true
		d.LayerPropsChanged = true
		d.AnnotationsChanged = true
		d.MetadataChanged = true
		markAllTiles(d, next)
		return d
	}

	if prev.Width != next.Width || prev.Height != next.Height ||
		prev.OffsetX != next.OffsetX || prev.OffsetY != next.OffsetY {
		d.Resized = true
		d.OldWidth, d.OldHeight = prev.Width, prev.Height
		d.DeltaOffsetX = next.OffsetX - prev.OffsetX
		d.DeltaOffsetY = next.OffsetY - prev.OffsetY
	}
	if !prev.SameLayerProps(next) {
		d.LayerPropsChanged = true
	}
	if !prev.Annotations.Equal(next.Annotations) {
		d.AnnotationsChanged = true
	}
	if !prev.Metadata.Equal(next.Metadata) {
		d.MetadataChanged = true
	}

	if d.Resized {
		markAllTiles(d, next)
		return d
	}

	diffLayerList(d, prev.Root, next.Root, next.TilesX(), next.TilesY())
	return d
}

func markAllTiles(d *Diff, s *State) {
	for y := 0; y < s.TilesY(); y++ {
		for x := 0; x < s.TilesX(); x++ {
			d.changedTiles[tilePos{x, y}] = true
		}
	}
}

// diffLayerList walks prev and next in lockstep by index. Any structural
// change (added/removed/reordered entries) is treated conservatively as
// "everything under here changed" rather than diffed positionally — a
// restructuring event is rare enough that correctness matters more than
// a minimal diff here.
func diffLayerList(d *Diff, prev, next *LayerList, tilesX, tilesY int) {
	if prev == next {
		return
	}
	if prev == nil || next == nil || len(prev.Entries) != len(next.Entries) {
		markAllEntries(d, next, tilesX, tilesY)
		return
	}
	for i, ne := range next.Entries {
		pe := prev.Entries[i]
		if pe == ne {
			continue
		}
		if pe.ID() != ne.ID() || pe.IsGroup() != ne.IsGroup() {
			markAllEntries(d, &LayerList{Entries: []*LayerEntry{ne}}, tilesX, tilesY)
			continue
		}
		if ne.IsGroup() {
			diffLayerList(d, pe.Group.Children, ne.Group.Children, tilesX, tilesY)
		} else {
			diffLayerContent(d, pe.Content, ne.Content, tilesX, tilesY)
		}
	}
}

func markAllEntries(d *Diff, list *LayerList, tilesX, tilesY int) {
	if list == nil {
		return
	}
	for _, e := range list.Entries {
		if e.IsGroup() {
			markAllEntries(d, e.Group.Children, tilesX, tilesY)
			continue
		}
		for y := 0; y < tilesY; y++ {
			for x := 0; x < tilesX; x++ {
				d.changedTiles[tilePos{x, y}] = true
			}
		}
	}
}

func diffLayerContent(d *Diff, prev, next *LayerContent, tilesX, tilesY int) {
	if prev == next {
		return
	}
	for y := 0; y < tilesY; y++ {
		for x := 0; x < tilesX; x++ {
			pt := prev.TileAt(x, y, tilesX)
			nt := next.TileAt(x, y, tilesX)
			if !pt.Equal(nt) {
				d.changedTiles[tilePos{x, y}] = true
			}
		}
	}
}

// ChangedTileCount returns the number of distinct tiles marked changed.
func (d *Diff) ChangedTileCount() int { return len(d.changedTiles) }

// Empty reports whether nothing at all changed.
func (d *Diff) Empty() bool {
	return !d.Resized && !d.LayerPropsChanged && !d.AnnotationsChanged &&
		!d.MetadataChanged && len(d.changedTiles) == 0
}

// EachChangedPos calls fn once for every changed tile position, in
// ascending row-major order (matching the render fan-out's iteration
// order so job assignment stays deterministic for tests).
func (d *Diff) EachChangedPos(fn func(x, y int)) {
	positions := make([]tilePos, 0, len(d.changedTiles))
	for p := range d.changedTiles {
		positions = append(positions, p)
	}
	sortTilePositions(positions)
	for _, p := range positions {
		fn(p.X, p.Y)
	}
}

func sortTilePositions(positions []tilePos) {
	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && less(positions[j], positions[j-1]); j-- {
			positions[j], positions[j-1] = positions[j-1], positions[j]
		}
	}
}

func less(a, b tilePos) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
