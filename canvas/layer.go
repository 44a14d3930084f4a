package canvas

// LayerViewMode controls how the local view overlays layer visibility on
// top of the authoritative layer tree.
type LayerViewMode uint8

const (
	LayerViewModeNormal LayerViewMode = iota
	LayerViewModeSolo
	LayerViewModeFrame
	LayerViewModeOnionSkin
)

// LayerProps is the per-layer view/compositing metadata: visibility,
// censorship, opacity, and blend mode. LayerProps is immutable once
// published; mutating it means building a new LayerProps and splicing it
// into a new LayerPropsList (see State.WithLayerProps).
type LayerProps struct {
	ID        int
	Opacity   uint16 // 0..Bit15
	Blend     BlendMode
	IsGroup   bool
	Children  *LayerPropsList // non-nil when IsGroup

	// Hidden is the persistent, protocol-visible hidden flag set by a
	// layer's own hidden-layer-list entry.
	Hidden bool
	// HiddenByViewMode is a local-only derived flag set by Solo mode; it
	// is never part of the authoritative document.
	HiddenByViewMode bool
	// Censored marks a layer whose content should be masked from viewers
	// other than its author, unless RevealCensored is in effect.
	Censored bool
}

// clone returns a shallow copy of the LayerProps suitable as the basis for
// an in-place mutation under copy-on-write.
func (p *LayerProps) clone() *LayerProps {
	cp := *p
	return &cp
}

// LayerPropsList is an ordered, immutable list of sibling LayerProps.
type LayerPropsList struct {
	Items []*LayerProps
}

// NewLayerPropsList builds a LayerPropsList from the given items.
func NewLayerPropsList(items []*LayerProps) *LayerPropsList {
	return &LayerPropsList{Items: items}
}

// withReplaced returns a new LayerPropsList with Items[index] replaced,
// leaving every other sibling pointer shared with the original list.
func (l *LayerPropsList) withReplaced(index int, next *LayerProps) *LayerPropsList {
	items := make([]*LayerProps, len(l.Items))
	copy(items, l.Items)
	items[index] = next
	return &LayerPropsList{Items: items}
}

func (l *LayerPropsList) indexOf(id int) int {
	for i, p := range l.Items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Equal reports pointer identity: the fast check used to suppress
// redundant diffs when nothing in the props tree actually changed.
func (l *LayerPropsList) Equal(o *LayerPropsList) bool {
	return l == o
}

// LayerContent holds a leaf layer's painted tiles plus any indirect
// sublayers attached to it (wet-stroke preview, inspect overlay). Tiles is
// indexed by tile position: y*tilesX+x, sized to the canvas's tile grid.
type LayerContent struct {
	ID        int
	Tiles     []*Tile
	Sublayers []*Sublayer // ordered, rendered after the base content
}

// Sublayer is a small indirect render layer keyed by an integer id, used
// for the preview and inspect overlays. Negative ids are reserved for
// engine-internal sublayers (PreviewSublayerID, InspectSublayerID).
type Sublayer struct {
	ID      int
	Opacity uint16
	Blend   BlendMode
	Content *LayerContent
}

// TileAt returns the tile at tile-grid position (x,y), or nil if absent.
func (c *LayerContent) TileAt(x, y, tilesX int) *Tile {
	idx := y*tilesX + x
	if idx < 0 || idx >= len(c.Tiles) {
		return nil
	}
	return c.Tiles[idx]
}

func (c *LayerContent) clone() *LayerContent {
	cp := *c
	cp.Tiles = append([]*Tile(nil), c.Tiles...)
	cp.Sublayers = append([]*Sublayer(nil), c.Sublayers...)
	return &cp
}

// LayerGroup is an internal node of the layer tree.
type LayerGroup struct {
	ID       int
	Children *LayerList
}

// LayerEntry is one child of a LayerList: either a group or a leaf
// content layer, a tagged union between the two.
type LayerEntry struct {
	Group   *LayerGroup   // non-nil when this entry is a group
	Content *LayerContent // non-nil when this entry is a leaf
}

func (e *LayerEntry) IsGroup() bool { return e.Group != nil }

func (e *LayerEntry) ID() int {
	if e.Group != nil {
		return e.Group.ID
	}
	return e.Content.ID
}

// LayerList is an ordered, immutable list of sibling layer entries.
type LayerList struct {
	Entries []*LayerEntry
}

// NewLayerList builds a LayerList from the given entries.
func NewLayerList(entries []*LayerEntry) *LayerList {
	return &LayerList{Entries: entries}
}

func (l *LayerList) withReplaced(index int, next *LayerEntry) *LayerList {
	entries := make([]*LayerEntry, len(l.Entries))
	copy(entries, l.Entries)
	entries[index] = next
	return &LayerList{Entries: entries}
}
