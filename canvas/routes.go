package canvas

// LayerRoutes maps a layer id to the path of indexes needed to reach it
// from the root LayerList. It is rebuilt lazily and cached on State so
// repeated lookups by id (as history's dab handler does for every dab
// message) don't walk the tree each time.
type LayerRoutes struct {
	paths map[int][]int
}

// buildLayerRoutes walks the layer tree once and records, for every group
// and content layer, the sequence of child indexes leading to it.
func buildLayerRoutes(root *LayerList) *LayerRoutes {
	r := &LayerRoutes{paths: make(map[int][]int)}
	var walk func(list *LayerList, prefix []int)
	walk = func(list *LayerList, prefix []int) {
		for i, entry := range list.Entries {
			path := append(append([]int(nil), prefix...), i)
			r.paths[entry.ID()] = path
			if entry.IsGroup() {
				walk(entry.Group.Children, path)
			}
		}
	}
	if root != nil {
		walk(root, nil)
	}
	return r
}

// Path returns the child-index path to the layer with the given id, and
// whether it was found.
func (r *LayerRoutes) Path(id int) ([]int, bool) {
	p, ok := r.paths[id]
	return p, ok
}

// transientLayerList walks path, rebuilding only the LayerList nodes on the
// path with fn applied to the leaf entry, sharing every sibling subtree
// untouched: a copy-on-write splice down a single path.
func transientLayerList(list *LayerList, path []int, fn func(entry *LayerEntry) *LayerEntry) *LayerList {
	if len(path) == 0 {
		return list
	}
	idx := path[0]
	if idx < 0 || idx >= len(list.Entries) {
		return list
	}
	entry := list.Entries[idx]
	if len(path) == 1 {
		return list.withReplaced(idx, fn(entry))
	}
	if !entry.IsGroup() {
		return list
	}
	newChildren := transientLayerList(entry.Group.Children, path[1:], fn)
	newGroup := &LayerGroup{ID: entry.Group.ID, Children: newChildren}
	return list.withReplaced(idx, &LayerEntry{Group: newGroup})
}

// transientLayerPropsList is the LayerPropsList analogue of
// transientLayerList: it splices a new LayerProps at path while sharing
// every sibling list untouched.
func transientLayerPropsList(lpl *LayerPropsList, path []int, fn func(p *LayerProps) *LayerProps) *LayerPropsList {
	if len(path) == 0 || lpl == nil {
		return lpl
	}
	idx := path[0]
	if idx < 0 || idx >= len(lpl.Items) {
		return lpl
	}
	item := lpl.Items[idx]
	if len(path) == 1 {
		return lpl.withReplaced(idx, fn(item))
	}
	if !item.IsGroup {
		return lpl
	}
	newChildren := transientLayerPropsList(item.Children, path[1:], fn)
	newItem := item.clone()
	newItem.Children = newChildren
	return lpl.withReplaced(idx, newItem)
}
