package canvas

// MapLeafContents rebuilds root with fn applied to every leaf content
// layer, sharing every subtree fn leaves untouched (fn returning its
// input unchanged, by pointer, is the signal nothing changed there).
// Used by the view composer to apply a transform across the whole tree
// rather than a single routed id.
func MapLeafContents(root *LayerList, fn func(*LayerContent) *LayerContent) *LayerList {
	if root == nil {
		return nil
	}
	changed := false
	entries := make([]*LayerEntry, len(root.Entries))
	for i, e := range root.Entries {
		if e.IsGroup() {
			newChildren := MapLeafContents(e.Group.Children, fn)
			if newChildren == e.Group.Children {
				entries[i] = e
				continue
			}
			entries[i] = &LayerEntry{Group: &LayerGroup{ID: e.Group.ID, Children: newChildren}}
			changed = true
			continue
		}
		nc := fn(e.Content)
		if nc == e.Content {
			entries[i] = e
			continue
		}
		entries[i] = &LayerEntry{Content: nc}
		changed = true
	}
	if !changed {
		return root
	}
	return &LayerList{Entries: entries}
}

// MapLeafProps rebuilds lpl with fn applied to every leaf LayerProps,
// sharing every untouched subtree, the LayerPropsList analogue of
// MapLeafContents.
func MapLeafProps(lpl *LayerPropsList, fn func(*LayerProps) *LayerProps) *LayerPropsList {
	if lpl == nil {
		return nil
	}
	changed := false
	items := make([]*LayerProps, len(lpl.Items))
	for i, p := range lpl.Items {
		if p.IsGroup {
			newChildren := MapLeafProps(p.Children, fn)
			if newChildren == p.Children {
				items[i] = p
				continue
			}
			np := p.clone()
			np.Children = newChildren
			items[i] = np
			changed = true
			continue
		}
		np := fn(p)
		if np == p {
			items[i] = p
			continue
		}
		items[i] = np
		changed = true
	}
	if !changed {
		return lpl
	}
	return &LayerPropsList{Items: items}
}

// WithAllLeafContents returns a new State with fn applied to every leaf
// content layer, or s unchanged if fn left everything untouched.
func (s *State) WithAllLeafContents(fn func(*LayerContent) *LayerContent) *State {
	next := MapLeafContents(s.Root, fn)
	if next == s.Root {
		return s
	}
	cp := s.Clone()
	cp.Root = next
	return cp
}

// WithAllLeafProps returns a new State with fn applied to every leaf
// LayerProps, or s unchanged if fn left everything untouched.
func (s *State) WithAllLeafProps(fn func(*LayerProps) *LayerProps) *State {
	next := MapLeafProps(s.LayerProps, fn)
	if next == s.LayerProps {
		return s
	}
	cp := s.Clone()
	cp.LayerProps = next
	return cp
}
