// Package selection tracks selected row keys across pages and re-sorts.
package selection

// State describes how much of a key list is selected.
type State int

const (
	None State = iota
	Some
	All
)

// Set is an immutable set of row keys. Operations return a new Set and keep
// insertion order so that batch operations run deterministically.
type Set[K comparable] struct {
	keys  []K
	index map[K]struct{}
}

// New returns a Set holding keys.
func New[K comparable](keys ...K) Set[K] {
	return Set[K]{}.add(keys)
}

// Has reports whether key is selected.
func (s Set[K]) Has(key K) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of selected keys.
func (s Set[K]) Len() int {
	return len(s.keys)
}

// Keys returns the selected keys in selection order.
func (s Set[K]) Keys() []K {
	return append([]K(nil), s.keys...)
}

// Toggle flips key.
func (s Set[K]) Toggle(key K) Set[K] {
	if s.Has(key) {
		return s.remove(func(k K) bool { return k == key })
	}
	return s.add([]K{key})
}

// SelectAllVisible adds the keys of the current page.
func (s Set[K]) SelectAllVisible(visibleKeys []K) Set[K] {
	return s.add(visibleKeys)
}

// SelectAllFiltered adds every key of the filtered dataset, across pages.
func (s Set[K]) SelectAllFiltered(filteredKeys []K) Set[K] {
	return s.add(filteredKeys)
}

// DeselectAll removes keys, leaving selections outside them untouched.
func (s Set[K]) DeselectAll(keys []K) Set[K] {
	drop := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	return s.remove(func(k K) bool {
		_, ok := drop[k]
		return ok
	})
}

// Clear returns an empty selection.
func (s Set[K]) Clear() Set[K] {
	return Set[K]{}
}

// Prune drops keys that are no longer present in the source dataset.
func (s Set[K]) Prune(allKnownKeys []K) Set[K] {
	known := make(map[K]struct{}, len(allKnownKeys))
	for _, k := range allKnownKeys {
		known[k] = struct{}{}
	}
	return s.remove(func(k K) bool {
		_, ok := known[k]
		return !ok
	})
}

// StateOf summarizes the selection of keys, e.g. for a header checkbox.
func (s Set[K]) StateOf(keys []K) State {
	if len(keys) == 0 {
		return None
	}
	selected := 0
	for _, k := range keys {
		if s.Has(k) {
			selected++
		}
	}
	switch selected {
	case 0:
		return None
	case len(keys):
		return All
	default:
		return Some
	}
}

func (s Set[K]) add(keys []K) Set[K] {
	out := Set[K]{
		keys:  make([]K, len(s.keys), len(s.keys)+len(keys)),
		index: make(map[K]struct{}, len(s.keys)+len(keys)),
	}
	copy(out.keys, s.keys)
	for k := range s.index {
		out.index[k] = struct{}{}
	}
	for _, k := range keys {
		if _, ok := out.index[k]; ok {
			continue
		}
		out.index[k] = struct{}{}
		out.keys = append(out.keys, k)
	}
	return out
}

func (s Set[K]) remove(drop func(K) bool) Set[K] {
	out := Set[K]{
		keys:  make([]K, 0, len(s.keys)),
		index: make(map[K]struct{}, len(s.keys)),
	}
	for _, k := range s.keys {
		if drop(k) {
			continue
		}
		out.keys = append(out.keys, k)
		out.index[k] = struct{}{}
	}
	return out
}
