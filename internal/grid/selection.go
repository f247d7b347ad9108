package grid

import "slices"

// Selection is an immutable, insertion-ordered set of row keys. The zero
// value is an empty selection. With and Without return new selections and
// never modify the receiver.
type Selection struct {
	keys  []Key
	index map[Key]struct{}
}

// NewSelection builds a selection from keys, dropping duplicates.
func NewSelection(keys ...Key) Selection {
	var s Selection
	for _, k := range keys {
		if _, ok := s.index[k]; ok {
			continue
		}
		if s.index == nil {
			s.index = make(map[Key]struct{}, len(keys))
		}
		s.index[k] = struct{}{}
		s.keys = append(s.keys, k)
	}
	return s
}

// Has reports whether k is selected.
func (s Selection) Has(k Key) bool {
	_, ok := s.index[k]
	return ok
}

// Len returns the number of selected keys.
func (s Selection) Len() int {
	return len(s.keys)
}

// Keys returns the selected keys in the order they were selected.
func (s Selection) Keys() []Key {
	return slices.Clone(s.keys)
}

// With returns a selection that also contains k.
func (s Selection) With(k Key) Selection {
	if s.Has(k) {
		return s
	}
	keys := make([]Key, len(s.keys), len(s.keys)+1)
	copy(keys, s.keys)
	return NewSelection(append(keys, k)...)
}

// Without returns a selection that does not contain k.
func (s Selection) Without(k Key) Selection {
	if !s.Has(k) {
		return s
	}
	keys := make([]Key, 0, len(s.keys)-1)
	for _, existing := range s.keys {
		if existing != k {
			keys = append(keys, existing)
		}
	}
	return NewSelection(keys...)
}

// TriState is the state of a page's select-all checkbox.
type TriState int

const (
	SelectNone TriState = iota
	SelectSome
	SelectAll
)

func (t TriState) String() string {
	switch t {
	case SelectSome:
		return "some"
	case SelectAll:
		return "all"
	default:
		return "none"
	}
}

func (t TriState) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ComputeTriState reports how many of the page's rows are selected. An empty
// page is never "all".
func ComputeTriState(pageKeys []Key, sel Selection) TriState {
	if len(pageKeys) == 0 {
		return SelectNone
	}
	selected := 0
	for _, k := range pageKeys {
		if sel.Has(k) {
			selected++
		}
	}
	switch {
	case selected == 0:
		return SelectNone
	case selected == len(pageKeys):
		return SelectAll
	default:
		return SelectSome
	}
}
