package canvas

import (
	"sort"

	"github.com/example/emojiart/internal/document"
)

// Selection is a set of emoji ids. The zero value is an empty set.
type Selection struct {
	ids map[document.ID]struct{}
}

// Toggle adds id when absent and removes it when present.
func (s *Selection) Toggle(id document.ID) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	if s.ids == nil {
		s.ids = make(map[document.ID]struct{})
	}
	s.ids[id] = struct{}{}
}

// Contains reports whether id is selected.
func (s Selection) Contains(id document.ID) bool {
	_, ok := s.ids[id]
	return ok
}

// Clear empties the set.
func (s *Selection) Clear() { s.ids = nil }

func (s Selection) Len() int { return len(s.ids) }

func (s Selection) Empty() bool { return len(s.ids) == 0 }

// IDs returns the selected ids in ascending order.
func (s Selection) IDs() []document.ID {
	out := make([]document.ID, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
