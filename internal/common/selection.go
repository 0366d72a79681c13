package common

import (
	"golang.org/x/exp/slices"
)

// Selection is the working set of group ids a bulk operation runs
// over. It is order-free; IDs returns a sorted snapshot.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

func (s *Selection) Add(id string) {
	s.ids[id] = struct{}{}
}

func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}

	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) SelectAll(ids []string) {
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) Empty() bool {
	return len(s.ids) == 0
}

func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids
}
