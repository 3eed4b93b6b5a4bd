// Package selection holds the cross-page set of chosen record identifiers.
package selection

import "sort"

// Set is a set of record identifiers. Membership is independent of whether
// the identifier's record is currently loaded anywhere.
//
// Set is not safe for concurrent use; the owning component confines it to a
// single goroutine.
type Set struct {
	ids map[int]struct{}
}

// NewSet creates an empty selection set.
func NewSet() *Set {
	return &Set{ids: make(map[int]struct{})}
}

// Add inserts an identifier. Adding an existing identifier is a no-op.
func (s *Set) Add(id int) {
	s.ids[id] = struct{}{}
}

// Remove deletes an identifier. Removing a missing identifier is a no-op.
func (s *Set) Remove(id int) {
	delete(s.ids, id)
}

// Toggle flips membership of an identifier and reports the new state.
func (s *Set) Toggle(id int) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// Has reports whether an identifier is selected.
func (s *Set) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// AddAll inserts every identifier in ids.
func (s *Set) AddAll(ids []int) {
	for _, id := range ids {
		s.Add(id)
	}
}

// RemoveAll deletes every identifier in ids.
func (s *Set) RemoveAll(ids []int) {
	for _, id := range ids {
		s.Remove(id)
	}
}

// ContainsAll reports whether every identifier in ids is selected.
// An empty ids slice yields true.
func (s *Set) ContainsAll(ids []int) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Len returns the number of selected identifiers.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected identifiers in ascending order.
func (s *Set) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
