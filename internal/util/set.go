// Package util provides small generic helpers used by the engine
package util

// Set is a generic set of comparable values
type Set[K comparable] map[K]struct{}

// SetOf creates a new set containing the given elements
func SetOf[K comparable](elements ...K) Set[K] {
	s := make(Set[K], len(elements))
	for _, elem := range elements {
		s.Add(elem)
	}
	return s
}

// Add adds an element to the set
func (s Set[K]) Add(key K) {
	s[key] = struct{}{}
}

// Contains returns true if the element exists in the set
func (s Set[K]) Contains(key K) bool {
	_, ok := s[key]
	return ok
}

// Len returns the number of elements in the set
func (s Set[K]) Len() int {
	return len(s)
}
