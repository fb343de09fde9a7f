package tangible

// orderedSet keeps unique members in insertion order so that scans which
// stop at the first match are deterministic.
type orderedSet[T comparable] struct {
	items []T
}

func (s *orderedSet[T]) Add(v T) {
	if s.Has(v) {
		return
	}
	s.items = append(s.items, v)
}

func (s *orderedSet[T]) Remove(v T) bool {
	for i, item := range s.items {
		if item == v {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *orderedSet[T]) Has(v T) bool {
	for _, item := range s.items {
		if item == v {
			return true
		}
	}
	return false
}

func (s *orderedSet[T]) Len() int {
	return len(s.items)
}

// Items returns a copy, safe to iterate while the set changes.
func (s *orderedSet[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
