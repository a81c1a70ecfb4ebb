package breeder

import "sort"

// Selection is a set of image indices within one generation.
type Selection map[int]struct{}

func NewSelection(indices ...int) Selection {
	s := make(Selection, len(indices))
	for _, idx := range indices {
		s[idx] = struct{}{}
	}
	return s
}

func (s Selection) Has(idx int) bool {
	_, ok := s[idx]
	return ok
}

func (s Selection) Len() int {
	return len(s)
}

func (s Selection) Add(idx int) {
	s[idx] = struct{}{}
}

// Toggle flips membership of idx and reports whether it is now selected.
func (s Selection) Toggle(idx int) bool {
	if s.Has(idx) {
		delete(s, idx)
		return false
	}
	s.Add(idx)
	return true
}

func (s Selection) Sorted() []int {
	out := make([]int, 0, len(s))
	for idx := range s {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for idx := range s {
		out[idx] = struct{}{}
	}
	return out
}

func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for idx := range s {
		if !other.Has(idx) {
			return false
		}
	}
	return true
}

func (s Selection) prune(limit int) {
	for idx := range s {
		if idx < 0 || idx >= limit {
			delete(s, idx)
		}
	}
}

// SelectionStore remembers the last seen selection of every generation the
// user navigated away from.
type SelectionStore struct {
	byGeneration map[int]Selection
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{byGeneration: map[int]Selection{}}
}

// Capture overwrites the snapshot for generation with a copy of live.
func (s *SelectionStore) Capture(generation int, live Selection) {
	s.byGeneration[generation] = live.Clone()
}

// Get returns a copy of the stored snapshot, empty when none was captured.
func (s *SelectionStore) Get(generation int) Selection {
	stored, ok := s.byGeneration[generation]
	if !ok {
		return NewSelection()
	}
	return stored.Clone()
}

func (s *SelectionStore) Has(generation int) bool {
	_, ok := s.byGeneration[generation]
	return ok
}

// ClearFrom drops every snapshot at or above generation.
func (s *SelectionStore) ClearFrom(generation int) {
	for gen := range s.byGeneration {
		if gen >= generation {
			delete(s.byGeneration, gen)
		}
	}
}

// Prune removes indices that no longer exist once a generation holds
// imageCount images.
func (s *SelectionStore) Prune(imageCount int) {
	for _, sel := range s.byGeneration {
		sel.prune(imageCount)
	}
}

func (s *SelectionStore) Reset() {
	s.byGeneration = map[int]Selection{}
}

func (s *SelectionStore) Generations() []int {
	out := make([]int, 0, len(s.byGeneration))
	for gen := range s.byGeneration {
		out = append(out, gen)
	}
	sort.Ints(out)
	return out
}

// Snapshot exports non-empty selections keyed by generation.
func (s *SelectionStore) Snapshot() map[int][]int {
	out := make(map[int][]int, len(s.byGeneration))
	for gen, sel := range s.byGeneration {
		if sel.Len() == 0 {
			continue
		}
		out[gen] = sel.Sorted()
	}
	return out
}

// Restore replaces the store contents, discarding negative generations and
// indices outside [0, imageCount).
func (s *SelectionStore) Restore(snapshot map[int][]int, imageCount int) {
	s.Reset()
	for gen, indices := range snapshot {
		if gen < 0 {
			continue
		}
		sel := NewSelection(indices...)
		sel.prune(imageCount)
		s.byGeneration[gen] = sel
	}
}
