package breeder

import (
	"fmt"
	"time"

	"breeder/internal/types"
)

const DefaultImageCount = 60

type StateOptions struct {
	ImageCount int
	SafeNav    bool
	Now        func() time.Time
}

// State is the whole client-side view of a breeding run: navigation bounds,
// selection memory, cache tokens, the live selection of the displayed
// generation and the image count.
type State struct {
	Nav        *Navigator
	Selections *SelectionStore
	Cache      *GenerationCache
	live       Selection
	imageCount int
}

func NewState(opts StateOptions) *State {
	count := opts.ImageCount
	if count <= 0 {
		count = DefaultImageCount
	}
	s := &State{
		Nav:        NewNavigator(opts.SafeNav),
		Selections: NewSelectionStore(),
		Cache:      NewGenerationCache(opts.Now),
		live:       NewSelection(),
		imageCount: count,
	}
	s.Nav.OnLeave(func(generation int) {
		s.Selections.Capture(generation, s.live)
	})
	return s
}

func (s *State) Current() int    { return s.Nav.Current() }
func (s *State) Maximum() int    { return s.Nav.Maximum() }
func (s *State) ImageCount() int { return s.imageCount }

// Live returns a copy of the selection on the displayed generation.
func (s *State) Live() Selection {
	return s.live.Clone()
}

func (s *State) IsSelected(idx int) bool {
	return s.live.Has(idx)
}

func (s *State) SetImageCount(count int) error {
	if count <= 0 {
		return fmt.Errorf("set image count %d: %w", count, ErrInvalidImageCount)
	}
	s.imageCount = count
	s.live.prune(count)
	s.Selections.Prune(count)
	return nil
}

func (s *State) Toggle(idx int) (bool, error) {
	if idx < 0 || idx >= s.imageCount {
		return false, fmt.Errorf("toggle image %d of %d: %w", idx, s.imageCount, ErrImageOutOfRange)
	}
	return s.live.Toggle(idx), nil
}

func (s *State) ClearLive() {
	s.live = NewSelection()
}

// SetGeneration snapshots the outgoing selection, moves, and restores the
// remembered selection of the generation moved to.
func (s *State) SetGeneration(target, maximum int) error {
	err := s.Nav.SetGeneration(target, maximum)
	s.live = s.Selections.Get(s.Nav.Current())
	return err
}

func (s *State) Previous() error {
	return s.SetGeneration(s.Nav.Current()-1, s.Nav.Maximum())
}

func (s *State) Next() error {
	return s.SetGeneration(s.Nav.Current()+1, s.Nav.Maximum())
}

func (s *State) Jump(target int) error {
	return s.SetGeneration(target, s.Nav.Maximum())
}

func (s *State) Compose() Request {
	return Compose(s.live, s.Selections, s.Nav)
}

// ApplyInfo adopts the image count and generation bounds reported by the
// server. A run without generations falls back to (0, 0).
func (s *State) ApplyInfo(info types.GenerationInfo) error {
	var countErr error
	if info.NumImages > 0 {
		countErr = s.SetImageCount(info.NumImages)
	} else {
		countErr = fmt.Errorf("server reported %d images: %w", info.NumImages, ErrInvalidImageCount)
	}
	var navErr error
	if info.NumGenerations > 0 {
		navErr = s.SetGeneration(info.CurrentGeneration, info.NumGenerations-1)
	} else {
		navErr = s.SetGeneration(0, 0)
	}
	if navErr != nil {
		return navErr
	}
	return countErr
}

// ResetRun forgets every selection and token and returns to generation 0.
func (s *State) ResetRun() {
	s.live = NewSelection()
	s.Selections.Reset()
	s.Cache.Reset()
	_ = s.SetGeneration(0, 0)
}

// RestoreSelections replaces remembered selections, for example from a saved
// snapshot, and reloads the live selection of the displayed generation.
func (s *State) RestoreSelections(snapshot map[int][]int) {
	s.Selections.Restore(snapshot, s.imageCount)
	s.live = s.Selections.Get(s.Nav.Current())
}

// SnapshotSelections exports remembered selections with the live selection
// standing in for the displayed generation.
func (s *State) SnapshotSelections() map[int][]int {
	out := s.Selections.Snapshot()
	current := s.Nav.Current()
	if s.live.Len() > 0 {
		out[current] = s.live.Sorted()
	} else {
		delete(out, current)
	}
	return out
}
