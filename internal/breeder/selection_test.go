package breeder

import (
	"reflect"
	"testing"
)

func TestSelectionToggleAndSorted(t *testing.T) {
	sel := NewSelection()
	sel.Toggle(7)
	sel.Toggle(3)
	sel.Toggle(9)
	sel.Add(7)
	if now := sel.Toggle(9); now {
		t.Fatalf("expected second toggle to deselect")
	}
	if got := sel.Sorted(); !reflect.DeepEqual(got, []int{3, 7}) {
		t.Fatalf("expected [3 7], got %v", got)
	}
}

func TestSelectionStoreRoundTrip(t *testing.T) {
	store := NewSelectionStore()
	live := NewSelection(1, 4, 9)
	store.Capture(2, live)
	live.Toggle(1)

	got := store.Get(2)
	if !got.Equal(NewSelection(1, 4, 9)) {
		t.Fatalf("expected stored selection unaffected by later edits, got %v", got.Sorted())
	}
	got.Toggle(4)
	if !store.Get(2).Has(4) {
		t.Fatalf("expected Get to return a copy")
	}
}

func TestSelectionStoreGetMissingIsEmpty(t *testing.T) {
	store := NewSelectionStore()
	if got := store.Get(5); got.Len() != 0 {
		t.Fatalf("expected empty selection, got %v", got.Sorted())
	}
	if store.Has(5) {
		t.Fatalf("Get must not create an entry")
	}
}

func TestSelectionStoreClearFrom(t *testing.T) {
	store := NewSelectionStore()
	for gen := 0; gen < 5; gen++ {
		store.Capture(gen, NewSelection(gen))
	}
	store.ClearFrom(3)
	if got := store.Generations(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("expected generations [0 1 2], got %v", got)
	}
}

func TestSelectionStoreSnapshotRestore(t *testing.T) {
	store := NewSelectionStore()
	store.Capture(0, NewSelection(2, 5))
	store.Capture(1, NewSelection())
	store.Capture(3, NewSelection(0, 59, 60))

	snap := store.Snapshot()
	if _, ok := snap[1]; ok {
		t.Fatalf("expected empty selection to be omitted, got %v", snap)
	}

	restored := NewSelectionStore()
	restored.Restore(map[int][]int{0: {2, 5}, 3: {0, 59, 60}, -1: {1}}, 60)
	if restored.Has(-1) {
		t.Fatalf("expected negative generation dropped")
	}
	if got := restored.Get(3).Sorted(); !reflect.DeepEqual(got, []int{0, 59}) {
		t.Fatalf("expected out of range index pruned, got %v", got)
	}
}
