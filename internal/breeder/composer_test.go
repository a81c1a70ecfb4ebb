package breeder

import (
	"reflect"
	"testing"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		live     []int
		stored   map[int][]int
		current  int
		maximum  int
		kind     RequestKind
		wantGen  int
		wantImgs []int
	}{
		{
			name:     "breed live selection",
			live:     []int{7, 3},
			current:  2,
			maximum:  2,
			kind:     RequestBreed,
			wantGen:  2,
			wantImgs: []int{3, 7},
		},
		{
			name:     "breed on older generation",
			live:     []int{0, 1},
			current:  1,
			maximum:  4,
			kind:     RequestBreed,
			wantGen:  1,
			wantImgs: []int{0, 1},
		},
		{
			name:     "rebreed previous selection",
			stored:   map[int][]int{1: {9, 1, 4}},
			current:  2,
			maximum:  2,
			kind:     RequestRebreed,
			wantGen:  1,
			wantImgs: []int{1, 4, 9},
		},
		{
			name:    "single live image",
			live:    []int{3},
			stored:  map[int][]int{1: {1, 4}},
			current: 2,
			maximum: 2,
			kind:    RequestInvalid,
		},
		{
			name:    "empty at generation zero",
			current: 0,
			maximum: 0,
			kind:    RequestInvalid,
		},
		{
			name:    "empty below maximum",
			stored:  map[int][]int{1: {1, 4}},
			current: 2,
			maximum: 3,
			kind:    RequestInvalid,
		},
		{
			name:    "stored selection too small",
			stored:  map[int][]int{1: {4}},
			current: 2,
			maximum: 2,
			kind:    RequestInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewSelectionStore()
			store.Restore(tt.stored, 60)
			nav := NewNavigator(true)
			if err := nav.SetGeneration(tt.current, tt.maximum); err != nil {
				t.Fatalf("set generation: %v", err)
			}
			req := Compose(NewSelection(tt.live...), store, nav)
			if req.Kind != tt.kind {
				t.Fatalf("expected %s, got %s", tt.kind, req.Kind)
			}
			if req.Valid() != (tt.kind != RequestInvalid) {
				t.Fatalf("Valid() mismatch for %s", req.Kind)
			}
			if tt.kind == RequestInvalid {
				return
			}
			if req.Target.Generation != tt.wantGen || !reflect.DeepEqual(req.Target.Images, tt.wantImgs) {
				t.Fatalf("expected target [%d %v], got [%d %v]", tt.wantGen, tt.wantImgs, req.Target.Generation, req.Target.Images)
			}
		})
	}
}
