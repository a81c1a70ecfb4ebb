package breeder

import "breeder/internal/types"

type RequestKind int

const (
	RequestInvalid RequestKind = iota
	RequestBreed
	RequestRebreed
)

func (k RequestKind) String() string {
	switch k {
	case RequestBreed:
		return "breed"
	case RequestRebreed:
		return "rebreed"
	default:
		return "invalid"
	}
}

type Request struct {
	Kind   RequestKind
	Target types.BreedTarget
}

func (r Request) Valid() bool {
	return r.Kind != RequestInvalid
}

const minBreedParents = 2

// Compose decides what a breed click means. A live selection of two or more
// images breeds them. An empty selection on the newest generation reuses the
// selection stored for the generation before it, which redoes the last breed.
// Anything else is invalid.
func Compose(live Selection, store *SelectionStore, nav *Navigator) Request {
	current := nav.Current()
	if live.Len() >= minBreedParents {
		return Request{
			Kind:   RequestBreed,
			Target: types.BreedTarget{Generation: current, Images: live.Sorted()},
		}
	}
	if live.Len() == 0 && current > 0 && current == nav.Maximum() {
		previous := store.Get(current - 1)
		if previous.Len() >= minBreedParents {
			return Request{
				Kind:   RequestRebreed,
				Target: types.BreedTarget{Generation: current - 1, Images: previous.Sorted()},
			}
		}
	}
	return Request{Kind: RequestInvalid}
}
