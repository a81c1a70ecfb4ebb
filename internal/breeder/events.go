package breeder

type EventKind int

const (
	EventResume EventKind = iota
	EventStart
	EventReset
	EventBreed
	EventTest
	EventPrevious
	EventNext
	EventJump
	EventToggle
	EventSetImageCount
	EventClearSelection
)

func (k EventKind) String() string {
	switch k {
	case EventResume:
		return "resume"
	case EventStart:
		return "start"
	case EventReset:
		return "reset"
	case EventBreed:
		return "breed"
	case EventTest:
		return "test"
	case EventPrevious:
		return "previous"
	case EventNext:
		return "next"
	case EventJump:
		return "jump"
	case EventToggle:
		return "toggle"
	case EventSetImageCount:
		return "set_image_count"
	case EventClearSelection:
		return "clear_selection"
	default:
		return "unknown"
	}
}

// Event is one user or lifecycle input. Value carries the image count for
// EventReset (0 keeps the current one), the test number for EventTest, the
// generation for EventJump and the image index for EventToggle.
type Event struct {
	Kind  EventKind
	Value int
}

type action func(b *Breeder, ev Event) (*Call, error)

var actions = map[EventKind]action{
	EventResume:         (*Breeder).resume,
	EventStart:          (*Breeder).start,
	EventReset:          (*Breeder).reset,
	EventBreed:          (*Breeder).breed,
	EventTest:           (*Breeder).test,
	EventPrevious:       (*Breeder).previous,
	EventNext:           (*Breeder).next,
	EventJump:           (*Breeder).jump,
	EventToggle:         (*Breeder).toggle,
	EventSetImageCount:  (*Breeder).setImageCount,
	EventClearSelection: (*Breeder).clearSelection,
}
