package breeder

import "fmt"

// Navigator tracks the displayed generation and the newest generation the
// server is known to hold. With safe navigation on, current stays within
// [0, maximum].
type Navigator struct {
	current int
	maximum int
	safe    bool
	onLeave func(generation int)
}

func NewNavigator(safe bool) *Navigator {
	return &Navigator{safe: safe}
}

func (n *Navigator) Current() int  { return n.current }
func (n *Navigator) Maximum() int  { return n.maximum }
func (n *Navigator) SafeNav() bool { return n.safe }

// OnLeave registers the hook run with the outgoing generation before every
// transition.
func (n *Navigator) OnLeave(fn func(generation int)) {
	n.onLeave = fn
}

// SetGeneration moves to target and records newMaximum. Out of range targets
// are clamped when safe navigation is on; the returned error reports the
// violation but the transition still happens.
func (n *Navigator) SetGeneration(target, newMaximum int) error {
	if n.onLeave != nil {
		n.onLeave(n.current)
	}
	var err error
	if newMaximum < 0 {
		err = fmt.Errorf("set generation (%d, %d): maximum: %w", target, newMaximum, ErrGenerationOutOfRange)
		newMaximum = 0
	}
	if n.safe {
		if target > newMaximum {
			err = fmt.Errorf("set generation (%d, %d): %w", target, newMaximum, ErrGenerationOutOfRange)
			target = newMaximum
		}
		if target < 0 {
			err = fmt.Errorf("set generation (%d, %d): %w", target, newMaximum, ErrGenerationOutOfRange)
			target = 0
		}
	}
	n.current = target
	n.maximum = newMaximum
	return err
}

func (n *Navigator) Previous() error {
	return n.SetGeneration(n.current-1, n.maximum)
}

func (n *Navigator) Next() error {
	return n.SetGeneration(n.current+1, n.maximum)
}

func (n *Navigator) Jump(target int) error {
	return n.SetGeneration(target, n.maximum)
}

func (n *Navigator) Reset() error {
	return n.SetGeneration(0, 0)
}

func (n *Navigator) PreviousEnabled() bool {
	if !n.safe {
		return true
	}
	return n.current > 0
}

func (n *Navigator) NextEnabled() bool {
	if !n.safe {
		return true
	}
	return n.current < n.maximum
}
