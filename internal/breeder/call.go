package breeder

import (
	"context"

	"breeder/internal/types"
)

type CallKind int

const (
	CallResume CallKind = iota
	CallReset
	CallBreed
	CallRebreed
	CallTest
)

func (k CallKind) String() string {
	switch k {
	case CallResume:
		return "client-init"
	case CallReset:
		return "reset"
	case CallBreed:
		return "breed"
	case CallRebreed:
		return "rebreed"
	case CallTest:
		return "test"
	default:
		return "unknown"
	}
}

// Mutating reports whether the call changes server state.
func (k CallKind) Mutating() bool {
	return k != CallResume
}

// Call is a request prepared by Dispatch. It runs outside the event loop and
// its Result is handed back to Complete.
type Call struct {
	Kind       CallKind
	Epoch      uint64
	Target     types.BreedTarget
	ImageCount int
	TestNumber int

	ctx       context.Context
	origin    int
	originMax int
	run       func(ctx context.Context) (types.GenerationInfo, error)
}

func (c *Call) Context() context.Context {
	if c == nil || c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Do performs the request. It is safe to call from any goroutine.
func (c *Call) Do() Result {
	info, err := c.run(c.Context())
	return Result{Call: c, Info: info, Err: err}
}

type Result struct {
	Call *Call
	Info types.GenerationInfo
	Err  error
}
