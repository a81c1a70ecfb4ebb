package breeder

import (
	"context"
	"errors"
	"fmt"

	"breeder/internal/logging"
	"breeder/internal/types"
)

type API interface {
	ClientInit(ctx context.Context) (types.GenerationInfo, error)
	Reset(ctx context.Context, imageCount int) (types.GenerationInfo, error)
	Breed(ctx context.Context, target types.BreedTarget) (types.GenerationInfo, error)
	Test(ctx context.Context, number int) (types.GenerationInfo, error)
}

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseAwaitingResume
	PhaseIdle
	PhaseBusy
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseAwaitingResume:
		return "awaiting_resume"
	case PhaseIdle:
		return "idle"
	case PhaseBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Controls says which user actions are currently available.
type Controls struct {
	Start    bool
	Fresh    bool
	Reset    bool
	Breed    bool
	Test     bool
	Previous bool
	Next     bool
}

type Options struct {
	Logger  logging.Logger
	Context context.Context
}

// Breeder drives State from events and owns the single outstanding request.
// It is not safe for concurrent use; callers feed it from one event loop and
// run Calls elsewhere.
type Breeder struct {
	api       API
	state     *State
	logger    logging.Logger
	base      context.Context
	phase     Phase
	started   bool
	resumable *types.GenerationInfo
	epoch     uint64
	pending   *Call
	cancel    context.CancelFunc
}

func New(api API, state *State, opts Options) *Breeder {
	if state == nil {
		state = NewState(StateOptions{SafeNav: true})
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	base := opts.Context
	if base == nil {
		base = context.Background()
	}
	return &Breeder{
		api:    api,
		state:  state,
		logger: logger,
		base:   base,
		phase:  PhaseUninitialized,
	}
}

func (b *Breeder) State() *State  { return b.state }
func (b *Breeder) Phase() Phase   { return b.phase }
func (b *Breeder) Started() bool  { return b.started }
func (b *Breeder) Epoch() uint64  { return b.epoch }
func (b *Breeder) Pending() *Call { return b.pending }

// Busy reports whether a request that changes server state is outstanding.
// A client-init handshake in flight does not count.
func (b *Breeder) Busy() bool {
	return b.pending != nil && b.pending.Kind.Mutating()
}

// Resumable returns the run reported by client-init, if the user has not
// started it yet.
func (b *Breeder) Resumable() (types.GenerationInfo, bool) {
	if b.resumable == nil || b.started {
		return types.GenerationInfo{}, false
	}
	return *b.resumable, true
}

func (b *Breeder) Controls() Controls {
	idle := !b.Busy()
	_, resumable := b.Resumable()
	return Controls{
		Start:    idle && resumable,
		Fresh:    idle,
		Reset:    idle && b.started,
		Breed:    idle && b.started,
		Test:     idle,
		Previous: b.state.Nav.PreviousEnabled(),
		Next:     b.state.Nav.NextEnabled(),
	}
}

// Dispatch applies ev to the state. When ev needs the breeding service the
// returned Call must be run and its Result passed to Complete.
func (b *Breeder) Dispatch(ev Event) (*Call, error) {
	act, ok := actions[ev.Kind]
	if !ok {
		return nil, fmt.Errorf("dispatch %d: %w", ev.Kind, ErrUnknownEvent)
	}
	return act(b, ev)
}

func (b *Breeder) resume(Event) (*Call, error) {
	if b.pending != nil {
		return nil, ErrBusy
	}
	if b.started {
		return nil, nil
	}
	b.phase = PhaseAwaitingResume
	return b.begin(CallResume, func(ctx context.Context) (types.GenerationInfo, error) {
		return b.api.ClientInit(ctx)
	}), nil
}

func (b *Breeder) start(Event) (*Call, error) {
	if b.Busy() {
		return nil, ErrBusy
	}
	info, ok := b.Resumable()
	if !ok {
		return nil, ErrNothingToResume
	}
	b.logger.Info("client starting", logging.F("generations", info.NumGenerations), logging.F("images", info.NumImages))
	b.resumable = nil
	b.started = true
	if err := b.state.ApplyInfo(info); err != nil {
		b.logger.Error("resume data out of range", logging.F("err", err))
	}
	b.state.Cache.Refresh(0, b.state.Maximum())
	return nil, nil
}

func (b *Breeder) reset(ev Event) (*Call, error) {
	if b.Busy() {
		return nil, ErrBusy
	}
	if ev.Value != 0 {
		if err := b.state.SetImageCount(ev.Value); err != nil {
			return nil, err
		}
	}
	count := b.state.ImageCount()
	b.state.ResetRun()
	b.started = true
	b.resumable = nil
	call := b.begin(CallReset, func(ctx context.Context) (types.GenerationInfo, error) {
		return b.api.Reset(ctx, count)
	})
	call.ImageCount = count
	return call, nil
}

func (b *Breeder) breed(Event) (*Call, error) {
	if b.Busy() {
		return nil, ErrBusy
	}
	if !b.started {
		return nil, ErrNotStarted
	}
	req := b.state.Compose()
	if !req.Valid() {
		b.logger.Info("breeding aborted", logging.F("generation", b.state.Current()), logging.F("selected", b.state.live.Len()))
		return nil, ErrInvalidBreed
	}
	kind := CallBreed
	if req.Kind == RequestRebreed {
		kind = CallRebreed
	}
	target := req.Target
	call := b.begin(kind, func(ctx context.Context) (types.GenerationInfo, error) {
		return b.api.Breed(ctx, target)
	})
	call.Target = target
	b.logger.Debug("sending breed request", logging.F("kind", kind), logging.F("generation", target.Generation), logging.F("images", target.Images))
	return call, nil
}

func (b *Breeder) test(ev Event) (*Call, error) {
	if b.Busy() {
		return nil, ErrBusy
	}
	if ev.Value < 1 {
		return nil, fmt.Errorf("test %d: %w", ev.Value, ErrInvalidTest)
	}
	number := ev.Value
	call := b.begin(CallTest, func(ctx context.Context) (types.GenerationInfo, error) {
		return b.api.Test(ctx, number)
	})
	call.TestNumber = number
	return call, nil
}

func (b *Breeder) previous(Event) (*Call, error) {
	b.cancelPending("previous")
	return nil, b.navigated(b.state.Previous())
}

func (b *Breeder) next(Event) (*Call, error) {
	b.cancelPending("next")
	return nil, b.navigated(b.state.Next())
}

func (b *Breeder) jump(ev Event) (*Call, error) {
	b.cancelPending("jump")
	return nil, b.navigated(b.state.Jump(ev.Value))
}

func (b *Breeder) toggle(ev Event) (*Call, error) {
	_, err := b.state.Toggle(ev.Value)
	return nil, err
}

// setImageCount changes the count the next reset asks for and drops
// selections of images beyond it.
func (b *Breeder) setImageCount(ev Event) (*Call, error) {
	return nil, b.state.SetImageCount(ev.Value)
}

func (b *Breeder) clearSelection(Event) (*Call, error) {
	b.state.ClearLive()
	return nil, nil
}

func (b *Breeder) navigated(err error) error {
	if err != nil {
		b.logger.Error("set generation called out of range in safe nav mode",
			logging.F("current", b.state.Current()),
			logging.F("maximum", b.state.Maximum()),
			logging.F("err", err),
		)
	}
	return err
}

// begin installs a new pending call. A client-init still in flight is
// superseded.
func (b *Breeder) begin(kind CallKind, run func(ctx context.Context) (types.GenerationInfo, error)) *Call {
	if b.cancel != nil {
		b.cancel()
	}
	b.epoch++
	ctx, cancel := context.WithCancel(b.base)
	call := &Call{
		Kind:      kind,
		Epoch:     b.epoch,
		ctx:       ctx,
		origin:    b.state.Current(),
		originMax: b.state.Maximum(),
		run:       run,
	}
	b.pending = call
	b.cancel = cancel
	if kind.Mutating() {
		b.phase = PhaseBusy
	}
	return call
}

func (b *Breeder) finish() {
	if b.cancel != nil {
		b.cancel()
	}
	b.pending = nil
	b.cancel = nil
	b.phase = PhaseIdle
}

// cancelPending abandons an outstanding mutating request so that its late
// response cannot overwrite the generation the user moved to. The client-init
// handshake is left running.
func (b *Breeder) cancelPending(reason string) {
	if b.pending == nil || !b.pending.Kind.Mutating() {
		return
	}
	b.logger.Warn("cancelling outstanding request", logging.F("kind", b.pending.Kind), logging.F("reason", reason))
	b.finish()
	b.epoch++
}

// Complete applies the result of a Call. Results from calls that were
// cancelled or superseded are dropped and reported as not applied.
func (b *Breeder) Complete(res Result) (bool, error) {
	call := res.Call
	if call == nil || call != b.pending || call.Epoch != b.epoch {
		b.logger.Debug("discarding stale response", logging.F("epoch", callEpoch(call)), logging.F("current_epoch", b.epoch))
		return false, nil
	}
	b.finish()
	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) {
			return false, nil
		}
		b.logger.Error(call.Kind.String()+" failed", logging.F("err", res.Err))
		if call.Kind == CallResume {
			_ = b.state.SetGeneration(0, 0)
		}
		return false, fmt.Errorf("%s: %w", call.Kind, res.Err)
	}
	switch call.Kind {
	case CallResume:
		return b.completeResume(res.Info)
	case CallReset:
		return b.completeReset(res.Info)
	case CallBreed, CallRebreed:
		return b.completeBreed(call, res.Info)
	case CallTest:
		return b.completeTest(call, res.Info)
	}
	return false, fmt.Errorf("complete %s: %w", call.Kind, ErrUnknownEvent)
}

func (b *Breeder) completeResume(info types.GenerationInfo) (bool, error) {
	if info.NumGenerations < 1 {
		b.logger.Info("server reported no generations, disabling resume")
		return false, nil
	}
	if info.NumImages < 1 {
		b.logger.Info("server reported generations but no images, disabling resume")
		return false, nil
	}
	b.logger.Info("server reported extant images, resume enabled", logging.F("generations", info.NumGenerations))
	b.resumable = &info
	return true, nil
}

func (b *Breeder) completeReset(info types.GenerationInfo) (bool, error) {
	err := b.state.ApplyInfo(info)
	b.state.ClearLive()
	b.state.Selections.Reset()
	b.state.Cache.Reset()
	b.state.Cache.TokenFor(b.state.Current())
	if err != nil {
		b.logger.Error("reset response out of range", logging.F("err", err))
	}
	return true, err
}

func (b *Breeder) completeBreed(call *Call, info types.GenerationInfo) (bool, error) {
	b.state.Selections.ClearFrom(call.origin + 1)
	b.state.Cache.Refresh(call.origin+1, call.originMax)
	err := b.state.ApplyInfo(info)
	b.state.Cache.Invalidate(call.origin)
	b.state.Cache.Invalidate(b.state.Current())
	if err != nil {
		b.logger.Error("breed response out of range", logging.F("err", err))
	}
	return true, err
}

func (b *Breeder) completeTest(call *Call, info types.GenerationInfo) (bool, error) {
	if !info.HasRun() {
		b.logger.Error("test generation is empty", logging.F("test", call.TestNumber), logging.F("generations", info.NumGenerations), logging.F("images", info.NumImages))
		return false, fmt.Errorf("test %d: %w", call.TestNumber, ErrEmptyGeneration)
	}
	err := b.state.ApplyInfo(info)
	b.state.ClearLive()
	b.state.Selections.Reset()
	b.state.Cache.Reset()
	b.state.Cache.Refresh(0, b.state.Maximum())
	b.started = true
	b.resumable = nil
	b.logger.Info("displaying test generation", logging.F("test", call.TestNumber))
	return true, err
}

func callEpoch(call *Call) uint64 {
	if call == nil {
		return 0
	}
	return call.Epoch
}
