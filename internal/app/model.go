package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"breeder/internal/breeder"
	"breeder/internal/client"
	"breeder/internal/logging"
	"breeder/internal/store"
	"breeder/internal/types"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	gridTopRow    = 2
)

type Options struct {
	API         BreederAPI
	Logger      logging.Logger
	Snapshots   store.SnapshotStore
	Keybindings *Keybindings
	Server      string
	SafeNav     bool
	ImageCount  int
	ThumbSize   int
	ZoomSize    int
	Context     context.Context
	Now         func() time.Time
}

type Model struct {
	api       BreederAPI
	logger    logging.Logger
	snapshots store.SnapshotStore
	server    string
	breeder   *breeder.Breeder
	thumbSize int
	zoomSize  int
	now       func() time.Time
	tick      func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	keys       keyMap
	help       help.Model
	confirm    *ConfirmController
	onConfirm  func() tea.Cmd
	countInput *ImageCountInput
	genotype   genotypePanel
	grid       imageGrid

	width    int
	height   int
	status   string
	restored *types.SelectionSnapshot

	toastText   string
	toastLevel  toastLevel
	toastUntil  time.Time
	toastSeq    int
	toastTicked int
}

func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	thumb := opts.ThumbSize
	if thumb <= 0 {
		thumb = client.ThumbSize
	}
	zoom := opts.ZoomSize
	if zoom <= 0 {
		zoom = client.ZoomSize
	}
	bindings := opts.Keybindings
	if bindings == nil {
		bindings = DefaultKeybindings()
	}
	state := breeder.NewState(breeder.StateOptions{
		ImageCount: opts.ImageCount,
		SafeNav:    opts.SafeNav,
		Now:        now,
	})
	m := Model{
		api:        opts.API,
		logger:     logger,
		snapshots:  opts.Snapshots,
		server:     opts.Server,
		breeder:    breeder.New(opts.API, state, breeder.Options{Logger: logger, Context: opts.Context}),
		thumbSize:  thumb,
		zoomSize:   zoom,
		now:        now,
		tick:       tea.Tick,
		keys:       newKeyMap(bindings),
		help:       help.New(),
		confirm:    NewConfirmController(),
		countInput: NewImageCountInput(),
		genotype:   newGenotypePanel(),
		status:     "connecting to " + opts.Server,
	}
	m.resize(defaultWidth, defaultHeight)
	m.syncControls()
	return m
}

func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx
	model := NewModel(opts)
	p := tea.NewProgram(&model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.dispatch(breeder.Event{Kind: breeder.EventResume}), loadSnapshotCmd(m.snapshots, m.server))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	case callResultMsg:
		cmd = m.handleCallResult(msg.result)
	case genotypeMsg:
		m.handleGenotype(msg)
	case snapshotLoadedMsg:
		m.handleSnapshotLoaded(msg)
	case snapshotSavedMsg:
		if msg.err != nil {
			m.logger.Warn("selection snapshot save failed", logging.F("err", msg.err))
			m.showWarningToast("could not save selections: " + msg.err.Error())
		}
	case snapshotDeletedMsg:
		if msg.err != nil {
			m.logger.Warn("selection snapshot delete failed", logging.F("err", msg.err))
		}
	case toastExpiredMsg:
		m.handleToastExpired(msg)
		return m, nil
	}
	m.syncControls()
	return m, tea.Batch(cmd, m.toastTickCmd())
}

func (m *Model) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	m.width = width
	m.height = height
	m.grid.resize(width)
	m.help.Width = width
	m.genotype.resize(width, height/2)
}

func (m *Model) syncControls() {
	m.grid.setCount(m.breeder.State().ImageCount())
	m.keys.sync(m.breeder.Controls())
}

// dispatch feeds ev to the breeder and returns the command running its
// request, if ev needs one.
func (m *Model) dispatch(ev breeder.Event) tea.Cmd {
	call, err := m.breeder.Dispatch(ev)
	if err != nil {
		m.handleDispatchError(ev, err)
		return nil
	}
	if call == nil {
		return nil
	}
	if call.Kind.Mutating() {
		m.status = call.Kind.String() + " in progress"
	}
	return runCallCmd(call)
}

func (m *Model) handleDispatchError(ev breeder.Event, err error) {
	switch {
	case errors.Is(err, breeder.ErrInvalidBreed):
		m.confirm.OpenAlert("Breed", "Not enough pictures for breeding: need at least two")
	case errors.Is(err, breeder.ErrBusy):
		m.showWarningToast("please wait: " + m.pendingLabel() + " in progress")
	case errors.Is(err, breeder.ErrGenerationOutOfRange):
		m.showWarningToast(fmt.Sprintf("generation out of range (0-%d)", m.breeder.State().Maximum()))
	case errors.Is(err, breeder.ErrNotStarted):
		m.showWarningToast("start a run first: reset or resume")
	default:
		m.logger.Warn("event rejected", logging.F("event", ev.Kind), logging.F("err", err))
		m.showErrorToast(err.Error())
	}
}

func (m *Model) pendingLabel() string {
	if call := m.breeder.Pending(); call != nil {
		return call.Kind.String()
	}
	return "request"
}

func (m *Model) handleCallResult(res breeder.Result) tea.Cmd {
	applied, err := m.breeder.Complete(res)
	if err != nil {
		m.status = "request failed"
		m.showErrorToast(describeCallError(res.Call, err))
		return nil
	}
	if !applied || res.Call == nil {
		return nil
	}
	st := m.breeder.State()
	switch res.Call.Kind {
	case breeder.CallResume:
		if info, ok := m.breeder.Resumable(); ok {
			m.status = fmt.Sprintf("run with %d generations found: %s resumes, %s starts fresh",
				info.NumGenerations, m.keys.Start.Help().Key, m.keys.Fresh.Help().Key)
		} else {
			m.status = "no run to resume: " + m.keys.Fresh.Help().Key + " starts a new one"
		}
		return nil
	case breeder.CallReset:
		m.status = fmt.Sprintf("new run with %d images", st.ImageCount())
		m.restored = nil
		return deleteSnapshotCmd(m.snapshots, m.server)
	case breeder.CallTest:
		m.status = fmt.Sprintf("test %d loaded: %d generations", res.Call.TestNumber, st.Maximum()+1)
		m.restored = nil
		return deleteSnapshotCmd(m.snapshots, m.server)
	case breeder.CallBreed, breeder.CallRebreed:
		m.status = fmt.Sprintf("bred generation %d", st.Current())
		return saveSnapshotCmd(m.snapshots, m.snapshot())
	}
	return nil
}

func describeCallError(call *breeder.Call, err error) string {
	label := "request"
	if call != nil {
		label = call.Kind.String()
	}
	if apiErr := client.AsAPIError(err); apiErr != nil {
		return fmt.Sprintf("%s failed: server returned %d", label, apiErr.StatusCode)
	}
	if errors.Is(err, client.ErrMalformedResponse) {
		return label + " failed: malformed server response"
	}
	return label + " failed: " + err.Error()
}

func (m *Model) handleSnapshotLoaded(msg snapshotLoadedMsg) {
	if msg.err != nil {
		m.logger.Warn("selection snapshot load failed", logging.F("err", msg.err))
		return
	}
	m.restored = msg.snapshot
}

// restoreSnapshot reapplies selections saved by an earlier session once the
// run they belong to has been resumed.
func (m *Model) restoreSnapshot() {
	snap := m.restored
	m.restored = nil
	if snap == nil || len(snap.Selections) == 0 {
		return
	}
	st := m.breeder.State()
	kept := make(map[int][]int, len(snap.Selections))
	for gen, indices := range snap.Selections {
		if gen <= st.Maximum() {
			kept[gen] = indices
		}
	}
	if len(kept) == 0 {
		return
	}
	st.RestoreSelections(kept)
	m.logger.Info("restored selection snapshot", logging.F("generations", len(kept)), logging.F("saved_at", snap.SavedAt))
	m.showInfoToast(fmt.Sprintf("restored selections for %d generations", len(kept)))
}

func (m *Model) snapshot() *types.SelectionSnapshot {
	if !m.breeder.Started() {
		return nil
	}
	st := m.breeder.State()
	return &types.SelectionSnapshot{
		Server:     m.server,
		ImageCount: st.ImageCount(),
		Current:    st.Current(),
		Selections: st.SnapshotSelections(),
		SavedAt:    m.now().UTC(),
	}
}

func (m *Model) quitCmd() tea.Cmd {
	if save := saveSnapshotCmd(m.snapshots, m.snapshot()); save != nil {
		return tea.Sequence(save, tea.Quit)
	}
	return tea.Quit
}

func (m *Model) focusedImageURL(size int) string {
	st := m.breeder.State()
	gen := st.Current()
	return m.api.ImageURL(gen, m.grid.cursor, size, st.Cache.Query(gen))
}
