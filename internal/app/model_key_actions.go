package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"breeder/internal/breeder"
	"breeder/internal/logging"
)

const resetConfirmMessage = "Reset to new generation 0?"

// handleKey routes a key to the topmost open layer: dialog, image count
// field, genotype panel, then the grid.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm.IsOpen() {
		_, choice := m.confirm.HandleKey(msg)
		return m.resolveConfirm(choice)
	}
	if m.countInput.IsOpen() {
		return m.handleCountKey(msg)
	}
	if m.genotype.open {
		if cmd, handled := m.handleGenotypeKey(msg); handled {
			return cmd
		}
	}
	return m.handleGridKey(msg)
}

func (m *Model) resolveConfirm(choice confirmChoice) tea.Cmd {
	if choice == confirmChoiceNone {
		return nil
	}
	action := m.onConfirm
	m.onConfirm = nil
	m.confirm.Close()
	if choice == confirmChoiceConfirm && action != nil {
		return action()
	}
	return nil
}

func (m *Model) handleCountKey(msg tea.KeyMsg) tea.Cmd {
	submitted, cmd := m.countInput.Update(msg)
	if !submitted {
		return cmd
	}
	count, err := m.countInput.Value()
	if err != nil {
		m.showErrorToast(err.Error())
		return nil
	}
	m.countInput.Close()
	return m.requestReset(count)
}

func (m *Model) handleGenotypeKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.Genotype):
		m.genotype.close()
		return nil, true
	case key.Matches(msg, m.keys.CopyImage):
		m.copyWithStatus(m.api.GenotypeURL(m.genotype.generation, m.genotype.image), "genotype url copied")
		return nil, true
	case msg.String() == "up", msg.String() == "down", msg.String() == "pgup", msg.String() == "pgdown":
		return m.genotype.update(msg), true
	}
	return nil, false
}

func (m *Model) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	st := m.breeder.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quitCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.grid.move(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.grid.move(1, 0)
	case key.Matches(msg, m.keys.Up):
		m.grid.move(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.grid.move(0, 1)
	case key.Matches(msg, m.keys.Genotype):
		return m.openGenotype()
	case key.Matches(msg, m.keys.CopyImage):
		m.copyWithStatus(m.focusedImageURL(m.thumbSize), "image url copied")
	case key.Matches(msg, m.keys.CopyZoom):
		m.copyWithStatus(m.focusedImageURL(m.zoomSize), "zoom url copied")
	case key.Matches(msg, m.keys.ImageCount):
		return m.countInput.Open(st.ImageCount())
	case key.Matches(msg, m.keys.Previous):
		return m.dispatch(breeder.Event{Kind: breeder.EventPrevious})
	case key.Matches(msg, m.keys.Next):
		return m.dispatch(breeder.Event{Kind: breeder.EventNext})
	case key.Matches(msg, m.keys.First):
		return m.dispatch(breeder.Event{Kind: breeder.EventJump, Value: 0})
	case key.Matches(msg, m.keys.Last):
		return m.dispatch(breeder.Event{Kind: breeder.EventJump, Value: st.Maximum()})
	case key.Matches(msg, m.keys.Toggle):
		return m.dispatch(breeder.Event{Kind: breeder.EventToggle, Value: m.grid.cursor})
	case key.Matches(msg, m.keys.ClearSelection):
		return m.dispatch(breeder.Event{Kind: breeder.EventClearSelection})
	case key.Matches(msg, m.keys.Breed):
		return m.dispatch(breeder.Event{Kind: breeder.EventBreed})
	case key.Matches(msg, m.keys.Reset), key.Matches(msg, m.keys.Fresh):
		return m.requestReset(0)
	case key.Matches(msg, m.keys.Start):
		return m.startRun()
	default:
		for i, binding := range m.keys.Tests {
			if key.Matches(msg, binding) {
				return m.dispatch(breeder.Event{Kind: breeder.EventTest, Value: i + 1})
			}
		}
	}
	return nil
}

// requestReset starts a new run with count images, or the current count when
// count is 0. An existing run is only discarded after confirmation.
func (m *Model) requestReset(count int) tea.Cmd {
	reset := func() tea.Cmd {
		return m.dispatch(breeder.Event{Kind: breeder.EventReset, Value: count})
	}
	if !m.breeder.Started() {
		return reset()
	}
	m.onConfirm = reset
	m.confirm.Open("Reset", resetConfirmMessage, "Reset", "Cancel")
	return nil
}

func (m *Model) startRun() tea.Cmd {
	cmd := m.dispatch(breeder.Event{Kind: breeder.EventStart})
	if m.breeder.Started() {
		st := m.breeder.State()
		m.status = fmt.Sprintf("resumed at generation %d of %d", st.Current(), st.Maximum())
		m.restoreSnapshot()
	}
	return cmd
}

func (m *Model) openGenotype() tea.Cmd {
	if !m.breeder.Started() || m.grid.count == 0 {
		return nil
	}
	gen := m.breeder.State().Current()
	m.genotype.show(gen, m.grid.cursor)
	return fetchGenotypeCmd(m.api, gen, m.grid.cursor)
}

func (m *Model) handleGenotype(msg genotypeMsg) {
	if !m.genotype.setContent(msg.generation, msg.image, msg.genotype, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("genotype fetch failed",
			logging.F("generation", msg.generation),
			logging.F("image", msg.image),
			logging.F("err", msg.err))
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.confirm.IsOpen() {
		_, choice := m.confirm.HandleMouse(msg, m.width, m.height)
		return m.resolveConfirm(choice)
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	idx, ok := m.grid.hit(msg.X, msg.Y-gridTopRow)
	if !ok {
		return nil
	}
	m.grid.cursor = idx
	return m.dispatch(breeder.Event{Kind: breeder.EventToggle, Value: idx})
}
