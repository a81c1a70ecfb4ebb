package app

import (
	"fmt"
	"strings"

	"breeder/internal/breeder"
)

func (m *Model) View() string {
	lines := []string{m.headerLine(), dividerStyle.Render(strings.Repeat("─", m.width))}
	st := m.breeder.State()
	if m.breeder.Started() {
		lines = append(lines, m.grid.render(st.IsSelected)...)
		lines = append(lines, dividerStyle.Render(strings.Repeat("─", m.width)))
		lines = append(lines, m.focusLine())
	} else {
		lines = append(lines, statusStyle.Render("no run loaded"))
	}
	if panel := m.genotype.view(); panel != "" {
		lines = append(lines, panel)
	}
	if m.countInput.IsOpen() {
		lines = append(lines, m.countInput.View())
	}
	lines = append(lines, m.statusLine())
	lines = append(lines, helpStyle.Render(m.help.View(m.keys)))
	view := strings.Join(lines, "\n")

	if m.confirm.IsOpen() {
		block, row := m.confirm.View(m.width, m.height)
		view = overlayBlock(view, block, row)
	}
	return view
}

func (m *Model) headerLine() string {
	st := m.breeder.State()
	text := fmt.Sprintf("generation %d/%d  images %d  selected %d",
		st.Current(), st.Maximum(), st.ImageCount(), st.Live().Len())
	if !st.Nav.SafeNav() {
		text += "  unsafe nav"
	}
	header := headerStyle.Render(truncateToWidth(text, m.width))
	if m.breeder.Phase() == breeder.PhaseBusy {
		header += activityStyle.Render("  " + m.pendingLabel() + "…")
	}
	return header
}

func (m *Model) focusLine() string {
	if m.grid.count == 0 {
		return ""
	}
	label := fmt.Sprintf("#%d ", m.grid.cursor)
	url := m.focusedImageURL(m.thumbSize)
	return label + urlStyle.Render(truncateToWidth(url, max(1, m.width-len(label))))
}

func (m *Model) statusLine() string {
	if toast := m.toastLine(m.width); toast != "" {
		return toast
	}
	return statusStyle.Render(truncateToWidth(m.status, m.width))
}
