package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const genotypeMinHeight = 3

// genotypePanel shows the genotype of one image in a scrollable frame.
type genotypePanel struct {
	viewport   viewport.Model
	open       bool
	generation int
	image      int
	raw        string
	loading    bool
}

func newGenotypePanel() genotypePanel {
	return genotypePanel{viewport: viewport.New(defaultWidth, genotypeMinHeight)}
}

func (p *genotypePanel) resize(width, height int) {
	// frame border and padding take four columns and two rows
	p.viewport.Width = max(1, width-4)
	p.viewport.Height = max(genotypeMinHeight, height-2)
	if p.raw != "" {
		p.viewport.SetContent(renderGenotype(p.raw, p.viewport.Width))
	}
}

func (p *genotypePanel) show(generation, image int) {
	p.open = true
	p.generation = generation
	p.image = image
	p.raw = ""
	p.loading = true
	p.viewport.SetContent("loading genotype…")
	p.viewport.GotoTop()
}

// setContent applies a fetched genotype if it belongs to the image shown.
func (p *genotypePanel) setContent(generation, image int, genotype string, err error) bool {
	if !p.open || generation != p.generation || image != p.image {
		return false
	}
	p.loading = false
	if err != nil {
		p.raw = ""
		p.viewport.SetContent("genotype unavailable: " + err.Error())
		return true
	}
	p.raw = genotype
	p.viewport.SetContent(renderGenotype(genotype, p.viewport.Width))
	p.viewport.GotoTop()
	return true
}

func (p *genotypePanel) close() {
	p.open = false
	p.raw = ""
	p.loading = false
}

func (p *genotypePanel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *genotypePanel) title() string {
	return fmt.Sprintf("genotype gen %d img %d", p.generation, p.image)
}

func (p *genotypePanel) view() string {
	if !p.open {
		return ""
	}
	header := dialogHeaderStyle.Render(" " + p.title() + " ")
	return genotypeFrameStyle.Render(header + "\n" + p.viewport.View())
}
