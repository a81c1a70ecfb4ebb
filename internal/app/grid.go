package app

import (
	"fmt"
	"strings"
)

const (
	gridCellWidth = 9
	gridMinCols   = 1
)

// imageGrid lays the images of one generation out in rows of fixed width
// cells and tracks the focused cell.
type imageGrid struct {
	count   int
	columns int
	cursor  int
}

func (g *imageGrid) resize(width int) {
	g.columns = max(gridMinCols, width/gridCellWidth)
}

func (g *imageGrid) setCount(count int) {
	g.count = max(0, count)
	if g.cursor >= g.count {
		g.cursor = max(0, g.count-1)
	}
}

func (g *imageGrid) cols() int {
	return max(gridMinCols, g.columns)
}

func (g *imageGrid) rows() int {
	if g.count == 0 {
		return 0
	}
	return (g.count + g.cols() - 1) / g.cols()
}

// move shifts the cursor by dx cells and dy rows, stopping at the edges.
func (g *imageGrid) move(dx, dy int) {
	if g.count == 0 {
		return
	}
	next := g.cursor + dx + dy*g.cols()
	if next < 0 || next >= g.count {
		if dy != 0 {
			return
		}
		next = min(max(next, 0), g.count-1)
	}
	g.cursor = next
}

// hit maps a position relative to the top left of the grid to an image.
func (g *imageGrid) hit(x, y int) (int, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	col := x / gridCellWidth
	if col >= g.cols() {
		return 0, false
	}
	idx := y*g.cols() + col
	if idx >= g.count {
		return 0, false
	}
	return idx, true
}

func (g *imageGrid) render(selected func(int) bool) []string {
	lines := make([]string, 0, g.rows())
	for row := 0; row < g.rows(); row++ {
		var b strings.Builder
		for col := 0; col < g.cols(); col++ {
			idx := row*g.cols() + col
			if idx >= g.count {
				break
			}
			b.WriteString(g.cell(idx, selected(idx)))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func (g *imageGrid) cell(idx int, marked bool) string {
	mark := "[ ]"
	if marked {
		mark = "[x]"
	}
	label := centerLabel(fmt.Sprintf("%s%d", mark, idx), gridCellWidth-1) + " "
	focused := idx == g.cursor
	switch {
	case marked && focused:
		return cellMarkedCursor.Render(label)
	case marked:
		return cellMarkedStyle.Render(label)
	case focused:
		return cellCursorStyle.Render(label)
	default:
		return cellStyle.Render(label)
	}
}
