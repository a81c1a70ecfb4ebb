package app

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// padToWidth right-pads text with spaces to width display cells. Wider text
// is returned unchanged.
func padToWidth(text string, width int) string {
	w := xansi.StringWidth(text)
	if w >= width {
		return text
	}
	return text + strings.Repeat(" ", width-w)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	if xansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return xansi.Cut(text, 0, width-1) + "…"
}

// centerLabel fits a plain label into width cells, centred. Labels are cell
// tags like "#12" and never carry escape sequences.
func centerLabel(label string, width int) string {
	label = runewidth.Truncate(label, width, "")
	gap := width - runewidth.StringWidth(label)
	if gap <= 0 {
		return label
	}
	left := gap / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", gap-left)
}

func indentBlock(block string, spaces int) string {
	if spaces <= 0 {
		return block
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(block, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// overlayBlock replaces the lines of base starting at row with the lines of
// block. Rows past the end of base are appended.
func overlayBlock(base, block string, row int) string {
	if block == "" {
		return base
	}
	lines := strings.Split(base, "\n")
	for i, line := range strings.Split(block, "\n") {
		at := row + i
		for at >= len(lines) {
			lines = append(lines, "")
		}
		lines[at] = line
	}
	return strings.Join(lines, "\n")
}
