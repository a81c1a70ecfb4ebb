package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type confirmChoice int

const (
	confirmChoiceNone confirmChoice = iota
	confirmChoiceConfirm
	confirmChoiceCancel
)

const (
	confirmMaxWidth = 60
	confirmMinWidth = 24
)

// ConfirmController is a modal yes/no dialog. With the cancel label empty it
// acts as a single-button alert.
type ConfirmController struct {
	active       bool
	title        string
	message      string
	confirmLabel string
	cancelLabel  string
	selected     int
}

func NewConfirmController() *ConfirmController {
	return &ConfirmController{}
}

func (c *ConfirmController) IsOpen() bool {
	return c != nil && c.active
}

func (c *ConfirmController) Open(title, message, confirmLabel, cancelLabel string) {
	if c == nil {
		return
	}
	c.active = true
	c.title = strings.TrimSpace(title)
	c.message = strings.TrimSpace(message)
	if confirmLabel == "" {
		confirmLabel = "Confirm"
	}
	c.confirmLabel = confirmLabel
	c.cancelLabel = cancelLabel
	c.selected = 0
}

// OpenAlert shows message with a single acknowledgement button.
func (c *ConfirmController) OpenAlert(title, message string) {
	c.Open(title, message, "OK", "")
}

func (c *ConfirmController) isAlert() bool {
	return c.cancelLabel == ""
}

func (c *ConfirmController) Close() {
	if c == nil {
		return
	}
	*c = ConfirmController{}
}

func (c *ConfirmController) HandleKey(msg tea.KeyMsg) (bool, confirmChoice) {
	if c == nil || !c.active {
		return false, confirmChoiceNone
	}
	if c.isAlert() {
		switch msg.String() {
		case "enter", "esc", " ", "q", "y":
			return true, confirmChoiceConfirm
		}
		return true, confirmChoiceNone
	}
	switch msg.String() {
	case "esc", "q":
		return true, confirmChoiceCancel
	case "left", "h":
		c.selected = 0
		return true, confirmChoiceNone
	case "right", "l":
		c.selected = 1
		return true, confirmChoiceNone
	case "tab":
		c.selected = 1 - c.selected
		return true, confirmChoiceNone
	case "y":
		return true, confirmChoiceConfirm
	case "n":
		return true, confirmChoiceCancel
	case "enter":
		if c.selected == 0 {
			return true, confirmChoiceConfirm
		}
		return true, confirmChoiceCancel
	}
	return true, confirmChoiceNone
}

func (c *ConfirmController) HandleMouse(msg tea.MouseMsg, maxWidth, maxHeight int) (bool, confirmChoice) {
	if c == nil || !c.active {
		return false, confirmChoiceNone
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false, confirmChoiceNone
	}
	x, y, width, height := c.layout(maxWidth, maxHeight)
	if msg.X < x || msg.X >= x+width || msg.Y < y || msg.Y >= y+height {
		return false, confirmChoiceNone
	}
	buttonRow := y + height - 2
	if msg.Y != buttonRow {
		return true, confirmChoiceNone
	}
	if c.isAlert() {
		return true, confirmChoiceConfirm
	}
	contentX := x + 1
	contentWidth := max(1, width-2)
	if msg.X < contentX || msg.X >= contentX+contentWidth {
		return true, confirmChoiceNone
	}
	if msg.X < contentX+contentWidth/2 {
		c.selected = 0
		return true, confirmChoiceConfirm
	}
	c.selected = 1
	return true, confirmChoiceCancel
}

// View renders the dialog indented to its column and returns the row it
// belongs on.
func (c *ConfirmController) View(maxWidth, maxHeight int) (string, int) {
	if c == nil || !c.active {
		return "", 0
	}
	x, y, width, _ := c.layout(maxWidth, maxHeight)
	innerWidth := max(1, width-2)
	contentWidth := max(1, innerWidth-2)
	title := c.title
	if title == "" {
		title = "Confirm"
	}
	title = truncateToWidth(title, contentWidth)
	lines := []string{dialogHeaderStyle.Render(" " + padToWidth(title, contentWidth) + " ")}

	if c.message != "" {
		wrapped := xansi.Hardwrap(c.message, contentWidth, true)
		for _, line := range strings.Split(wrapped, "\n") {
			line = truncateToWidth(line, contentWidth)
			lines = append(lines, dialogBodyStyle.Render(" "+padToWidth(line, contentWidth)+" "))
		}
	}
	lines = append(lines, c.buttonLine(contentWidth, innerWidth))

	style := confirmDialogBorderStyle
	if c.isAlert() {
		style = alertDialogBorderStyle
	}
	block := style.Render(strings.Join(lines, "\n"))
	return indentBlock(block, x), y
}

func (c *ConfirmController) buttonLine(contentWidth, innerWidth int) string {
	confirm := "[" + c.confirmLabel + "]"
	if c.isAlert() {
		confirm = selectedStyle.Render(padToWidth(truncateToWidth(confirm, contentWidth), contentWidth))
		return " " + confirm + " "
	}
	cancel := "[" + c.cancelLabel + "]"
	leftWidth := contentWidth / 2
	rightWidth := contentWidth - leftWidth
	confirm = padToWidth(truncateToWidth(confirm, leftWidth), leftWidth)
	cancel = padToWidth(truncateToWidth(cancel, rightWidth), rightWidth)
	if c.selected == 0 {
		confirm = selectedStyle.Render(confirm)
		cancel = dialogBodyStyle.Render(cancel)
	} else {
		confirm = dialogBodyStyle.Render(confirm)
		cancel = selectedStyle.Render(cancel)
	}
	line := " " + confirm + cancel + " "
	if xansi.StringWidth(line) < innerWidth {
		line = padToWidth(line, innerWidth)
	}
	return line
}

func (c *ConfirmController) layout(maxWidth, maxHeight int) (int, int, int, int) {
	width := c.menuWidth()
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	height := c.menuHeight(width)
	x, y := 0, 0
	if maxWidth > 0 {
		x = max(0, (maxWidth-width)/2)
	}
	if maxHeight > 0 {
		y = max(0, (maxHeight-height)/2)
	}
	return x, y, width, height
}

func (c *ConfirmController) menuWidth() int {
	contentWidth := xansi.StringWidth(c.title)
	if w := xansi.StringWidth(c.message); w > contentWidth {
		contentWidth = w
	}
	buttonWidth := xansi.StringWidth(c.confirmLabel) + xansi.StringWidth(c.cancelLabel) + 6
	if buttonWidth > contentWidth {
		contentWidth = buttonWidth
	}
	width := max(confirmMinWidth, contentWidth+4)
	return min(width, confirmMaxWidth)
}

func (c *ConfirmController) menuHeight(width int) int {
	contentWidth := max(1, width-4)
	height := 2
	if c.message != "" {
		height += len(strings.Split(xansi.Hardwrap(c.message, contentWidth, true), "\n"))
	}
	return height + 2
}
