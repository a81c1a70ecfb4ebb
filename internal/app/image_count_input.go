package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var errImageCountNotPositive = errors.New("image count must be a positive number")

// ImageCountInput collects the number of images for the next reset.
type ImageCountInput struct {
	input  textinput.Model
	active bool
}

func NewImageCountInput() *ImageCountInput {
	in := textinput.New()
	in.Prompt = "images: "
	in.Placeholder = "60"
	in.CharLimit = 5
	in.Width = 8
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Validate = func(value string) error {
		for _, r := range value {
			if r < '0' || r > '9' {
				return errImageCountNotPositive
			}
		}
		return nil
	}
	return &ImageCountInput{input: in}
}

func (c *ImageCountInput) IsOpen() bool {
	return c != nil && c.active
}

func (c *ImageCountInput) Open(current int) tea.Cmd {
	c.active = true
	c.input.SetValue(strconv.Itoa(current))
	c.input.CursorEnd()
	return c.input.Focus()
}

func (c *ImageCountInput) Close() {
	c.active = false
	c.input.Blur()
	c.input.Reset()
}

// Update feeds msg to the field. submitted is set once enter is pressed; the
// field closes on enter and esc.
func (c *ImageCountInput) Update(msg tea.KeyMsg) (submitted bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.Close()
		return false, nil
	case "enter":
		return true, nil
	}
	c.input, cmd = c.input.Update(msg)
	return false, cmd
}

// Value parses the entered count.
func (c *ImageCountInput) Value() (int, error) {
	raw := strings.TrimSpace(c.input.Value())
	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		return 0, fmt.Errorf("%q: %w", raw, errImageCountNotPositive)
	}
	return count, nil
}

func (c *ImageCountInput) View() string {
	return c.input.View()
}
