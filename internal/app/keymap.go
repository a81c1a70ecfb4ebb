package app

import (
	"github.com/charmbracelet/bubbles/key"

	"breeder/internal/breeder"
)

type keyMap struct {
	Quit           key.Binding
	Help           key.Binding
	Left           key.Binding
	Right          key.Binding
	Up             key.Binding
	Down           key.Binding
	Genotype       key.Binding
	CopyImage      key.Binding
	CopyZoom       key.Binding
	ImageCount     key.Binding
	Previous       key.Binding
	Next           key.Binding
	First          key.Binding
	Last           key.Binding
	Toggle         key.Binding
	ClearSelection key.Binding
	Breed          key.Binding
	Reset          key.Binding
	Fresh          key.Binding
	Start          key.Binding
	Tests          [4]key.Binding
}

func newKeyMap(bindings *Keybindings) keyMap {
	bind := func(command, desc string) key.Binding {
		keys := bindings.Keys(command)
		label := keys[0]
		if label == " " {
			label = "space"
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
	}
	km := keyMap{
		Quit:           bind(KeyCommandQuit, "quit"),
		Help:           bind(KeyCommandHelp, "help"),
		Left:           bind(KeyCommandCursorLeft, "left"),
		Right:          bind(KeyCommandCursorRight, "right"),
		Up:             bind(KeyCommandCursorUp, "up"),
		Down:           bind(KeyCommandCursorDown, "down"),
		Genotype:       bind(KeyCommandGenotype, "genotype"),
		CopyImage:      bind(KeyCommandCopyImageURL, "copy url"),
		CopyZoom:       bind(KeyCommandCopyZoomURL, "copy zoom url"),
		ImageCount:     bind(KeyCommandImageCount, "image count"),
		Previous:       bind(KeyCommandPrevious, "prev gen"),
		Next:           bind(KeyCommandNext, "next gen"),
		First:          bind(KeyCommandFirst, "first gen"),
		Last:           bind(KeyCommandLast, "last gen"),
		Toggle:         bind(KeyCommandToggle, "select"),
		ClearSelection: bind(KeyCommandClearSelection, "clear"),
		Breed:          bind(KeyCommandBreed, "breed"),
		Reset:          bind(KeyCommandReset, "reset"),
		Fresh:          bind(KeyCommandFresh, "fresh"),
		Start:          bind(KeyCommandStart, "resume"),
	}
	for i, command := range []string{KeyCommandTest1, KeyCommandTest2, KeyCommandTest3, KeyCommandTest4} {
		km.Tests[i] = bind(command, "test "+string(rune('1'+i)))
	}
	return km
}

// sync enables only the bindings whose actions are currently available, which
// also hides the rest from the help line.
func (k *keyMap) sync(controls breeder.Controls) {
	k.Start.SetEnabled(controls.Start)
	k.Fresh.SetEnabled(controls.Fresh)
	k.Reset.SetEnabled(controls.Reset)
	k.Breed.SetEnabled(controls.Breed)
	k.Previous.SetEnabled(controls.Previous)
	k.Next.SetEnabled(controls.Next)
	for i := range k.Tests {
		k.Tests[i].SetEnabled(controls.Test)
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Fresh, k.Reset, k.Toggle, k.Breed, k.Previous, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Fresh, k.Reset, k.Breed, k.ImageCount},
		{k.Previous, k.Next, k.First, k.Last},
		{k.Left, k.Right, k.Up, k.Down, k.Toggle, k.ClearSelection},
		{k.Genotype, k.CopyImage, k.CopyZoom},
		{k.Tests[0], k.Tests[1], k.Tests[2], k.Tests[3]},
		{k.Help, k.Quit},
	}
}
