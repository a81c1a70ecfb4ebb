package app

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
	"strings"
)

const (
	KeyCommandQuit           = "ui.quit"
	KeyCommandHelp           = "ui.help"
	KeyCommandCursorLeft     = "ui.cursorLeft"
	KeyCommandCursorRight    = "ui.cursorRight"
	KeyCommandCursorUp       = "ui.cursorUp"
	KeyCommandCursorDown     = "ui.cursorDown"
	KeyCommandGenotype       = "ui.genotype"
	KeyCommandCopyImageURL   = "ui.copyImageURL"
	KeyCommandCopyZoomURL    = "ui.copyZoomURL"
	KeyCommandImageCount     = "ui.imageCount"
	KeyCommandPrevious       = "breeder.previous"
	KeyCommandNext           = "breeder.next"
	KeyCommandFirst          = "breeder.first"
	KeyCommandLast           = "breeder.last"
	KeyCommandToggle         = "breeder.toggle"
	KeyCommandClearSelection = "breeder.clearSelection"
	KeyCommandBreed          = "breeder.breed"
	KeyCommandReset          = "breeder.reset"
	KeyCommandFresh          = "breeder.fresh"
	KeyCommandStart          = "breeder.start"
	KeyCommandTest1          = "breeder.test1"
	KeyCommandTest2          = "breeder.test2"
	KeyCommandTest3          = "breeder.test3"
	KeyCommandTest4          = "breeder.test4"
)

var defaultKeybindingByCommand = map[string]string{
	KeyCommandQuit:           "q",
	KeyCommandHelp:           "?",
	KeyCommandCursorLeft:     "left",
	KeyCommandCursorRight:    "right",
	KeyCommandCursorUp:       "up",
	KeyCommandCursorDown:     "down",
	KeyCommandGenotype:       "g",
	KeyCommandCopyImageURL:   "y",
	KeyCommandCopyZoomURL:    "z",
	KeyCommandImageCount:     "c",
	KeyCommandPrevious:       "p",
	KeyCommandNext:           "n",
	KeyCommandFirst:          "home",
	KeyCommandLast:           "end",
	KeyCommandToggle:         " ",
	KeyCommandClearSelection: "x",
	KeyCommandBreed:          "b",
	KeyCommandReset:          "r",
	KeyCommandFresh:          "f",
	KeyCommandStart:          "s",
	KeyCommandTest1:          "1",
	KeyCommandTest2:          "2",
	KeyCommandTest3:          "3",
	KeyCommandTest4:          "4",
}

// Secondary keys that stay bound whatever the overrides say.
var keybindingAliases = map[string][]string{
	KeyCommandQuit:        {"ctrl+c"},
	KeyCommandCursorLeft:  {"h"},
	KeyCommandCursorRight: {"l"},
	KeyCommandCursorUp:    {"k"},
	KeyCommandCursorDown:  {"j"},
	KeyCommandPrevious:    {"pgup"},
	KeyCommandNext:        {"pgdown"},
	KeyCommandToggle:      {"space", "enter"},
}

type Keybindings struct {
	byCommand map[string]string
}

type keybindingEntry struct {
	Command string `json:"command"`
	Key     string `json:"key"`
}

func DefaultKeybindings() *Keybindings {
	return NewKeybindings(nil)
}

func NewKeybindings(overrides map[string]string) *Keybindings {
	byCommand := make(map[string]string, len(defaultKeybindingByCommand))
	for command, key := range defaultKeybindingByCommand {
		byCommand[command] = key
	}
	for command, key := range overrides {
		command = strings.TrimSpace(command)
		if _, ok := defaultKeybindingByCommand[command]; !ok {
			continue
		}
		if key == "space" {
			key = " "
		}
		if key != " " {
			key = strings.TrimSpace(key)
		}
		if key == "" {
			continue
		}
		byCommand[command] = key
	}
	return &Keybindings{byCommand: byCommand}
}

func LoadKeybindings(path string) (*Keybindings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultKeybindings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultKeybindings(), nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return DefaultKeybindings(), nil
	}
	overrides, err := parseKeybindingOverrides(data)
	if err != nil {
		return nil, err
	}
	return NewKeybindings(overrides), nil
}

func (k *Keybindings) KeyFor(command string) string {
	if k != nil {
		if key, ok := k.byCommand[command]; ok && key != "" {
			return key
		}
	}
	return defaultKeybindingByCommand[command]
}

// Keys returns the bound key followed by the command's fixed aliases.
func (k *Keybindings) Keys(command string) []string {
	keys := []string{k.KeyFor(command)}
	for _, alias := range keybindingAliases[command] {
		if alias != keys[0] {
			keys = append(keys, alias)
		}
	}
	return keys
}

func (k *Keybindings) Bindings() map[string]string {
	out := make(map[string]string, len(defaultKeybindingByCommand))
	for _, command := range KnownKeybindingCommands() {
		out[command] = k.KeyFor(command)
	}
	return out
}

func parseKeybindingOverrides(data []byte) (map[string]string, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var entries []keybindingEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
		out := map[string]string{}
		for _, entry := range entries {
			command := strings.TrimSpace(entry.Command)
			if _, ok := defaultKeybindingByCommand[command]; !ok || entry.Key == "" {
				continue
			}
			out[command] = entry.Key
		}
		return out, nil
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := map[string]string{}
	for command, key := range raw {
		command = strings.TrimSpace(command)
		if _, ok := defaultKeybindingByCommand[command]; !ok || key == "" {
			continue
		}
		out[command] = key
	}
	return out, nil
}

func KnownKeybindingCommands() []string {
	keys := make([]string, 0, len(defaultKeybindingByCommand))
	for command := range defaultKeybindingByCommand {
		keys = append(keys, command)
	}
	sort.Strings(keys)
	return keys
}
