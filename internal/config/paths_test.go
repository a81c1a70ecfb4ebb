package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))

	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if !strings.HasSuffix(dataDir, ".breeder") {
		t.Fatalf("unexpected data dir: %s", dataDir)
	}

	cases := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"config", ConfigPath, filepath.Join(".breeder", "config.toml")},
		{"ui log", UILogPath, filepath.Join(".breeder", "ui.log")},
		{"keybindings", KeybindingsPath, filepath.Join(".breeder", "keybindings.json")},
		{"file selections", func() (string, error) { return SelectionsPath(StateBackendFile) }, filepath.Join(".breeder", "selections.json")},
		{"bbolt selections", func() (string, error) { return SelectionsPath(StateBackendBbolt) }, filepath.Join(".breeder", "selections.db")},
	}
	for _, tc := range cases {
		got, err := tc.fn()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !strings.HasSuffix(got, tc.want) {
			t.Fatalf("%s: unexpected path %s", tc.name, got)
		}
	}
}
