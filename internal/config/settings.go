package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultServerAddress     = "127.0.0.1:4567"
	defaultImageCount        = 60
	defaultThumbSize         = 201
	defaultZoomSize          = 801
	defaultExportConcurrency = 4
)

const (
	StateBackendFile  = "file"
	StateBackendBbolt = "bbolt"
	StateBackendNone  = "none"
)

type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	Breeder BreederConfig `toml:"breeder" json:"breeder"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	State   StateConfig   `toml:"state" json:"state"`
	Export  ExportConfig  `toml:"export" json:"export"`
	UI      UIConfig      `toml:"ui" json:"ui"`
}

type ServerConfig struct {
	Address string `toml:"address" json:"address"`
}

type BreederConfig struct {
	ImageCount int   `toml:"image_count" json:"image_count"`
	SafeNav    *bool `toml:"safe_nav" json:"safe_nav"`
	ThumbSize  int   `toml:"thumb_size" json:"thumb_size"`
	ZoomSize   int   `toml:"zoom_size" json:"zoom_size"`
}

type LoggingConfig struct {
	Level  string `toml:"level" json:"level"`
	Remote bool   `toml:"remote" json:"remote"`
}

type StateConfig struct {
	Backend string `toml:"backend" json:"backend"`
	Path    string `toml:"path" json:"path"`
}

type ExportConfig struct {
	Concurrency int `toml:"concurrency" json:"concurrency"`
}

type UIConfig struct {
	Keybindings UIKeybindingsConfig `toml:"keybindings" json:"keybindings"`
}

type UIKeybindingsConfig struct {
	Path string `toml:"path" json:"path"`
}

func DefaultConfig() Config {
	safe := true
	return Config{
		Server: ServerConfig{
			Address: defaultServerAddress,
		},
		Breeder: BreederConfig{
			ImageCount: defaultImageCount,
			SafeNav:    &safe,
			ThumbSize:  defaultThumbSize,
			ZoomSize:   defaultZoomSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		State: StateConfig{
			Backend: StateBackendFile,
		},
		Export: ExportConfig{
			Concurrency: defaultExportConcurrency,
		},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func (c Config) ServerAddress() string {
	addr := strings.TrimSpace(c.Server.Address)
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultServerAddress
	}
	return addr
}

func (c Config) ServerBaseURL() string {
	raw := strings.TrimSpace(c.Server.Address)
	if strings.HasPrefix(raw, "https://") {
		return "https://" + c.ServerAddress()
	}
	return "http://" + c.ServerAddress()
}

func (c Config) ImageCount() int {
	if c.Breeder.ImageCount <= 0 {
		return defaultImageCount
	}
	return c.Breeder.ImageCount
}

func (c Config) SafeNav() bool {
	if c.Breeder.SafeNav == nil {
		return true
	}
	return *c.Breeder.SafeNav
}

func (c Config) ThumbSize() int {
	if c.Breeder.ThumbSize <= 0 {
		return defaultThumbSize
	}
	return c.Breeder.ThumbSize
}

func (c Config) ZoomSize() int {
	if c.Breeder.ZoomSize <= 0 {
		return defaultZoomSize
	}
	return c.Breeder.ZoomSize
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) RemoteLogging() bool {
	return c.Logging.Remote
}

func (c Config) StateBackend() string {
	switch strings.ToLower(strings.TrimSpace(c.State.Backend)) {
	case StateBackendBbolt:
		return StateBackendBbolt
	case StateBackendNone:
		return StateBackendNone
	default:
		return StateBackendFile
	}
}

// StatePath resolves the selection snapshot location for the configured
// backend. Relative paths are taken from the data directory.
func (c Config) StatePath() (string, error) {
	path := strings.TrimSpace(c.State.Path)
	if path == "" {
		return SelectionsPath(c.StateBackend())
	}
	return resolveConfigPath(path)
}

func (c Config) ExportConcurrency() int {
	if c.Export.Concurrency <= 0 {
		return defaultExportConcurrency
	}
	return c.Export.Concurrency
}

func (c Config) ResolveKeybindingsPath() (string, error) {
	path := strings.TrimSpace(c.UI.Keybindings.Path)
	if path == "" {
		return KeybindingsPath()
	}
	return resolveConfigPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func resolveConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}
