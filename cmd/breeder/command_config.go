package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"breeder/internal/app"
	"breeder/internal/config"
)

type ConfigCommand struct {
	stdout io.Writer
	stderr io.Writer
}

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"

	configScopeCore        = "core"
	configScopeKeybindings = "keybindings"
)

type configOutput struct {
	ConfigPath      string                  `json:"config_path,omitempty" toml:"config_path,omitempty"`
	KeybindingsPath string                  `json:"keybindings_path,omitempty" toml:"keybindings_path,omitempty"`
	Server          *effectiveServerConfig  `json:"server,omitempty" toml:"server,omitempty"`
	Breeder         *effectiveBreederConfig `json:"breeder,omitempty" toml:"breeder,omitempty"`
	Logging         *effectiveLoggingConfig `json:"logging,omitempty" toml:"logging,omitempty"`
	State           *effectiveStateConfig   `json:"state,omitempty" toml:"state,omitempty"`
	Export          *effectiveExportConfig  `json:"export,omitempty" toml:"export,omitempty"`
	Keybindings     map[string]string       `json:"keybindings,omitempty" toml:"keybindings,omitempty"`
}

type effectiveServerConfig struct {
	Address string `json:"address" toml:"address"`
	BaseURL string `json:"base_url" toml:"base_url"`
}

type effectiveBreederConfig struct {
	ImageCount int  `json:"image_count" toml:"image_count"`
	SafeNav    bool `json:"safe_nav" toml:"safe_nav"`
	ThumbSize  int  `json:"thumb_size" toml:"thumb_size"`
	ZoomSize   int  `json:"zoom_size" toml:"zoom_size"`
}

type effectiveLoggingConfig struct {
	Level  string `json:"level" toml:"level"`
	Remote bool   `json:"remote" toml:"remote"`
}

type effectiveStateConfig struct {
	Backend string `json:"backend" toml:"backend"`
	Path    string `json:"path,omitempty" toml:"path,omitempty"`
}

type effectiveExportConfig struct {
	Concurrency int `json:"concurrency" toml:"concurrency"`
}

func NewConfigCommand(stdout, stderr io.Writer) *ConfigCommand {
	return &ConfigCommand{
		stdout: stdout,
		stderr: stderr,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", configFormatJSON, "output format: json|toml")
	scope := fs.String("scope", "all", "scope to print: core|keybindings|all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolvedFormat, err := resolveConfigFormat(*format)
	if err != nil {
		return err
	}
	resolvedScopes, err := resolveConfigScopes(*scope)
	if err != nil {
		return err
	}
	payload, err := c.buildOutput(*defaults, resolvedScopes)
	if err != nil {
		return err
	}
	return writeConfigOutput(c.stdout, resolvedFormat, projectedConfigPayload(payload, resolvedScopes))
}

func (c *ConfigCommand) buildOutput(defaults bool, scopes map[string]struct{}) (configOutput, error) {
	out := configOutput{}
	var cfg config.Config
	var err error
	if defaults {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.Load()
		if err != nil {
			return configOutput{}, err
		}
	}

	if scopeSelected(scopes, configScopeCore) {
		path, err := config.ConfigPath()
		if err != nil {
			return configOutput{}, err
		}
		statePath := ""
		if cfg.StateBackend() != config.StateBackendNone {
			statePath, err = cfg.StatePath()
			if err != nil {
				return configOutput{}, err
			}
		}
		out.ConfigPath = path
		out.Server = &effectiveServerConfig{
			Address: cfg.ServerAddress(),
			BaseURL: cfg.ServerBaseURL(),
		}
		out.Breeder = &effectiveBreederConfig{
			ImageCount: cfg.ImageCount(),
			SafeNav:    cfg.SafeNav(),
			ThumbSize:  cfg.ThumbSize(),
			ZoomSize:   cfg.ZoomSize(),
		}
		out.Logging = &effectiveLoggingConfig{
			Level:  cfg.LogLevel(),
			Remote: cfg.RemoteLogging(),
		}
		out.State = &effectiveStateConfig{
			Backend: cfg.StateBackend(),
			Path:    statePath,
		}
		out.Export = &effectiveExportConfig{
			Concurrency: cfg.ExportConcurrency(),
		}
	}

	if scopeSelected(scopes, configScopeKeybindings) {
		keybindingsPath, err := cfg.ResolveKeybindingsPath()
		if err != nil {
			return configOutput{}, err
		}
		var bindings *app.Keybindings
		if defaults {
			bindings = app.DefaultKeybindings()
		} else {
			bindings, err = app.LoadKeybindings(keybindingsPath)
			if err != nil {
				return configOutput{}, err
			}
		}
		out.KeybindingsPath = keybindingsPath
		out.Keybindings = bindings.Bindings()
	}
	return out, nil
}

func writeConfigOutput(out io.Writer, format string, payload any) error {
	switch format {
	case configFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case configFormatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.New("unsupported format")
	}
}

// projectedConfigPayload prints a lone keybindings scope as a plain map, the
// same shape the keybindings file accepts.
func projectedConfigPayload(payload configOutput, scopes map[string]struct{}) any {
	if len(scopes) == 1 && scopeSelected(scopes, configScopeKeybindings) {
		if payload.Keybindings == nil {
			return map[string]string{}
		}
		return payload.Keybindings
	}
	return payload
}

func resolveConfigFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	default:
		return "", errors.New("invalid format: must be json or toml")
	}
}

func resolveConfigScopes(raw string) (map[string]struct{}, error) {
	all := map[string]struct{}{configScopeCore: {}, configScopeKeybindings: {}}
	out := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "", "all":
			return all, nil
		case configScopeCore:
			out[configScopeCore] = struct{}{}
		case configScopeKeybindings, "keys":
			out[configScopeKeybindings] = struct{}{}
		default:
			return nil, errors.New("invalid scope: must be core, keybindings, or all")
		}
	}
	return out, nil
}

func scopeSelected(scopes map[string]struct{}, scope string) bool {
	_, ok := scopes[scope]
	return ok
}
