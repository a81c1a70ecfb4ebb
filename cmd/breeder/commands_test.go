package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	toml "github.com/pelletier/go-toml/v2"

	"breeder/internal/app"
	"breeder/internal/config"
	"breeder/internal/logging"
	"breeder/internal/types"
)

type fakeCommandClient struct {
	mu sync.Mutex

	baseURL  string
	initResp types.GenerationInfo
	initErr  error

	resetCounts []int
	testNumbers []int

	imageErrAt int
	images     []int
	imageSizes []int
	queries    []string

	runUICalls int
	runUIOpts  app.Options
	runUIErr   error
}

func (f *fakeCommandClient) BaseURL() string {
	if f.baseURL == "" {
		return "http://127.0.0.1:4567"
	}
	return f.baseURL
}

func (f *fakeCommandClient) ClientInit(context.Context) (types.GenerationInfo, error) {
	return f.initResp, f.initErr
}

func (f *fakeCommandClient) Reset(_ context.Context, imageCount int) (types.GenerationInfo, error) {
	f.resetCounts = append(f.resetCounts, imageCount)
	return types.GenerationInfo{NumGenerations: 1, NumImages: imageCount}, nil
}

func (f *fakeCommandClient) Test(_ context.Context, number int) (types.GenerationInfo, error) {
	f.testNumbers = append(f.testNumbers, number)
	return types.GenerationInfo{NumGenerations: 5, CurrentGeneration: 4, NumImages: 20}, nil
}

func (f *fakeCommandClient) Image(_ context.Context, generation, image, size int, query string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.imageErrAt > 0 && image == f.imageErrAt {
		return nil, errors.New("server returned 300")
	}
	f.images = append(f.images, image)
	f.imageSizes = append(f.imageSizes, size)
	f.queries = append(f.queries, query)
	return []byte("png-" + strings.Repeat("x", image)), nil
}

func (f *fakeCommandClient) Log(context.Context, logging.Level, string) error {
	return nil
}

func (f *fakeCommandClient) RunUI(_ context.Context, opts app.Options) error {
	f.runUICalls++
	f.runUIOpts = opts
	return f.runUIErr
}

func fixedFactory(client commandClient) clientFactory {
	return func(string) (commandClient, error) {
		return client, nil
	}
}

func recordingFactory(client commandClient, urls *[]string) clientFactory {
	return func(baseURL string) (commandClient, error) {
		*urls = append(*urls, baseURL)
		return client, nil
	}
}

func defaultConfigLoader() (config.Config, error) {
	return config.DefaultConfig(), nil
}

func TestStatusCommandPrintsGeneration(t *testing.T) {
	stdout := &bytes.Buffer{}
	fake := &fakeCommandClient{initResp: types.GenerationInfo{NumGenerations: 7, CurrentGeneration: 6, NumImages: 60}}
	cmd := NewStatusCommand(stdout, &bytes.Buffer{}, defaultConfigLoader, fixedFactory(fake))

	if err := cmd.Run(nil); err != nil {
		t.Fatalf("expected status to succeed, got err=%v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "GENERATIONS") || !strings.Contains(out, "CURRENT") {
		t.Fatalf("expected header in output, got %q", out)
	}
	if !strings.Contains(out, "7") || !strings.Contains(out, "60") {
		t.Fatalf("expected generation row in output, got %q", out)
	}
}

func TestStatusCommandJSON(t *testing.T) {
	stdout := &bytes.Buffer{}
	fake := &fakeCommandClient{initResp: types.GenerationInfo{NumGenerations: 2, CurrentGeneration: 1, NumImages: 12}}
	var urls []string
	cmd := NewStatusCommand(stdout, &bytes.Buffer{}, defaultConfigLoader, recordingFactory(fake, &urls))

	if err := cmd.Run([]string{"--json", "--server", "10.0.0.2:9000"}); err != nil {
		t.Fatalf("expected status to succeed, got err=%v", err)
	}
	if len(urls) != 1 || urls[0] != "http://10.0.0.2:9000" {
		t.Fatalf("expected server override, got %v", urls)
	}
	var got generationOutput
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("expected valid json output, got err=%v, raw=%q", err, stdout.String())
	}
	if got.NumGenerations != 2 || got.CurrentGeneration != 1 || got.NumImages != 12 {
		t.Fatalf("unexpected output %#v", got)
	}
}

func TestResetCommandUsesConfiguredImageCount(t *testing.T) {
	fake := &fakeCommandClient{}
	loader := func() (config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.Breeder.ImageCount = 24
		return cfg, nil
	}
	cmd := NewResetCommand(&bytes.Buffer{}, &bytes.Buffer{}, loader, fixedFactory(fake))
	if err := cmd.Run(nil); err != nil {
		t.Fatalf("expected reset to succeed, got err=%v", err)
	}
	if err := cmd.Run([]string{"--images", "9"}); err != nil {
		t.Fatalf("expected reset to succeed, got err=%v", err)
	}
	if len(fake.resetCounts) != 2 || fake.resetCounts[0] != 24 || fake.resetCounts[1] != 9 {
		t.Fatalf("unexpected reset counts %v", fake.resetCounts)
	}
}

func TestTestCommandRequiresNumber(t *testing.T) {
	fake := &fakeCommandClient{}
	cmd := NewTestCommand(&bytes.Buffer{}, &bytes.Buffer{}, defaultConfigLoader, fixedFactory(fake))

	if err := cmd.Run(nil); err == nil || !strings.Contains(err.Error(), "test number is required") {
		t.Fatalf("expected missing number error, got %v", err)
	}
	if err := cmd.Run([]string{"0"}); err == nil {
		t.Fatalf("expected invalid number error")
	}
	if err := cmd.Run([]string{"4"}); err != nil {
		t.Fatalf("expected test to succeed, got err=%v", err)
	}
	if len(fake.testNumbers) != 1 || fake.testNumbers[0] != 4 {
		t.Fatalf("unexpected test numbers %v", fake.testNumbers)
	}
}

func TestExportCommandWritesEveryImage(t *testing.T) {
	dir := t.TempDir()
	stdout := &bytes.Buffer{}
	fake := &fakeCommandClient{initResp: types.GenerationInfo{NumGenerations: 3, CurrentGeneration: 2, NumImages: 5}}
	cmd := NewExportCommand(stdout, &bytes.Buffer{}, defaultConfigLoader, fixedFactory(fake))

	if err := cmd.Run([]string{"--gen", "1", "--size", "zoom", "--out", dir, "--concurrency", "2"}); err != nil {
		t.Fatalf("expected export to succeed, got err=%v", err)
	}
	sort.Ints(fake.images)
	if len(fake.images) != 5 || fake.images[0] != 0 || fake.images[4] != 4 {
		t.Fatalf("expected five downloads, got %v", fake.images)
	}
	for _, size := range fake.imageSizes {
		if size != 801 {
			t.Fatalf("expected zoom size, got %d", size)
		}
	}
	for _, query := range fake.queries {
		if query != fake.queries[0] || !strings.HasPrefix(query, "?_=") {
			t.Fatalf("expected one cache token for the generation, got %v", fake.queries)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "gen001_img003.png"))
	if err != nil || string(data) != "png-xxx" {
		t.Fatalf("unexpected exported file %q err %v", data, err)
	}
	if !strings.Contains(stdout.String(), "exported 5 images of generation 1") {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
}

func TestExportCommandRejectsGenerationOutOfRange(t *testing.T) {
	fake := &fakeCommandClient{initResp: types.GenerationInfo{NumGenerations: 2, CurrentGeneration: 1, NumImages: 5}}
	cmd := NewExportCommand(&bytes.Buffer{}, &bytes.Buffer{}, defaultConfigLoader, fixedFactory(fake))
	err := cmd.Run([]string{"--gen", "2", "--out", t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected range error, got %v", err)
	}
	if len(fake.images) != 0 {
		t.Fatalf("expected no downloads, got %v", fake.images)
	}
}

func TestExportCommandReportsImageFailure(t *testing.T) {
	fake := &fakeCommandClient{
		initResp:   types.GenerationInfo{NumGenerations: 1, NumImages: 6},
		imageErrAt: 3,
	}
	cmd := NewExportCommand(&bytes.Buffer{}, &bytes.Buffer{}, defaultConfigLoader, fixedFactory(fake))
	err := cmd.Run([]string{"--out", t.TempDir(), "--concurrency", "1"})
	if err == nil || !strings.Contains(err.Error(), "image 3") {
		t.Fatalf("expected image failure, got %v", err)
	}
}

func TestResolveExportSize(t *testing.T) {
	cfg := config.DefaultConfig()
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{raw: "thumb", want: 201, ok: true},
		{raw: "zoom", want: 801, ok: true},
		{raw: "400", want: 400, ok: true},
		{raw: "-1", ok: false},
		{raw: "huge", ok: false},
	}
	for _, tt := range tests {
		got, err := resolveExportSize(tt.raw, cfg)
		if (err == nil) != tt.ok || (tt.ok && got != tt.want) {
			t.Fatalf("resolveExportSize(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestUICommandConfiguresLoggingAndRunsUI(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	fake := &fakeCommandClient{}
	logConfigured := 0
	loader := func() (config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.State.Backend = config.StateBackendNone
		cfg.Breeder.ImageCount = 30
		return cfg, nil
	}

	cmd := NewUICommand(
		&bytes.Buffer{},
		loader,
		fixedFactory(fake),
		func(config.Config, logging.RemoteSink) (logging.Logger, func()) {
			logConfigured++
			return logging.Nop(), func() {}
		},
		"v-test",
	)

	if err := cmd.Run([]string{"--unsafe-nav"}); err != nil {
		t.Fatalf("expected ui command to succeed, got err=%v", err)
	}
	if logConfigured != 1 {
		t.Fatalf("expected UI logging to be configured once, got %d", logConfigured)
	}
	if fake.runUICalls != 1 {
		t.Fatalf("expected ui runner once, got %d", fake.runUICalls)
	}
	opts := fake.runUIOpts
	if opts.SafeNav || opts.ImageCount != 30 || opts.Server != "http://127.0.0.1:4567" {
		t.Fatalf("unexpected ui options %#v", opts)
	}
	if opts.Snapshots == nil || opts.Keybindings == nil {
		t.Fatalf("expected snapshot store and keybindings to be wired")
	}
}

func TestConfigureUILoggingWritesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logger, closeLog := configureUILogging(config.DefaultConfig(), nil)
	logger.Info("hello ui")
	closeLog()

	data, err := os.ReadFile(filepath.Join(home, ".breeder", "ui.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "msg=\"hello ui\"") || !strings.Contains(out, "session=") {
		t.Fatalf("unexpected log contents %q", out)
	}
}

func TestConfigCommandDefaultsTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	stdout := &bytes.Buffer{}
	cmd := NewConfigCommand(stdout, &bytes.Buffer{})
	if err := cmd.Run([]string{"--default", "--format", "toml", "--scope", "core"}); err != nil {
		t.Fatalf("expected config to succeed, got err=%v", err)
	}
	var got configOutput
	if err := toml.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("expected valid toml, got err=%v raw=%q", err, stdout.String())
	}
	if got.Server == nil || got.Server.Address != "127.0.0.1:4567" {
		t.Fatalf("unexpected server section %#v", got.Server)
	}
	if got.Breeder == nil || got.Breeder.ImageCount != 60 || !got.Breeder.SafeNav {
		t.Fatalf("unexpected breeder section %#v", got.Breeder)
	}
	if got.Keybindings != nil {
		t.Fatalf("expected keybindings to be left out of the core scope")
	}
}

func TestConfigCommandKeybindingsScope(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	stdout := &bytes.Buffer{}
	cmd := NewConfigCommand(stdout, &bytes.Buffer{})
	if err := cmd.Run([]string{"--scope", "keys"}); err != nil {
		t.Fatalf("expected config to succeed, got err=%v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("expected json map, got err=%v raw=%q", err, stdout.String())
	}
	if got[app.KeyCommandBreed] != "b" {
		t.Fatalf("unexpected keybindings %v", got)
	}
}

func TestConfigCommandRejectsBadFormat(t *testing.T) {
	cmd := NewConfigCommand(&bytes.Buffer{}, &bytes.Buffer{})
	if err := cmd.Run([]string{"--format", "yaml"}); err == nil {
		t.Fatalf("expected format error")
	}
}
