package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"breeder/internal/app"
	"breeder/internal/config"
	"breeder/internal/logging"
	"breeder/internal/store"
)

type uiLoggingFactory func(cfg config.Config, sink logging.RemoteSink) (logging.Logger, func())

type UICommand struct {
	stderr             io.Writer
	loadConfig         func() (config.Config, error)
	newClient          clientFactory
	configureUILogging uiLoggingFactory
	version            string
}

func NewUICommand(stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory, configureUILogging uiLoggingFactory, version string) *UICommand {
	return &UICommand{
		stderr:             stderr,
		loadConfig:         loadConfig,
		newClient:          newClient,
		configureUILogging: configureUILogging,
		version:            version,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	server := fs.String("server", "", "breeding server address (host:port)")
	unsafeNav := fs.Bool("unsafe-nav", false, "allow moving past the newest generation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, client, err := connect(c.loadConfig, c.newClient, *server)
	if err != nil {
		return err
	}

	logger := logging.Nop()
	closeLog := func() {}
	if c.configureUILogging != nil {
		logger, closeLog = c.configureUILogging(cfg, client)
	}
	defer closeLog()
	logger.Info("ui starting", logging.F("version", c.version), logging.F("server", client.BaseURL()))

	snapshots, err := openSnapshotStore(cfg)
	if err != nil {
		logger.Warn("selection snapshots disabled", logging.F("err", err))
		snapshots, _ = store.NewSnapshotStore(store.BackendNone, "")
	}
	defer snapshots.Close()

	keybindingsPath, err := cfg.ResolveKeybindingsPath()
	if err != nil {
		return err
	}
	bindings, err := app.LoadKeybindings(keybindingsPath)
	if err != nil {
		logger.Warn("keybindings ignored", logging.F("path", keybindingsPath), logging.F("err", err))
		bindings = app.DefaultKeybindings()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return client.RunUI(ctx, app.Options{
		Logger:      logger,
		Snapshots:   snapshots,
		Keybindings: bindings,
		Server:      client.BaseURL(),
		SafeNav:     cfg.SafeNav() && !*unsafeNav,
		ImageCount:  cfg.ImageCount(),
		ThumbSize:   cfg.ThumbSize(),
		ZoomSize:    cfg.ZoomSize(),
	})
}

func openSnapshotStore(cfg config.Config) (store.SnapshotStore, error) {
	backend := cfg.StateBackend()
	if backend == config.StateBackendNone {
		return store.NewSnapshotStore(store.BackendNone, "")
	}
	path, err := cfg.StatePath()
	if err != nil {
		return nil, err
	}
	return store.NewSnapshotStore(backend, path)
}

// configureUILogging sends the UI log to a file in the data directory, since
// the terminal belongs to the UI. A failure to open it leaves logging off.
func configureUILogging(cfg config.Config, sink logging.RemoteSink) (logging.Logger, func()) {
	logPath, err := config.UILogPath()
	if err != nil {
		return logging.Nop(), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return logging.Nop(), func() {}
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return logging.Nop(), func() {}
	}
	logger := logging.New(file, logging.ParseLevel(cfg.LogLevel())).
		With(logging.F("session", logging.NewSessionID()))
	closeFn := func() { _ = file.Close() }
	if cfg.RemoteLogging() && sink != nil {
		remote, flush := logging.NewRemote(logger, sink, 0)
		return remote, func() {
			flush()
			closeFn()
		}
	}
	return logger, closeFn
}
