package main

import (
	"io"
	"os"

	"breeder/internal/config"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout             io.Writer
	stderr             io.Writer
	loadConfig         func() (config.Config, error)
	newClient          clientFactory
	configureUILogging uiLoggingFactory
	version            string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:             stdout,
		stderr:             stderr,
		loadConfig:         config.Load,
		newClient:          newBreederClient,
		configureUILogging: configureUILogging,
		version:            buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ui":     NewUICommand(wiring.stderr, wiring.loadConfig, wiring.newClient, wiring.configureUILogging, wiring.version),
		"status": NewStatusCommand(wiring.stdout, wiring.stderr, wiring.loadConfig, wiring.newClient),
		"reset":  NewResetCommand(wiring.stdout, wiring.stderr, wiring.loadConfig, wiring.newClient),
		"test":   NewTestCommand(wiring.stdout, wiring.stderr, wiring.loadConfig, wiring.newClient),
		"export": NewExportCommand(wiring.stdout, wiring.stderr, wiring.loadConfig, wiring.newClient),
		"config": NewConfigCommand(wiring.stdout, wiring.stderr),
	}
}
