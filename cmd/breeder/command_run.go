package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"breeder/internal/config"
)

const commandTimeout = 15 * time.Second

type StatusCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

func NewStatusCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory) *StatusCommand {
	return &StatusCommand{stdout: stdout, stderr: stderr, loadConfig: loadConfig, newClient: newClient}
}

func (c *StatusCommand) Run(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	server := fs.String("server", "", "breeding server address (host:port)")
	asJSON := fs.Bool("json", false, "print json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, client, err := connect(c.loadConfig, c.newClient, *server)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	info, err := client.ClientInit(ctx)
	if err != nil {
		return err
	}
	return printGeneration(c.stdout, client.BaseURL(), info, *asJSON)
}

type ResetCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

func NewResetCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory) *ResetCommand {
	return &ResetCommand{stdout: stdout, stderr: stderr, loadConfig: loadConfig, newClient: newClient}
}

func (c *ResetCommand) Run(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	server := fs.String("server", "", "breeding server address (host:port)")
	images := fs.Int("images", 0, "images per generation (defaults to breeder.image_count)")
	asJSON := fs.Bool("json", false, "print json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *images < 0 {
		return errors.New("images must be positive")
	}

	cfg, client, err := connect(c.loadConfig, c.newClient, *server)
	if err != nil {
		return err
	}
	count := *images
	if count == 0 {
		count = cfg.ImageCount()
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	info, err := client.Reset(ctx, count)
	if err != nil {
		return err
	}
	return printGeneration(c.stdout, client.BaseURL(), info, *asJSON)
}

type TestCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

func NewTestCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory) *TestCommand {
	return &TestCommand{stdout: stdout, stderr: stderr, loadConfig: loadConfig, newClient: newClient}
}

func (c *TestCommand) Run(args []string) error {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	server := fs.String("server", "", "breeding server address (host:port)")
	asJSON := fs.Bool("json", false, "print json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("test number is required")
	}
	number, err := strconv.Atoi(fs.Arg(0))
	if err != nil || number < 1 {
		return fmt.Errorf("invalid test number %q", fs.Arg(0))
	}

	_, client, err := connect(c.loadConfig, c.newClient, *server)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	info, err := client.Test(ctx, number)
	if err != nil {
		return err
	}
	return printGeneration(c.stdout, client.BaseURL(), info, *asJSON)
}
