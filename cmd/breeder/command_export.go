package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"breeder/internal/breeder"
	"breeder/internal/config"
	"breeder/internal/logging"
)

type ExportCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

func NewExportCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory) *ExportCommand {
	return &ExportCommand{stdout: stdout, stderr: stderr, loadConfig: loadConfig, newClient: newClient}
}

func (c *ExportCommand) Run(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	server := fs.String("server", "", "breeding server address (host:port)")
	generation := fs.Int("gen", -1, "generation to export (defaults to the current one)")
	size := fs.String("size", "thumb", "image size: thumb|zoom|<pixels>")
	outDir := fs.String("out", ".", "output directory")
	concurrency := fs.Int("concurrency", 0, "parallel downloads (defaults to export.concurrency)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, client, err := connect(c.loadConfig, c.newClient, *server)
	if err != nil {
		return err
	}
	pixels, err := resolveExportSize(*size, cfg)
	if err != nil {
		return err
	}
	limit := *concurrency
	if limit <= 0 {
		limit = cfg.ExportConcurrency()
	}

	ctx := context.Background()
	info, err := client.ClientInit(ctx)
	if err != nil {
		return err
	}
	if !info.HasRun() {
		return errors.New("server has no generations to export")
	}
	gen := *generation
	if gen < 0 {
		gen = info.CurrentGeneration
	}
	if gen > info.MaximumGeneration() {
		return fmt.Errorf("generation %d out of range (0-%d): %w", gen, info.MaximumGeneration(), breeder.ErrGenerationOutOfRange)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	logger := logging.New(c.stderr, logging.ParseLevel(cfg.LogLevel()))
	written, err := exportGeneration(ctx, client, exportJob{
		generation: gen,
		images:     info.NumImages,
		size:       pixels,
		dir:        *outDir,
		limit:      limit,
	}, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "exported %d images of generation %d to %s\n", written, gen, *outDir)
	return nil
}

type exportJob struct {
	generation int
	images     int
	size       int
	dir        string
	limit      int
}

// exportGeneration downloads every image of one generation. The first failure
// cancels the downloads still running.
func exportGeneration(ctx context.Context, client commandClient, job exportJob, logger logging.Logger) (int, error) {
	query := breeder.NewGenerationCache(nil).Query(job.generation)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, job.limit))
	var written atomic.Int64
	for image := 0; image < job.images; image++ {
		group.Go(func() error {
			data, err := client.Image(ctx, job.generation, image, job.size, query)
			if err != nil {
				return fmt.Errorf("image %d: %w", image, err)
			}
			path := filepath.Join(job.dir, exportFileName(job.generation, image))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			written.Add(1)
			logger.Debug("image exported", logging.F("path", path), logging.F("bytes", len(data)))
			return nil
		})
	}
	err := group.Wait()
	return int(written.Load()), err
}

func exportFileName(generation, image int) string {
	return fmt.Sprintf("gen%03d_img%03d.png", generation, image)
}

func resolveExportSize(raw string, cfg config.Config) (int, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "thumb":
		return cfg.ThumbSize(), nil
	case "zoom":
		return cfg.ZoomSize(), nil
	}
	pixels, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || pixels <= 0 {
		return 0, fmt.Errorf("invalid size %q: must be thumb, zoom or a positive number", raw)
	}
	return pixels, nil
}
