package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"text/tabwriter"

	"breeder/internal/config"
	"breeder/internal/types"
)

const version = "dev"

type generationOutput struct {
	Server            string `json:"server"`
	NumGenerations    int    `json:"numGenerations"`
	CurrentGeneration int    `json:"currentGeneration"`
	NumImages         int    `json:"numImages"`
}

func printGeneration(output io.Writer, server string, info types.GenerationInfo, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(generationOutput{
			Server:            server,
			NumGenerations:    info.NumGenerations,
			CurrentGeneration: info.CurrentGeneration,
			NumImages:         info.NumImages,
		})
	}
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "SERVER\tGENERATIONS\tCURRENT\tIMAGES")
	fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", server, info.NumGenerations, info.CurrentGeneration, info.NumImages)
	return writer.Flush()
}

// connect loads the configuration and builds a client for the server in it,
// or for override when set.
func connect(loadConfig func() (config.Config, error), newClient clientFactory, override string) (config.Config, commandClient, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	if override != "" {
		cfg.Server.Address = override
	}
	client, err := newClient(cfg.ServerBaseURL())
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, client, nil
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
