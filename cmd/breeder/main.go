package main

import (
	"fmt"
	"os"
)

const usageText = `breeder is a terminal client for a genetic-art breeding server.

Usage:
  breeder <command> [flags]

Commands:
  ui       run the terminal UI
  status   show the run the server holds
  reset    start a new run at generation 0
  test     load a canned test run
  export   download the images of one generation as PNG files
  config   print configuration (effective or defaults)
  help     show help

Flags:
  -h, --help   show help

Examples:
  breeder ui --server 127.0.0.1:4567
  breeder reset --images 30
  breeder test 2
  breeder export --gen 3 --size zoom --out ./gen3
  breeder config --default --format toml
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
