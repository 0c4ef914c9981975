// Command tokflow is a minimal demo entry point for the engine: it builds
// one of a few small built-in graphs and executes it with flag-configured
// runtime.Options. It exists only to exercise the library end to end from
// a command line, not as a features showcase (graph files, a wire format,
// and a general CLI are explicitly out of scope).
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "list":
		listDemos()
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("tokflow version 0.1.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokflow - typed Petri net execution engine

Usage:
  tokflow <command> [options]

Commands:
  run      Execute a built-in demo graph
  list     List available demo graphs
  help     Show this help message
  version  Show version information

Examples:
  # Run the counter demo, firing until drained
  tokflow run counter --max-transitions 10

  # Run with bounded history and verbose logging
  tokflow run producer-consumer --max-transitions 20 --verbose --transition-history 5

  # Record every firing to a JSONL file
  tokflow run counter --max-transitions 10 --record jsonl --record-out run.jsonl

For command-specific help, run:
  tokflow run --help`)
}
