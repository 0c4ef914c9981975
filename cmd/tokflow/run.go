package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/pflow-xyz/tokflow/recorder"
	"github.com/pflow-xyz/tokflow/runtime"
)

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	maxTransitions := fs.Int("max-transitions", 10, "firing budget for this run")
	allowCopying := fs.Bool("allow-copying", false, "copy a result into every matching output place instead of failing (required by --token-history)")
	verbose := fs.Bool("verbose", false, "log every firing at debug level")
	transitionHistory := fs.Int("transition-history", 0, "bounded transition-history window size (0 disables)")
	placeHistory := fs.Int("place-history", 0, "bounded place-history window size (0 disables)")
	tokenHistory := fs.Int("token-history", 0, "bounded token-history window size (0 disables, requires --allow-copying)")
	recordKind := fs.String("record", "", "audit sink: memory, jsonl, csv, sqlite (default: none)")
	recordOut := fs.String("record-out", "", "output path for jsonl/csv/sqlite sinks (required unless --record=memory)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tokflow run <demo> [options]

Execute a built-in demo graph to completion or until its firing budget runs out.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("demo name required")
	}

	demoName := fs.Arg(0)
	// Options may also follow the demo name; parse whatever comes after it.
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return err
	}

	d := findDemo(demoName)
	if d == nil {
		listDemos()
		return fmt.Errorf("unknown demo %q", demoName)
	}

	g, err := d.build()
	if err != nil {
		return fmt.Errorf("build demo graph: %w", err)
	}

	opts := runtime.Options{
		MaxTransitions:        *maxTransitions,
		AllowCopying:          *allowCopying,
		Verbose:               *verbose,
		TransitionHistorySize: *transitionHistory,
		PlaceHistorySize:      *placeHistory,
		TokenHistorySize:      *tokenHistory,
	}

	if *verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		opts.Logger = &logger
	}

	sink, closeSink, err := buildRecorder(*recordKind, *recordOut)
	if err != nil {
		return err
	}
	if closeSink != nil {
		defer closeSink()
	}
	opts.Recorder = sink

	res, err := runtime.Execute(context.Background(), g, opts)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	fmt.Printf("run %s fired %d transition(s)\n", res.RunID, res.FiredCount)
	for _, p := range g.Places {
		fmt.Printf("  %-10s %v\n", p.Name, p.Tokens)
	}
	return nil
}

func buildRecorder(kind, out string) (runtime.Recorder, func(), error) {
	switch kind {
	case "":
		return nil, nil, nil
	case "memory":
		sink := recorder.NewMemorySink()
		return sink, func() {
			for _, rec := range sink.Records() {
				fmt.Printf("recorded: %s seq=%d transition=%s\n", rec.FiringID, rec.Sequence, rec.Transition)
			}
		}, nil
	case "jsonl":
		if out == "" {
			return nil, nil, fmt.Errorf("--record-out required for --record=jsonl")
		}
		sink, err := recorder.NewJSONLFile(out)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { sink.Close() }, nil
	case "csv":
		if out == "" {
			return nil, nil, fmt.Errorf("--record-out required for --record=csv")
		}
		sink, err := recorder.NewCSVFile(out)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { sink.Close() }, nil
	case "sqlite":
		if out == "" {
			return nil, nil, fmt.Errorf("--record-out required for --record=sqlite")
		}
		sink, err := recorder.NewSQLiteSink(out)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { sink.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown --record kind %q", kind)
	}
}
