package main

import (
	"context"
	"fmt"

	"github.com/pflow-xyz/tokflow/guardexpr"
	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/typespec"
)

// demo names a built-in graph a builder function can construct fresh for
// each run command invocation.
type demo struct {
	name        string
	description string
	build       func() (*petrinet.Graph, error)
}

var demos = []demo{
	{
		name:        "counter",
		description: "drains an In place of int tokens one at a time into Out, incrementing each",
		build:       buildCounterDemo,
	},
	{
		name:        "producer-consumer",
		description: "a Produce transition with no input edges feeds a Buffer place a Consume transition drains, guarded so Consume only fires once Buffer holds at least 2 tokens",
		build:       buildProducerConsumerDemo,
	},
}

func findDemo(name string) *demo {
	for i := range demos {
		if demos[i].name == name {
			return &demos[i]
		}
	}
	return nil
}

func listDemos() {
	fmt.Println("Available demos:")
	for _, d := range demos {
		fmt.Printf("  %-20s %s\n", d.name, d.description)
	}
}

func buildCounterDemo() (*petrinet.Graph, error) {
	inc := petrinet.NewTransition("Inc", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int) + 1, nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	return petrinet.Build(
		petrinet.NewPlace("In", typespec.Nominal("int"), 1, 2, 3, 4, 5),
		petrinet.NewPlace("Out", typespec.Nominal("int")),
		inc,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Inc", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Inc", PlaceName: "Out"},
	)
}

func buildProducerConsumerDemo() (*petrinet.Graph, error) {
	seed := 0
	produce := &petrinet.Transition{
		Name: "Produce",
		Function: func(ctx context.Context, args map[string]any) (any, error) {
			seed++
			return seed, nil
		},
		ReturnType: typespec.Nominal("int"),
	}

	guard, err := guardexpr.Compile("Buffer >= 2")
	if err != nil {
		return nil, fmt.Errorf("compile consume guard: %w", err)
	}
	consume := &petrinet.Transition{
		Name: "Consume",
		Function: func(ctx context.Context, args map[string]any) (any, error) {
			return args["item"], nil
		},
		ArgTypes:   map[string]typespec.Descriptor{"item": typespec.Nominal("int")},
		ReturnType: typespec.Nominal("int"),
		Activation: guardexpr.Activation(guard, nil),
	}

	return petrinet.Build(
		petrinet.NewPlace("Buffer", typespec.Nominal("int")),
		petrinet.NewPlace("Consumed", typespec.Nominal("int")),
		produce,
		consume,
		petrinet.ReturnEdge{TransitionName: "Produce", PlaceName: "Buffer"},
		petrinet.ArgumentEdge{PlaceName: "Buffer", TransitionName: "Consume", ArgumentName: "item"},
		petrinet.ReturnEdge{TransitionName: "Consume", PlaceName: "Consumed"},
	)
}
