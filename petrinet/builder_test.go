package petrinet

import (
	"context"
	"testing"

	"github.com/pflow-xyz/tokflow/typespec"
)

func TestBuilderFlow(t *testing.T) {
	inc := incTransition()

	g, err := NewBuilder().
		Place("In", typespec.Nominal("int"), 1, 2, 3).
		Place("Out", typespec.Nominal("int")).
		Flow("In", inc, "x", "Out").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.PlaceNamed("In") == nil || g.PlaceNamed("Out") == nil {
		t.Fatalf("expected both places to exist")
	}
	if len(g.ArgumentEdges) != 1 || len(g.ReturnEdges) != 1 {
		t.Fatalf("expected Flow to add exactly one argument edge and one return edge, got %d/%d",
			len(g.ArgumentEdges), len(g.ReturnEdges))
	}
}

func TestBuilderPropagatesValidationError(t *testing.T) {
	_, err := NewBuilder().
		Place("In", typespec.Nominal("string")).
		Transition(incTransition()).
		Arg("In", "Inc", "x").
		Build()
	if err == nil {
		t.Fatalf("expected a type-mismatch error")
	}
}

func TestTransitionWithOutputEdges(t *testing.T) {
	sum := NewTransition("Sum", func(ctx context.Context, args map[string]any) (any, error) {
		return 0, nil
	}, nil, typespec.Tuple(typespec.Nominal("int"), typespec.Nominal("string")))

	nodes := TransitionWithOutputEdges(sum, []string{"A", "B"}, true)
	if len(nodes) != 3 {
		t.Fatalf("expected transition + 2 return edges, got %d nodes", len(nodes))
	}
	if _, ok := nodes[0].(*Transition); !ok {
		t.Fatalf("expected first node to be the transition")
	}
	first, ok := nodes[1].(ReturnEdge)
	if !ok || first.Index() != 0 {
		t.Fatalf("expected first return edge at index 0, got %#v", nodes[1])
	}
	second, ok := nodes[2].(ReturnEdge)
	if !ok || second.Index() != 1 {
		t.Fatalf("expected second return edge at index 1, got %#v", nodes[2])
	}
}

func TestTransitionWithOutputPlaces(t *testing.T) {
	sum := NewTransition("Sum", func(ctx context.Context, args map[string]any) (any, error) {
		return 0, nil
	}, nil, typespec.Tuple(typespec.Nominal("int"), typespec.Nominal("string")))

	nodes := TransitionWithOutputPlaces(sum, []OutputPlaceSpec{
		{Name: "A", Type: typespec.Nominal("int")},
		{Name: "B", Type: typespec.Nominal("string")},
	}, true)

	g, err := Build(nodes...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.PlaceNamed("A") == nil || g.PlaceNamed("B") == nil {
		t.Fatalf("expected both output places to be created")
	}
}
