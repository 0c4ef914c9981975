package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/typespec"
)

func buildGraph(t *testing.T, nodesAndEdges ...any) *petrinet.Graph {
	t.Helper()
	g, err := petrinet.Build(nodesAndEdges...)
	if err != nil {
		t.Fatalf("unexpected graph build error: %v", err)
	}
	return g
}

func TestExecuteExhaustiveDrain(t *testing.T) {
	inc := petrinet.NewTransition("Inc", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int) + 1, nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	g := buildGraph(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 1, 2, 3),
		petrinet.NewPlace("Out", typespec.Nominal("int")),
		inc,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Inc", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Inc", PlaceName: "Out"},
	)

	res, err := Execute(context.Background(), g, Options{MaxTransitions: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FiredCount != 3 {
		t.Fatalf("expected 3 firings to exhaust In, got %d", res.FiredCount)
	}
	if len(g.PlaceNamed("In").Tokens) != 0 {
		t.Fatalf("expected In to be fully drained, got %v", g.PlaceNamed("In").Tokens)
	}
	if len(g.PlaceNamed("Out").Tokens) != 3 {
		t.Fatalf("expected Out to hold 3 tokens, got %v", g.PlaceNamed("Out").Tokens)
	}
	if res.RunID.String() == "" {
		t.Fatalf("expected a non-empty run id")
	}
}

func TestExecuteZeroBudgetIsNoOp(t *testing.T) {
	inc := petrinet.NewTransition("Inc", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int) + 1, nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	g := buildGraph(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 1),
		petrinet.NewPlace("Out", typespec.Nominal("int")),
		inc,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Inc", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Inc", PlaceName: "Out"},
	)

	res, err := Execute(context.Background(), g, Options{MaxTransitions: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FiredCount != 0 {
		t.Fatalf("expected 0 firings, got %d", res.FiredCount)
	}
	if len(g.PlaceNamed("In").Tokens) != 1 {
		t.Fatalf("expected In untouched, got %v", g.PlaceNamed("In").Tokens)
	}
}

// TestExecuteGuardedPriority fires two transitions competing for the same
// token: B is declared last (so the default reverse-order scan reaches it
// first) but its Activation guard is always false, so A must fire instead.
func TestExecuteGuardedPriority(t *testing.T) {
	a := petrinet.NewTransition("A", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int), nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	b := petrinet.NewTransition("B", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int), nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))
	b.Activation = func(g *petrinet.Graph) any { return false }

	g := buildGraph(t,
		petrinet.NewPlace("P", typespec.Nominal("int"), 7),
		petrinet.NewPlace("OutA", typespec.Nominal("int")),
		petrinet.NewPlace("OutB", typespec.Nominal("int")),
		a, b,
		petrinet.ArgumentEdge{PlaceName: "P", TransitionName: "A", ArgumentName: "x"},
		petrinet.ArgumentEdge{PlaceName: "P", TransitionName: "B", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "A", PlaceName: "OutA"},
		petrinet.ReturnEdge{TransitionName: "B", PlaceName: "OutB"},
	)

	res, err := Execute(context.Background(), g, Options{MaxTransitions: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FiredCount != 1 {
		t.Fatalf("expected exactly 1 firing, got %d", res.FiredCount)
	}
	if len(g.PlaceNamed("OutA").Tokens) != 1 {
		t.Fatalf("expected A to fire and deposit into OutA, got %v", g.PlaceNamed("OutA").Tokens)
	}
	if len(g.PlaceNamed("OutB").Tokens) != 0 {
		t.Fatalf("expected B to be skipped by its false guard, got %v", g.PlaceNamed("OutB").Tokens)
	}
}

func TestExecuteRejectsTokenHistoryWithoutCopying(t *testing.T) {
	g := buildGraph(t, petrinet.NewPlace("P", typespec.Nominal("int"), 1))

	_, err := Execute(context.Background(), g, Options{MaxTransitions: 1, TokenHistorySize: 1})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestExecuteBoundedHistoryWindows(t *testing.T) {
	inc := petrinet.NewTransition("Inc", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int) + 1, nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	g := buildGraph(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 1, 2, 3, 4),
		petrinet.NewPlace("Out", typespec.Nominal("int")),
		inc,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Inc", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Inc", PlaceName: "Out"},
	)

	_, err := Execute(context.Background(), g, Options{
		MaxTransitions:        100,
		AllowCopying:          true,
		TransitionHistorySize: 2,
		PlaceHistorySize:      2,
		TokenHistorySize:      2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.TransitionHistory) != 2 {
		t.Fatalf("expected a window of 2 transitions, got %d", len(g.TransitionHistory))
	}
	if g.TransitionHistory[len(g.TransitionHistory)-1].Name != "Inc" {
		t.Fatalf("expected the most recent transition recorded last")
	}
	if len(g.OutputPlaceHistory) != 2 {
		t.Fatalf("expected a window of 2 output-place snapshots, got %d", len(g.OutputPlaceHistory))
	}
	if len(g.TokenHistory) != 2 {
		t.Fatalf("expected a window of 2 token snapshots, got %d", len(g.TokenHistory))
	}
}

func TestCanReachSimpleMove(t *testing.T) {
	move := petrinet.NewTransition("Move", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int), nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	g := buildGraph(t,
		petrinet.NewPlace("A", typespec.Nominal("int"), 1),
		petrinet.NewPlace("B", typespec.Nominal("int")),
		move,
		petrinet.ArgumentEdge{PlaceName: "A", TransitionName: "Move", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Move", PlaceName: "B"},
	)

	if !CanReach(g, map[string]int{"B": 1}, 5) {
		t.Fatalf("expected B:1 to be reachable within 5 firings")
	}
	if CanReach(g, map[string]int{"B": 2}, 5) {
		t.Fatalf("expected B:2 to be unreachable: A only ever holds a single token")
	}
	if len(g.PlaceNamed("A").Tokens) != 1 {
		t.Fatalf("CanReach must not mutate the graph, but A changed to %v", g.PlaceNamed("A").Tokens)
	}
}
