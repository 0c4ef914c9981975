package firing

import (
	"context"
	"errors"
	"testing"

	"github.com/pflow-xyz/tokflow/graphindex"
	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/typespec"
)

func buildIndex(t *testing.T, nodesAndEdges ...any) *graphindex.Index {
	t.Helper()
	g, err := petrinet.Build(nodesAndEdges...)
	if err != nil {
		t.Fatalf("unexpected graph build error: %v", err)
	}
	return graphindex.Build(g)
}

func TestFireSingleIncrement(t *testing.T) {
	inc := petrinet.NewTransition("Inc", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int) + 1, nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	idx := buildIndex(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 41),
		petrinet.NewPlace("Out", typespec.Nominal("int")),
		inc,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Inc", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Inc", PlaceName: "Out"},
	)

	res, err := Fire(context.Background(), idx, idx.Transition("Inc"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := idx.Place("Out")
	if len(out.Tokens) != 1 || out.Tokens[0] != 42 {
		t.Fatalf("expected Out to hold [42], got %v", out.Tokens)
	}
	if len(idx.Place("In").Tokens) != 0 {
		t.Fatalf("expected In to be drained of its single token")
	}
	if len(res.InputPlaces) != 1 || len(res.OutputPlaces) != 1 {
		t.Fatalf("expected one input and one output place in the result")
	}
}

func TestFireListLifting(t *testing.T) {
	sum := petrinet.NewTransition("Sum", func(ctx context.Context, args map[string]any) (any, error) {
		total := 0
		for _, x := range args["xs"].([]any) {
			total += x.(int)
		}
		return total, nil
	}, map[string]typespec.Descriptor{"xs": typespec.List(typespec.Nominal("int"))}, typespec.Nominal("int"))

	idx := buildIndex(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 1, 2, 3),
		petrinet.NewPlace("Total", typespec.Nominal("int")),
		sum,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Sum", ArgumentName: "xs"},
		petrinet.ReturnEdge{TransitionName: "Sum", PlaceName: "Total"},
	)

	if _, err := Fire(context.Background(), idx, idx.Transition("Sum"), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx.Place("In").Tokens) != 0 {
		t.Fatalf("expected In to be fully drained by the lifted argument")
	}
	total := idx.Place("Total")
	if len(total.Tokens) != 1 || total.Tokens[0] != 6 {
		t.Fatalf("expected Total to hold [6], got %v", total.Tokens)
	}
}

func TestFireAmbiguousRouteWithoutCopyingFails(t *testing.T) {
	dup := petrinet.NewTransition("Dup", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int), nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	idx := buildIndex(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 7),
		petrinet.NewPlace("A", typespec.Nominal("int")),
		petrinet.NewPlace("B", typespec.Nominal("int")),
		dup,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Dup", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Dup", PlaceName: "A"},
		petrinet.ReturnEdge{TransitionName: "Dup", PlaceName: "B"},
	)

	_, err := Fire(context.Background(), idx, idx.Transition("Dup"), false)
	if !errors.Is(err, ErrAmbiguousRoute) {
		t.Fatalf("expected ErrAmbiguousRoute, got %v", err)
	}
}

func TestFireFanOutWithCopying(t *testing.T) {
	dup := petrinet.NewTransition("Dup", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int), nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))

	idx := buildIndex(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 7),
		petrinet.NewPlace("A", typespec.Nominal("int")),
		petrinet.NewPlace("B", typespec.Nominal("int")),
		dup,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Dup", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Dup", PlaceName: "A"},
		petrinet.ReturnEdge{TransitionName: "Dup", PlaceName: "B"},
	)

	res, err := Fire(context.Background(), idx, idx.Transition("Dup"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Place("A").Tokens[0] != 7 || idx.Place("B").Tokens[0] != 7 {
		t.Fatalf("expected both A and B to receive 7")
	}
	if len(res.OutputPlaces) != 2 {
		t.Fatalf("expected two output places in the result")
	}
}

func TestFireNoRouteFails(t *testing.T) {
	t1 := petrinet.NewTransition("T", func(ctx context.Context, args map[string]any) (any, error) {
		return "not-an-int", nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("string"))

	// No return edges at all: the routing candidate set is empty.
	idx := buildIndex(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 1),
		t1,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "T", ArgumentName: "x"},
	)

	_, err := Fire(context.Background(), idx, idx.Transition("T"), false)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestFireKwargCollisionFails(t *testing.T) {
	t1 := petrinet.NewTransition("T", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int), nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))
	t1.FixedKwargs = map[string]any{"x": 99}

	idx := buildIndex(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 1),
		petrinet.NewPlace("Out", typespec.Nominal("int")),
		t1,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "T", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "T", PlaceName: "Out"},
	)

	_, err := Fire(context.Background(), idx, idx.Transition("T"), false)
	if !errors.Is(err, ErrKwargCollision) {
		t.Fatalf("expected ErrKwargCollision, got %v", err)
	}
}

func TestFireOutputDistribution(t *testing.T) {
	split := petrinet.NewTransition("Split", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int), nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))
	split.OutputDistribution = func(result any) (map[string]any, error) {
		n := result.(int)
		if n%2 == 0 {
			return map[string]any{"Even": n}, nil
		}
		return map[string]any{"Odd": n}, nil
	}

	idx := buildIndex(t,
		petrinet.NewPlace("In", typespec.Nominal("int"), 4),
		petrinet.NewPlace("Even", typespec.Nominal("int")),
		petrinet.NewPlace("Odd", typespec.Nominal("int")),
		split,
		petrinet.ArgumentEdge{PlaceName: "In", TransitionName: "Split", ArgumentName: "x"},
		petrinet.ReturnEdge{TransitionName: "Split", PlaceName: "Even"},
		petrinet.ReturnEdge{TransitionName: "Split", PlaceName: "Odd"},
	)

	if _, err := Fire(context.Background(), idx, idx.Transition("Split"), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx.Place("Even").Tokens) != 1 || idx.Place("Even").Tokens[0] != 4 {
		t.Fatalf("expected Even to hold [4], got %v", idx.Place("Even").Tokens)
	}
	if len(idx.Place("Odd").Tokens) != 0 {
		t.Fatalf("expected Odd to remain empty")
	}
}
