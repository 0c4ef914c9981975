package petrinet

import (
	"context"
	"errors"
	"testing"

	"github.com/pflow-xyz/tokflow/typespec"
)

func incTransition() *Transition {
	return NewTransition("Inc", func(ctx context.Context, args map[string]any) (any, error) {
		return args["x"].(int) + 1, nil
	}, map[string]typespec.Descriptor{"x": typespec.Nominal("int")}, typespec.Nominal("int"))
}

func TestBuildValidGraph(t *testing.T) {
	in := NewPlace("In", typespec.Nominal("int"), 1, 2, 3)
	out := NewPlace("Out", typespec.Nominal("int"))
	inc := incTransition()

	g, err := Build(
		in, out, inc,
		ArgumentEdge{PlaceName: "In", TransitionName: "Inc", ArgumentName: "x"},
		ReturnEdge{TransitionName: "Inc", PlaceName: "Out"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.PlaceNamed("In") != in || g.PlaceNamed("Out") != out {
		t.Errorf("expected PlaceNamed to find the constructed places")
	}
	if g.TransitionNamed("Inc") != inc {
		t.Errorf("expected TransitionNamed to find the constructed transition")
	}
}

func TestBuildRejectsDuplicatePlaceNames(t *testing.T) {
	_, err := Build(
		NewPlace("A", typespec.Nominal("int")),
		NewPlace("A", typespec.Nominal("int")),
	)
	if !errors.Is(err, ErrGraphInvalid) {
		t.Fatalf("expected ErrGraphInvalid, got %v", err)
	}
}

func TestBuildRejectsDanglingArgumentEdge(t *testing.T) {
	_, err := Build(
		incTransition(),
		ArgumentEdge{PlaceName: "Missing", TransitionName: "Inc", ArgumentName: "x"},
	)
	if !errors.Is(err, ErrGraphInvalid) {
		t.Fatalf("expected ErrGraphInvalid for dangling place reference, got %v", err)
	}
}

func TestBuildRejectsDanglingReturnEdge(t *testing.T) {
	_, err := Build(
		incTransition(),
		ReturnEdge{TransitionName: "Inc", PlaceName: "Missing"},
	)
	if !errors.Is(err, ErrGraphInvalid) {
		t.Fatalf("expected ErrGraphInvalid for dangling place reference, got %v", err)
	}
}

func TestBuildRejectsIncompatibleArgumentType(t *testing.T) {
	_, err := Build(
		NewPlace("In", typespec.Nominal("string")),
		incTransition(),
		ArgumentEdge{PlaceName: "In", TransitionName: "Inc", ArgumentName: "x"},
	)
	if !errors.Is(err, ErrGraphInvalid) {
		t.Fatalf("expected ErrGraphInvalid for incompatible argument type, got %v", err)
	}
}

func TestBuildAllowsListLiftedArgument(t *testing.T) {
	sum := NewTransition("Sum", func(ctx context.Context, args map[string]any) (any, error) {
		xs := args["xs"].([]any)
		total := 0
		for _, x := range xs {
			total += x.(int)
		}
		return total, nil
	}, map[string]typespec.Descriptor{"xs": typespec.List(typespec.Nominal("int"))}, typespec.Nominal("int"))

	_, err := Build(
		NewPlace("In", typespec.Nominal("int"), 1, 2, 3),
		NewPlace("Total", typespec.Nominal("int")),
		sum,
		ArgumentEdge{PlaceName: "In", TransitionName: "Sum", ArgumentName: "xs"},
		ReturnEdge{TransitionName: "Sum", PlaceName: "Total"},
	)
	if err != nil {
		t.Fatalf("expected list-lifted argument edge to validate, got %v", err)
	}
}

func TestBuildRejectsMixedReturnIndices(t *testing.T) {
	t1 := NewTransition("T", func(ctx context.Context, args map[string]any) (any, error) {
		return []any{1, "a"}, nil
	}, nil, typespec.Tuple(typespec.Nominal("int"), typespec.Nominal("string")))

	_, err := Build(
		NewPlace("A", typespec.Nominal("int")),
		NewPlace("B", typespec.Nominal("string")),
		t1,
		ReturnEdge{TransitionName: "T", PlaceName: "A", ReturnIndex: intPtr(0)},
		ReturnEdge{TransitionName: "T", PlaceName: "B"},
	)
	if !errors.Is(err, ErrGraphInvalid) {
		t.Fatalf("expected ErrGraphInvalid for mixed return indices, got %v", err)
	}
}
