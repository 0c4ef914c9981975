package petrinet

import (
	"context"

	"github.com/pflow-xyz/tokflow/typespec"
)

// Function is a transition's callable. ctx carries Stage 2's single
// cooperative suspension point (spec.md §5): a synchronous function ignores
// it; an asynchronous one blocks on it (a channel receive, an RPC, a timer)
// and should return ctx.Err() if it is cancelled. args holds one entry per
// argument edge plus every fixed keyword argument, already merged (spec.md
// §4.5 Stage 2).
type Function func(ctx context.Context, args map[string]any) (any, error)

// OutputDistribution overrides the default type-based routing of Stage 3
// (spec.md §4.5 Case B): given the function's result, it returns the exact
// place-name -> token mapping to deposit. A nil entry is silently skipped.
type OutputDistribution func(result any) (map[string]any, error)

// ActivationFunc is the optional guard/priority hook of spec.md §4.4,
// consulted only by custom selectors (the default selector ignores it). It
// may inspect the graph read-only and must not mutate it. A falsy Go value
// (nil, false, 0, "") conventionally blocks firing; any other value is a
// priority a custom selector may compare.
type ActivationFunc func(g *Graph) any

// Transition is a named callable with argument edges binding its inputs and
// return edges binding its output(s) to places.
type Transition struct {
	Name string

	// Function is invoked at Stage 2. Exactly one of Function being
	// synchronous or asynchronous is a property of the callable itself in
	// Go — Async below is documentation, not dispatch (see SPEC_FULL.md
	// §5): both kinds are called identically.
	Function Function
	Async    bool

	// ArgTypes declares the argument name -> type contract the engine
	// checks edges and bindings against (spec.md's "function's argument
	// names"); Go cannot reflect a closure's parameter names, so the
	// transition author states them explicitly, mirroring how the
	// reference implementation reads get_type_hints(function).
	ArgTypes map[string]typespec.Descriptor
	// ReturnType declares Function's return type for return-edge
	// validation (spec.md §3 invariant v).
	ReturnType typespec.Descriptor

	// FixedKwargs supplies arguments not bound by any incoming edge.
	FixedKwargs map[string]any

	// OutputDistribution, if set, overrides default type-based routing
	// for every return edge of this transition (spec.md §4.5 Case B).
	OutputDistribution OutputDistribution

	// Activation is the optional guard of spec.md §4.4.
	Activation ActivationFunc
}

// NewTransition constructs a transition with the required name, function,
// and argument-type contract. Use the Transition struct literal directly
// for FixedKwargs/OutputDistribution/Activation.
func NewTransition(name string, fn Function, argTypes map[string]typespec.Descriptor, returnType typespec.Descriptor) *Transition {
	return &Transition{
		Name:       name,
		Function:   fn,
		ArgTypes:   argTypes,
		ReturnType: returnType,
	}
}
