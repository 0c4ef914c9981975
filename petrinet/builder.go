package petrinet

import "github.com/pflow-xyz/tokflow/typespec"

// TransitionWithOutputEdges is the Go counterpart of the reference
// implementation's function_transition_node_and_output_edges: shorthand for
// the common case of adding a transition together with its return edges to
// an existing set of output places. Pass the result to Build via append or
// spread (Build(append([]any{places...}, TransitionWithOutputEdges(...)...)...)).
//
// When useReturnIndices is true, each output place receives a ReturnEdge at
// its position in outputPlaceNames (for transitions whose Function returns a
// positional tuple); otherwise no edge carries an index.
func TransitionWithOutputEdges(t *Transition, outputPlaceNames []string, useReturnIndices bool) []any {
	nodes := make([]any, 0, 1+len(outputPlaceNames))
	nodes = append(nodes, t)
	for i, name := range outputPlaceNames {
		edge := ReturnEdge{TransitionName: t.Name, PlaceName: name}
		if useReturnIndices {
			edge.ReturnIndex = intPtr(i)
		}
		nodes = append(nodes, edge)
	}
	return nodes
}

// OutputPlaceSpec names a place TransitionWithOutputPlaces should create
// alongside the transition's return edges.
type OutputPlaceSpec struct {
	Name string
	Type typespec.Descriptor
}

// TransitionWithOutputPlaces is the Go counterpart of the reference
// implementation's function_transition_node_and_output_places: it both
// creates the output places and wires the return edges to them in one call,
// for the common case where the output places don't already exist.
func TransitionWithOutputPlaces(t *Transition, outputs []OutputPlaceSpec, useReturnIndices bool) []any {
	names := make([]string, len(outputs))
	for i, o := range outputs {
		names[i] = o.Name
	}
	nodes := TransitionWithOutputEdges(t, names, useReturnIndices)
	for _, o := range outputs {
		nodes = append(nodes, NewPlace(o.Name, o.Type))
	}
	return nodes
}

// Builder provides a fluent API for constructing graphs, grounded on the
// teacher's petri.Builder: chain Place/Transition/Arg calls, then Build.
type Builder struct {
	nodes []any
	err   error
}

// NewBuilder starts a fluent graph construction.
func NewBuilder() *Builder { return &Builder{} }

// Place adds a place with the given initial tokens.
func (b *Builder) Place(name string, typ typespec.Descriptor, initial ...any) *Builder {
	b.nodes = append(b.nodes, NewPlace(name, typ, initial...))
	return b
}

// Transition adds a transition node.
func (b *Builder) Transition(t *Transition) *Builder {
	b.nodes = append(b.nodes, t)
	return b
}

// Arg adds an argument edge: place -> transition.argumentName.
func (b *Builder) Arg(placeName, transitionName, argumentName string) *Builder {
	b.nodes = append(b.nodes, ArgumentEdge{PlaceName: placeName, TransitionName: transitionName, ArgumentName: argumentName})
	return b
}

// Return adds a return edge: transition -> place, optionally at a positional
// return index.
func (b *Builder) Return(transitionName, placeName string, returnIndex *int) *Builder {
	b.nodes = append(b.nodes, ReturnEdge{TransitionName: transitionName, PlaceName: placeName, ReturnIndex: returnIndex})
	return b
}

// Flow is a convenience for the common pattern: place -> transition -> place
// with a single-argument, single-return transition already constructed.
func (b *Builder) Flow(fromPlace string, t *Transition, argumentName, toPlace string) *Builder {
	return b.Transition(t).Arg(fromPlace, t.Name, argumentName).Return(t.Name, toPlace, nil)
}

// Build finalizes and validates the graph.
func (b *Builder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	return Build(b.nodes...)
}
