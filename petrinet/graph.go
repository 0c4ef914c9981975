package petrinet

import (
	"fmt"

	"github.com/pflow-xyz/tokflow/typespec"
)

// Selector picks the next transition to fire from the enabled set, or
// returns nil to halt the execution loop (spec.md §4.4). Selectors must be
// pure with respect to the engine: they must not mutate g.
type Selector func(g *Graph, enabled []*Transition) *Transition

// Graph is the immutable topology of a typed Petri net: its places,
// transitions, and the argument/return edges between them (spec.md §3). The
// graph also carries the bounded, ambient execution history described in
// spec.md's "ExecutionState" — append-and-drop windows that never affect
// firing logic and exist purely for observability.
type Graph struct {
	Places        []*Place
	Transitions   []*Transition
	ArgumentEdges []ArgumentEdge
	ReturnEdges   []ReturnEdge

	// Selector overrides the default reverse-insertion-order selection for
	// every execution of this graph; a per-call selector passed to
	// runtime.Execute overrides this in turn.
	Selector Selector

	// TransitionHistory, InputPlaceHistory, OutputPlaceHistory, and
	// TokenHistory are the bounded windows of spec.md §3's ExecutionState.
	// They are mutated only by the runtime package's execution loop.
	TransitionHistory  []*Transition
	InputPlaceHistory  [][]*Place
	OutputPlaceHistory [][]*Place
	TokenHistory       [][]any
}

// PlaceNamed returns the place with the given name, or nil.
func (g *Graph) PlaceNamed(name string) *Place {
	for _, p := range g.Places {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// TransitionNamed returns the transition with the given name, or nil.
func (g *Graph) TransitionNamed(name string) *Transition {
	for _, t := range g.Transitions {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Build partitions a mixed sequence of places, transitions, argument edges,
// and return edges into a Graph and runs the validation of spec.md §4.2.
// This is the build_graph operation of spec.md §6.
func Build(nodesAndEdges ...any) (*Graph, error) {
	g := &Graph{}
	for _, n := range nodesAndEdges {
		switch v := n.(type) {
		case *Place:
			g.Places = append(g.Places, v)
		case *Transition:
			g.Transitions = append(g.Transitions, v)
		case ArgumentEdge:
			g.ArgumentEdges = append(g.ArgumentEdges, v)
		case ReturnEdge:
			g.ReturnEdges = append(g.ReturnEdges, v)
		default:
			return nil, fmt.Errorf("%w: unexpected node type %T", ErrGraphInvalid, n)
		}
	}
	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

func validate(g *Graph) error {
	placeNames := make(map[string]bool, len(g.Places))
	for _, p := range g.Places {
		if placeNames[p.Name] {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErr("duplicate place name", "place", p.Name))
		}
		placeNames[p.Name] = true
	}

	for _, p := range g.Places {
		for _, tok := range p.Tokens {
			if !typespec.Matches(tok, p.Type) {
				return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErrCaused(typespec.ErrTypeViolation,
					fmt.Sprintf("initial token %v does not match place type %s", tok, p.Type), "place", p.Name))
			}
		}
	}

	transNames := make(map[string]bool, len(g.Transitions))
	for _, t := range g.Transitions {
		if transNames[t.Name] {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErr("duplicate transition name", "transition", t.Name))
		}
		transNames[t.Name] = true
	}

	seenArg := make(map[string]bool)
	for _, e := range g.ArgumentEdges {
		if !placeNames[e.PlaceName] {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErr("argument edge references unknown place", "place", e.PlaceName, "transition", e.TransitionName))
		}
		t := g.TransitionNamed(e.TransitionName)
		if t == nil {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErr("argument edge references unknown transition", "transition", e.TransitionName))
		}
		key := e.TransitionName + "\x00" + e.ArgumentName
		if seenArg[key] {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErr("duplicate argument edge for parameter", "transition", e.TransitionName, "argument", e.ArgumentName))
		}
		seenArg[key] = true

		place := g.PlaceNamed(e.PlaceName)
		argType, ok := t.ArgTypes[e.ArgumentName]
		if ok {
			if !typespec.MatchesPossiblyLifted(place.Type, argType) {
				return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErrCaused(typespec.ErrTypeViolation,
					fmt.Sprintf("type mismatch: place type %s is not compatible with argument type %s", place.Type, argType),
					"place", e.PlaceName, "transition", e.TransitionName, "argument", e.ArgumentName,
				))
			}
		}
	}

	returnsByTrans := make(map[string][]ReturnEdge)
	for _, e := range g.ReturnEdges {
		if !placeNames[e.PlaceName] {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErr("return edge references unknown place", "place", e.PlaceName, "transition", e.TransitionName))
		}
		if g.TransitionNamed(e.TransitionName) == nil {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErr("return edge references unknown transition", "transition", e.TransitionName))
		}
		returnsByTrans[e.TransitionName] = append(returnsByTrans[e.TransitionName], e)
	}

	// Supplemented from original_source/: a transition's return edges must
	// be all-indexed or all-unindexed, never a mix (the reference
	// implementation's return_indices_ara_a_mix_of_none_and_non_none). This
	// runs before the per-edge type check below so a mixed-index graph is
	// rejected for that reason even when individual edge types would
	// otherwise mismatch.
	for name, edges := range returnsByTrans {
		hasIndexed, hasUnindexed := false, false
		for _, e := range edges {
			if e.ReturnIndex != nil {
				hasIndexed = true
			} else {
				hasUnindexed = true
			}
		}
		if hasIndexed && hasUnindexed {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErrCaused(ErrMixedReturnIndices, "mixed indexed and unindexed return edges", "transition", name))
		}
	}

	for _, e := range g.ReturnEdges {
		t := g.TransitionNamed(e.TransitionName)
		place := g.PlaceNamed(e.PlaceName)
		returnType := t.ReturnType
		if e.ReturnIndex != nil && t.ReturnType.Kind() == typespec.KindTuple {
			elems := t.ReturnType.Elems()
			if *e.ReturnIndex < 0 || *e.ReturnIndex >= len(elems) {
				return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErr(
					fmt.Sprintf("return index %d out of range for %s", *e.ReturnIndex, t.ReturnType),
					"place", e.PlaceName, "transition", e.TransitionName,
				))
			}
			returnType = elems[*e.ReturnIndex]
		}
		if !typespec.MatchesPossiblyLifted(place.Type, returnType) && !typespec.AnnotationsMatch(place.Type, returnType) {
			return fmt.Errorf("%w: %w", ErrGraphInvalid, graphErrCaused(typespec.ErrTypeViolation,
				fmt.Sprintf("type mismatch: place type %s is not compatible with return type %s", place.Type, returnType),
				"place", e.PlaceName, "transition", e.TransitionName,
			))
		}
	}

	return nil
}
