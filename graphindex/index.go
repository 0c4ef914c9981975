// Package graphindex builds the lookup structures the runtime needs once per
// execution run: name-to-node maps and the per-transition edge groupings that
// the selector and firing packages would otherwise have to recompute by
// scanning the graph's edge slices on every firing.
package graphindex

import "github.com/pflow-xyz/tokflow/petrinet"

// Index is the rebuilt-once-per-run lookup structure over a Graph's
// topology. It is read-only: nothing in the runtime mutates an Index after
// Build returns it, since the graph's topology itself never changes during
// execution (only token contents do).
type Index struct {
	g *petrinet.Graph

	placeByName      map[string]*petrinet.Place
	transitionByName map[string]*petrinet.Transition
	incomingArgs     map[string][]petrinet.ArgumentEdge // transition name -> its argument edges
	outgoingReturns  map[string][]petrinet.ReturnEdge   // transition name -> its return edges
	argEdgesByPlace  map[string][]petrinet.ArgumentEdge // place name -> argument edges drawing from it
}

// Build constructs an Index over g. g is assumed already validated by
// petrinet.Build; Build does no further validation of its own.
func Build(g *petrinet.Graph) *Index {
	idx := &Index{
		g:                g,
		placeByName:      make(map[string]*petrinet.Place, len(g.Places)),
		transitionByName: make(map[string]*petrinet.Transition, len(g.Transitions)),
		incomingArgs:     make(map[string][]petrinet.ArgumentEdge, len(g.Transitions)),
		outgoingReturns:  make(map[string][]petrinet.ReturnEdge, len(g.Transitions)),
		argEdgesByPlace:  make(map[string][]petrinet.ArgumentEdge, len(g.Places)),
	}
	for _, p := range g.Places {
		idx.placeByName[p.Name] = p
	}
	for _, t := range g.Transitions {
		idx.transitionByName[t.Name] = t
	}
	for _, e := range g.ArgumentEdges {
		idx.incomingArgs[e.TransitionName] = append(idx.incomingArgs[e.TransitionName], e)
		idx.argEdgesByPlace[e.PlaceName] = append(idx.argEdgesByPlace[e.PlaceName], e)
	}
	for _, e := range g.ReturnEdges {
		idx.outgoingReturns[e.TransitionName] = append(idx.outgoingReturns[e.TransitionName], e)
	}
	return idx
}

// Graph returns the underlying graph the index was built from.
func (idx *Index) Graph() *petrinet.Graph { return idx.g }

// Place looks up a place by name.
func (idx *Index) Place(name string) *petrinet.Place { return idx.placeByName[name] }

// Transition looks up a transition by name.
func (idx *Index) Transition(name string) *petrinet.Transition { return idx.transitionByName[name] }

// ArgEdges returns the argument edges feeding a transition's parameters, in
// the order they appeared in the graph's construction.
func (idx *Index) ArgEdges(transitionName string) []petrinet.ArgumentEdge {
	return idx.incomingArgs[transitionName]
}

// ReturnEdges returns the return edges a transition's result is routed
// through, in the order they appeared in the graph's construction.
func (idx *Index) ReturnEdges(transitionName string) []petrinet.ReturnEdge {
	return idx.outgoingReturns[transitionName]
}

// ArgEdgesFromPlace returns every argument edge that draws tokens from the
// named place, across every transition.
func (idx *Index) ArgEdgesFromPlace(placeName string) []petrinet.ArgumentEdge {
	return idx.argEdgesByPlace[placeName]
}
