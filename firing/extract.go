package firing

import (
	"github.com/pflow-xyz/tokflow/graphindex"
	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/typespec"
)

// Extraction is the result of stage 1: the argument bindings to invoke a
// transition's Function with, and a snapshot of each place it drew from
// (sans the removed tokens, unless allowCopying restores a copy into the
// snapshot for history purposes).
type Extraction struct {
	Args        map[string]any
	InputPlaces []*petrinet.Place
}

// Extract implements stage_1_extract_argument_tokens_from_places: it removes
// the tokens a transition needs from their source places and binds them to
// argument names, either by popping a single token or by draining the
// entire place when the argument is declared list<E> and the place is typed
// E (spec.md §4.3's list-lifting rule).
func Extract(idx *graphindex.Index, t *petrinet.Transition, allowCopying bool) Extraction {
	edges := idx.ArgEdges(t.Name)
	args := make(map[string]any, len(edges))
	inputPlaces := make([]*petrinet.Place, 0, len(edges))

	for _, e := range edges {
		place := idx.Place(e.PlaceName)
		snapshot := place.Snapshot()

		if isLiftedArgument(place.Type, t.ArgTypes, e.ArgumentName) {
			tokens := place.Drain()
			args[e.ArgumentName] = tokens
			if allowCopying {
				snapshot.Tokens = copyTokens(tokens)
			}
		} else {
			token := place.Pop()
			args[e.ArgumentName] = token
			if allowCopying {
				snapshot.Tokens = []any{copyToken(token)}
			}
		}
		inputPlaces = append(inputPlaces, snapshot)
	}

	return Extraction{Args: args, InputPlaces: inputPlaces}
}

// isLiftedArgument decides, for a single argument edge, whether the place's
// tokens should be drained as a list (true) or popped one at a time
// (false). A direct type match always wins over lifting: only when the
// argument type doesn't match the place type directly, but does match
// list<place type>, is the argument lifted.
func isLiftedArgument(placeType typespec.Descriptor, argTypes map[string]typespec.Descriptor, argName string) bool {
	argType, ok := argTypes[argName]
	if !ok {
		return false
	}
	if typespec.AnnotationsMatch(placeType, argType) {
		return false
	}
	if elem, ok := typespec.ListElem(argType); ok {
		return typespec.AnnotationsMatch(placeType, elem)
	}
	return typespec.IsListType(argType)
}
