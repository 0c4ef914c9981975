// Package selector implements the fireability check and the default
// transition-selection policy of spec.md §4.4, grounded on the reference
// implementation's ExecutableGraphCheck.sufficient_tokens_are_available and
// next_transition.
package selector

import (
	"reflect"

	"github.com/pflow-xyz/tokflow/graphindex"
	"github.com/pflow-xyz/tokflow/petrinet"
)

// Enabled reports whether every argument edge feeding t can draw at least
// one token from its place. This is the sole fireability condition: a
// list-lifted argument still requires its place to hold at least one token,
// even though firing may drain the place down to empty (spec.md §4.3).
func Enabled(idx *graphindex.Index, t *petrinet.Transition) bool {
	for _, e := range idx.ArgEdges(t.Name) {
		place := idx.Place(e.PlaceName)
		if place == nil || len(place.Tokens) == 0 {
			return false
		}
	}
	return true
}

// EnabledSet returns every transition in the graph's declared order for
// which Enabled holds.
func EnabledSet(idx *graphindex.Index) []*petrinet.Transition {
	g := idx.Graph()
	enabled := make([]*petrinet.Transition, 0, len(g.Transitions))
	for _, t := range g.Transitions {
		if Enabled(idx, t) {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

// Default is the built-in selection policy: scan transitions in reverse
// insertion order and return the first one that is enabled, consulting each
// transition's optional Activation guard first. A transition whose
// Activation function returns a falsy value (false, nil, or the zero value
// of a numeric/string type) is skipped even if otherwise enabled; Activation
// is never consulted for a transition that isn't already token-enabled.
func Default(g *petrinet.Graph, enabled []*petrinet.Transition) *petrinet.Transition {
	byName := make(map[string]*petrinet.Transition, len(enabled))
	for _, t := range enabled {
		byName[t.Name] = t
	}
	for i := len(g.Transitions) - 1; i >= 0; i-- {
		t := g.Transitions[i]
		if _, ok := byName[t.Name]; !ok {
			continue
		}
		if t.Activation != nil && !truthy(t.Activation(g)) {
			continue
		}
		return t
	}
	return nil
}

// truthy mirrors the reference implementation's tolerance for activation
// guards that return a bool, a number, or a string rather than strictly
// bool: nil, false, 0, "", and empty containers are falsy.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		rv := reflect.ValueOf(x)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
			return rv.Len() != 0
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
			reflect.Float32, reflect.Float64:
			return !rv.IsZero()
		}
		return true
	}
}

// Resolve picks the selector to use for a single Execute call: an explicit
// per-call selector takes precedence over the graph's own Selector, which in
// turn takes precedence over Default.
func Resolve(g *petrinet.Graph, perCall petrinet.Selector) petrinet.Selector {
	if perCall != nil {
		return perCall
	}
	if g.Selector != nil {
		return g.Selector
	}
	return Default
}
