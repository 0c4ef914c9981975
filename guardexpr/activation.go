package guardexpr

import "github.com/pflow-xyz/tokflow/petrinet"

// PlaceTokenCounts builds the binding map most guard expressions want:
// place name -> number of tokens currently held. Guards comparing counts
// against a threshold ("P >= 3") read this directly; guards needing the
// tokens themselves should use a custom ActivationFunc instead.
func PlaceTokenCounts(g *petrinet.Graph) map[string]any {
	counts := make(map[string]any, len(g.Places))
	for _, p := range g.Places {
		counts[p.Name] = int64(len(p.Tokens))
	}
	return counts
}

// Activation adapts a Compiled expression into a petrinet.ActivationFunc,
// evaluated against PlaceTokenCounts(g) plus any extra functions the
// caller supplies (e.g. address() style helpers). A falsy result or an
// evaluation error both block firing — an error is treated the same as a
// guard that never activates rather than aborting the selector, since
// guardexpr expressions are caller-supplied configuration, not engine
// invariants.
func Activation(c *Compiled, funcs map[string]Func) petrinet.ActivationFunc {
	return func(g *petrinet.Graph) any {
		ok, err := c.EvalBool(PlaceTokenCounts(g), funcs)
		if err != nil {
			return false
		}
		return ok
	}
}
