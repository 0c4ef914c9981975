package runtime

import (
	"github.com/pflow-xyz/tokflow/firing"
	"github.com/pflow-xyz/tokflow/petrinet"
)

// pushWindow appends item to history and trims from the front once the
// rolling window exceeds size. size <= 0 leaves history untouched, which
// callers use to mean "this window is disabled" (spec.md §3).
func pushWindow[T any](history []T, item T, size int) []T {
	if size <= 0 {
		return history
	}
	history = append(history, item)
	if len(history) > size {
		history = history[len(history)-size:]
	}
	return history
}

// snapshotPlaces freezes a slice of places for storage in a history window:
// name and type always, tokens only when withTokens is set (token history
// requires copying, so the tokens attached here are already safe to alias).
func snapshotPlaces(places []*petrinet.Place, withTokens bool) []*petrinet.Place {
	out := make([]*petrinet.Place, len(places))
	for i, p := range places {
		if withTokens {
			out[i] = p.WithTokens(firing.CopyTokens(p.Tokens))
		} else {
			out[i] = p.Snapshot()
		}
	}
	return out
}

// updateHistory applies a single firing's result to g's bounded history
// windows, per the window-size rules of spec.md §3 and the Options field
// docs.
func updateHistory(g *petrinet.Graph, res *firing.Result, opts Options) {
	g.TransitionHistory = pushWindow(g.TransitionHistory, res.Transition, opts.TransitionHistorySize)

	if opts.PlaceHistorySize > 0 {
		withTokens := opts.TokenHistorySize > 0
		g.InputPlaceHistory = pushWindow(g.InputPlaceHistory, snapshotPlaces(res.InputPlaces, withTokens), opts.PlaceHistorySize)
		g.OutputPlaceHistory = pushWindow(g.OutputPlaceHistory, snapshotPlaces(res.OutputPlaces, withTokens), opts.PlaceHistorySize)
	}

	if opts.TokenHistorySize > 0 {
		var tokens []any
		for _, p := range res.OutputPlaces {
			tokens = append(tokens, firing.CopyTokens(p.Tokens)...)
		}
		g.TokenHistory = pushWindow(g.TokenHistory, tokens, opts.TokenHistorySize)
	}
}
