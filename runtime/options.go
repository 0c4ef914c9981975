// Package runtime implements the execution loop of spec.md §4.6: repeatedly
// select an enabled transition and fire it, updating the graph's bounded
// history windows, until no transition is enabled or a firing budget is
// exhausted. It is the execute() entry point of spec.md §6.
package runtime

import (
	"github.com/rs/zerolog"

	"github.com/pflow-xyz/tokflow/petrinet"
)

// Options configures a single Execute call (spec.md §6's execute(...)
// configuration table).
type Options struct {
	// MaxTransitions bounds the number of firings this call may perform.
	// Required; 0 is a valid, deliberate value meaning "fire nothing"
	// (spec.md §8's execute(graph, max_transitions=0) -> (graph, 0)).
	MaxTransitions int

	// AllowCopying enables stage 3's copy-on-fan-out and stage 1's
	// token-history copies; TokenHistorySize > 0 requires it (ErrConfigInvalid
	// otherwise, spec.md §7). The copies are one level deep
	// (firing.CopyToken): a slice or map token gets storage of its own, but
	// values nested inside it, and whatever a pointer refers to, stay shared.
	AllowCopying bool

	// TransitionHistorySize, PlaceHistorySize, and TokenHistorySize bound
	// the rolling windows of the graph's ExecutionState (spec.md §3): 0
	// disables the window, 1 keeps only the most recent entry, N>1 keeps
	// a rolling window of the last N. Windows never affect firing choices.
	TransitionHistorySize int
	PlaceHistorySize      int
	TokenHistorySize      int

	// Selector overrides the graph's own Selector (and the built-in
	// Default) for this call only (spec.md §6's transition_selector).
	Selector petrinet.Selector

	// Verbose enables the per-firing and loop-termination log events.
	Verbose bool

	// Logger receives those events when Verbose is set. A nil Logger
	// defaults to zerolog.Nop(), matching the library's own convention
	// for an inert default.
	Logger *zerolog.Logger

	// Recorder, when set, is notified of every firing as it happens — an
	// external audit trail, not part of the engine's own state.
	Recorder Recorder
}

// DefaultOptions returns an Options with every history window disabled and
// copying off. Callers must still set MaxTransitions explicitly.
func DefaultOptions() Options {
	return Options{}
}
