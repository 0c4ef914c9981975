// Package firing implements the three-stage firing algorithm of spec.md
// §4.5: extracting argument tokens from their source places, invoking the
// transition's function, and routing/depositing its result into destination
// places — grounded on the reference implementation's
// ExecutableGraphOperations.stage_1/.../stage_3 trio.
package firing

import (
	"context"
	"fmt"

	"github.com/pflow-xyz/tokflow/graphindex"
	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/selector"
)

// Result is everything a single firing produced, for the runtime's bounded
// history windows and return value.
type Result struct {
	Transition   *petrinet.Transition
	InputPlaces  []*petrinet.Place
	OutputPlaces []*petrinet.Place
}

// Fire performs all three stages for t against idx's graph and mutates the
// graph's places accordingly. allowCopying governs both stage 1's token
// history copies and stage 3's copy-on-fanout; callers must have already
// selected t from the enabled set (Fire re-checks fireability and returns
// ErrSelectorInvalid rather than panicking if that contract was violated).
func Fire(ctx context.Context, idx *graphindex.Index, t *petrinet.Transition, allowCopying bool) (*Result, error) {
	if !selector.Enabled(idx, t) {
		return nil, fmt.Errorf("%w: %w", ErrFiringInvalid, &FiringError{
			Reason: "selected transition has an empty input place", Transition: t.Name, cause: ErrSelectorInvalid,
		})
	}

	extraction := Extract(idx, t, allowCopying)

	result, err := Invoke(ctx, t, extraction.Args)
	if err != nil {
		return nil, err
	}

	tokensByPlace, err := Route(idx, t, result, allowCopying)
	if err != nil {
		return nil, err
	}

	outputPlaces, err := Deposit(idx, tokensByPlace)
	if err != nil {
		return nil, err
	}

	return &Result{
		Transition:   t,
		InputPlaces:  extraction.InputPlaces,
		OutputPlaces: outputPlaces,
	}, nil
}
