package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pflow-xyz/tokflow/firing"
	"github.com/pflow-xyz/tokflow/graphindex"
	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/selector"
)

// Result is what Execute returns once its loop stops: the firing count and
// a run identifier a Recorder's events can be correlated against. The graph
// itself is mutated in place, matching the teacher's own in-place mutation
// of Snapshot/Runtime state rather than returning a new value per firing.
type Result struct {
	RunID      uuid.UUID
	FiredCount int
}

// Execute runs the loop of spec.md §4.6: resolve the enabled set, ask the
// selector for the next transition, fire it, update the bounded history
// windows, and repeat until no transition is enabled or opts.MaxTransitions
// firings have happened.
func Execute(ctx context.Context, g *petrinet.Graph, opts Options) (*Result, error) {
	if opts.TokenHistorySize > 0 && !opts.AllowCopying {
		return nil, fmt.Errorf("%w: token_history_size > 0 requires allow_copying", ErrConfigInvalid)
	}

	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	runID := uuid.New()
	idx := graphindex.Build(g)
	pick := selector.Resolve(g, opts.Selector)

	fired := 0
	for fired < opts.MaxTransitions {
		enabled := selector.EnabledSet(idx)
		if len(enabled) == 0 {
			break
		}
		t := pick(g, enabled)
		if t == nil {
			break
		}
		if !selector.Enabled(idx, t) {
			return nil, fmt.Errorf("%w: selector chose %q which is not enabled", firing.ErrSelectorInvalid, t.Name)
		}

		start := time.Now()
		res, err := firing.Fire(ctx, idx, t, opts.AllowCopying)
		if err != nil {
			return nil, err
		}
		fired++

		updateHistory(g, res, opts)

		if opts.Verbose {
			logger.Debug().
				Str("transition", t.Name).
				Int("fired", fired).
				Dur("elapsed", time.Since(start)).
				Msg("fired transition")
		}

		if opts.Recorder != nil {
			event := FiringEvent{
				RunID:        runID,
				FiringID:     uuid.New(),
				Sequence:     fired,
				Transition:   t.Name,
				InputPlaces:  res.InputPlaces,
				OutputPlaces: res.OutputPlaces,
				FiredAt:      start,
			}
			if rerr := opts.Recorder.RecordFiring(event); rerr != nil {
				return nil, fmt.Errorf("%w: recorder failed: %w", ErrConfigInvalid, rerr)
			}
		}
	}

	if opts.Verbose {
		reason := "exhausted"
		if fired < opts.MaxTransitions {
			reason = "no-enabled"
		}
		logger.Info().Int("fired", fired).Str("reason", reason).Msg("execution loop terminated")
	}

	return &Result{RunID: runID, FiredCount: fired}, nil
}
