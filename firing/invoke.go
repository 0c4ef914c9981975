package firing

import (
	"context"
	"fmt"

	"github.com/pflow-xyz/tokflow/petrinet"
)

// Invoke implements stage 2: merge the Stage-1 argument bindings with the
// transition's fixed kwargs and call its Function. Both synchronous and
// asynchronous transitions (Transition.Async is documentation only) are
// invoked identically; ctx is the single cooperative suspension point a
// Function can block on.
func Invoke(ctx context.Context, t *petrinet.Transition, args map[string]any) (any, error) {
	kwargs, err := mergeKwargs(args, t.FixedKwargs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFiringInvalid, err)
	}
	result, err := t.Function(ctx, kwargs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrFiringInvalid, ErrFunctionFailed, err)
	}
	return result, nil
}

// mergeKwargs combines Stage-1 argument bindings with a transition's fixed
// kwargs. A key present in both is a graph-authoring mistake, not a runtime
// condition to silently resolve one way or the other, so it is rejected
// with ErrKwargCollision rather than guessing which value the caller meant
// (spec.md §4.5's KwargCollision).
func mergeKwargs(args, fixed map[string]any) (map[string]any, error) {
	if len(fixed) == 0 {
		return args, nil
	}
	merged := make(map[string]any, len(args)+len(fixed))
	for k, v := range args {
		merged[k] = v
	}
	for k, v := range fixed {
		if _, exists := merged[k]; exists {
			return nil, fmt.Errorf("%w: kwarg %q supplied by both an argument edge and fixed_kwargs", ErrKwargCollision, k)
		}
		merged[k] = v
	}
	return merged, nil
}
