package petrinet

import (
	"errors"
	"fmt"
)

// ErrGraphInvalid is the sentinel every graph-construction failure wraps
// (spec.md §7). Match it with errors.Is; use errors.As against GraphError
// for the offending names.
var ErrGraphInvalid = errors.New("petrinet: graph invalid")

// ErrMixedReturnIndices reports a transition whose return edges mix an
// explicit return_index with edges that have none (supplemented from
// original_source/'s return_indices_ara_a_mix_of_none_and_non_none).
var ErrMixedReturnIndices = errors.New("petrinet: transition has a mix of indexed and unindexed return edges")

// GraphError carries the structured detail behind an ErrGraphInvalid.
type GraphError struct {
	Reason string
	Place  string
	Trans  string
	Arg    string
	cause  error
}

func (e *GraphError) Error() string {
	s := "petrinet: " + e.Reason
	if e.Trans != "" {
		s += fmt.Sprintf(" (transition %q)", e.Trans)
	}
	if e.Place != "" {
		s += fmt.Sprintf(" (place %q)", e.Place)
	}
	if e.Arg != "" {
		s += fmt.Sprintf(" (argument %q)", e.Arg)
	}
	return s
}

func (e *GraphError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return ErrGraphInvalid
}

func graphErr(reason string, fields ...string) error {
	return graphErrCaused(nil, reason, fields...)
}

func graphErrCaused(cause error, reason string, fields ...string) error {
	ge := &GraphError{Reason: reason, cause: cause}
	for i := 0; i+1 < len(fields); i += 2 {
		switch fields[i] {
		case "place":
			ge.Place = fields[i+1]
		case "transition":
			ge.Trans = fields[i+1]
		case "argument":
			ge.Arg = fields[i+1]
		}
	}
	return ge
}
