package firing

import (
	"fmt"
	"reflect"

	"github.com/pflow-xyz/tokflow/graphindex"
	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/typespec"
)

// Route implements stage 3's routing half: given a transition's result,
// decide which place (or places) receive it and resolve any copy-on-fanout,
// returning a place-name -> token map ready for Deposit. It does not mutate
// any place.
func Route(idx *graphindex.Index, t *petrinet.Transition, result any, allowCopying bool) (map[string]any, error) {
	edges := idx.ReturnEdges(t.Name)
	if t.OutputDistribution != nil {
		return routeByDistribution(idx, t, edges, result, allowCopying)
	}
	return routeByType(idx, t, edges, result, allowCopying)
}

func routeByType(idx *graphindex.Index, t *petrinet.Transition, edges []petrinet.ReturnEdge, result any, allowCopying bool) (map[string]any, error) {
	candidates := make([]*petrinet.Place, 0, len(edges))
	for _, e := range edges {
		candidates = append(candidates, idx.Place(e.PlaceName))
	}
	matches := valueAndPlacesMatch(result, candidates)

	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %w", ErrFiringInvalid, &FiringError{
			Reason: fmt.Sprintf("no destination place matches result of type %T", result), Transition: t.Name, cause: ErrNoRoute,
		})
	case len(matches) == 1:
		return map[string]any{matches[0].Name: result}, nil
	case !allowCopying:
		return nil, fmt.Errorf("%w: %w", ErrFiringInvalid, &FiringError{
			Reason: "result matches multiple destination places but copying is disabled", Transition: t.Name, cause: ErrAmbiguousRoute,
		})
	default:
		out := make(map[string]any, len(matches))
		for i, p := range matches {
			if i == 0 {
				out[p.Name] = result
			} else {
				out[p.Name] = copyToken(result)
			}
		}
		return out, nil
	}
}

// valueAndPlacesMatch implements value_and_places_match: candidates whose
// declared type is satisfied by value directly are ordered before
// candidates satisfied only by treating a non-empty sequence value as a
// sequence of tokens. A place satisfied both ways is listed once, in the
// direct group.
func valueAndPlacesMatch(value any, candidates []*petrinet.Place) []*petrinet.Place {
	rv := reflect.ValueOf(value)
	isSeq := value != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array)

	if isSeq && rv.Len() == 0 {
		out := make([]*petrinet.Place, len(candidates))
		copy(out, candidates)
		return out
	}

	var direct, byContents []*petrinet.Place
	isDirect := make(map[*petrinet.Place]bool, len(candidates))
	for _, p := range candidates {
		if typespec.Matches(value, p.Type) {
			direct = append(direct, p)
			isDirect[p] = true
		}
	}
	if isSeq {
		for _, p := range candidates {
			if isDirect[p] {
				continue // already counted as a direct match, don't double-list it
			}
			allMatch := true
			for i := 0; i < rv.Len(); i++ {
				if !typespec.Matches(rv.Index(i).Interface(), p.Type) {
					allMatch = false
					break
				}
			}
			if allMatch {
				byContents = append(byContents, p)
			}
		}
	}
	return append(direct, byContents...)
}

func routeByDistribution(idx *graphindex.Index, t *petrinet.Transition, edges []petrinet.ReturnEdge, result any, allowCopying bool) (map[string]any, error) {
	for _, e := range edges {
		if e.ReturnIndex != nil {
			return nil, fmt.Errorf("%w: %w", ErrFiringInvalid, &FiringError{
				Reason: "output distribution function requires unindexed return edges", Transition: t.Name, cause: ErrIndexedWithDistribution,
			})
		}
	}

	dist, err := t.OutputDistribution(result)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFiringInvalid, err)
	}

	out := make(map[string]any, len(dist))
	seenTokens := make([]any, 0, len(dist))
	for placeName, token := range dist {
		if token == nil {
			continue
		}
		if idx.Place(placeName) == nil {
			return nil, fmt.Errorf("%w: %w", ErrFiringInvalid, &FiringError{
				Reason: fmt.Sprintf("output distribution function named unknown place %q", placeName), Transition: t.Name,
			})
		}

		dup := false
		for _, seen := range seenTokens {
			if sameToken(seen, token) {
				dup = true
				break
			}
		}
		if dup {
			if !allowCopying {
				return nil, fmt.Errorf("%w: %w", ErrFiringInvalid, &FiringError{
					Reason: "output distribution function assigned the same token object to multiple places but copying is disabled",
					Transition: t.Name, cause: ErrAmbiguousRoute,
				})
			}
			token = copyToken(token)
		}
		seenTokens = append(seenTokens, token)
		out[placeName] = token
	}
	return out, nil
}

// sameToken reports whether a and b are the same underlying object rather
// than merely equal values: two distinct ints that happen to equal each
// other are not the "same token" in the sense spec.md's AmbiguousRoute
// cares about, only a shared backing slice/map/pointer is.
func sameToken(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}
	switch ra.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		if ra.Kind() == reflect.Slice {
			return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
		}
		return ra.Pointer() == rb.Pointer()
	default:
		return false
	}
}
