package firing

import (
	"fmt"
	"reflect"

	"github.com/pflow-xyz/tokflow/graphindex"
	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/typespec"
)

// Deposit implements stage 3's place-update half: given the place-name ->
// token map Route resolved, apply the deposit rules of spec.md §4.5 to each
// destination place and return the places that were touched, for the
// output-place history window.
func Deposit(idx *graphindex.Index, tokensByPlace map[string]any) ([]*petrinet.Place, error) {
	touched := make([]*petrinet.Place, 0, len(tokensByPlace))
	for placeName, token := range tokensByPlace {
		place := idx.Place(placeName)
		if err := depositInto(place, token); err != nil {
			return nil, err
		}
		touched = append(touched, place)
	}
	return touched, nil
}

func depositInto(place *petrinet.Place, token any) error {
	rv := reflect.ValueOf(token)
	isSeq := token != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array)
	placeIsList := typespec.IsListType(place.Type)

	switch {
	case isSeq && rv.Len() > 0 && !placeIsList:
		// The function returned many tokens at once: extend, type-checking
		// each element against the place's declared type.
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if !typespec.Matches(elem, place.Type) {
				return fmt.Errorf("%w: %w", ErrFiringInvalid, firingErrCaused(typespec.ErrTypeViolation, place.Name, fmt.Sprintf(
					"element %v does not match place type %s", elem, place.Type)))
			}
			place.Push(elem)
		}
		return nil
	case isSeq && rv.Len() == 0 && placeIsList:
		place.Push(token)
		return nil
	case isSeq && rv.Len() == 0 && !placeIsList:
		return nil // an empty sequence deposited into a non-list place carries no token
	default:
		if !typespec.Matches(token, place.Type) {
			return fmt.Errorf("%w: %w", ErrFiringInvalid, firingErrCaused(typespec.ErrTypeViolation, place.Name, fmt.Sprintf(
				"token %v does not match place type %s", token, place.Type)))
		}
		place.Push(token)
		return nil
	}
}
