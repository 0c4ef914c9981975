package typespec

import "reflect"

// NominalOf returns a Nominal descriptor naming v's Go runtime type, e.g.
// NominalOf(3) == Nominal("int"), NominalOf("x") == Nominal("string").
// Two distinct Go types always produce distinct names, so numeric kinds such
// as int and float64 are never accidentally unified — matching spec.md
// §4.1 rule 6, "subtyping is not applied to numeric types".
func NominalOf(v any) Descriptor {
	if v == nil {
		return Null()
	}
	return Nominal(reflect.TypeOf(v).String())
}

// Matches implements value_matches_type: does value inhabit the declared
// type annotation t? Rules are applied in the order spec.md §4.1 lists them.
func Matches(value any, t Descriptor) bool {
	// Rule 1: top type matches everything, including null.
	if t.kind == KindAny {
		return true
	}

	// Rule 2: the null marker.
	if value == nil {
		return matchesNull(t)
	}

	// Rule 3: named alias recurses into its underlying descriptor.
	if t.kind == KindAlias {
		return Matches(value, *t.target)
	}

	// Rule 4: union (including optional).
	if t.kind == KindUnion {
		for _, m := range t.members {
			if Matches(value, m) {
				return true
			}
		}
		return false
	}

	// Rule 5: parameterized containers.
	switch t.kind {
	case KindList:
		return matchesList(value, t)
	case KindDict:
		return matchesDict(value, t)
	case KindTuple:
		return matchesTuple(value, t)
	}

	// Rule 6: nominal match by runtime-type identity.
	return NominalOf(value).nominal == t.nominal
}

func matchesNull(t Descriptor) bool {
	u := unfoldAliases(t)
	if u.kind == KindNull {
		return true
	}
	if u.kind == KindAny {
		return true
	}
	if u.kind == KindUnion {
		for _, m := range u.members {
			if unfoldAliases(m).kind == KindNull {
				return true
			}
		}
	}
	return false
}

// isSequence reports whether value is an ordered sequence (any slice/array
// type, not a map). A nil interface is never reached here (handled by
// matchesNull before rule 5).
func isSequence(value any) (reflect.Value, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	default:
		return reflect.Value{}, false
	}
}

func isMapping(value any) (reflect.Value, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map {
		return rv, true
	}
	return reflect.Value{}, false
}

func matchesList(value any, t Descriptor) bool {
	rv, ok := isSequence(value)
	if !ok {
		return false
	}
	if t.elem == nil {
		return true // unparameterized list<> matches any sequence
	}
	for i := 0; i < rv.Len(); i++ {
		if !Matches(rv.Index(i).Interface(), *t.elem) {
			return false
		}
	}
	return true
}

func matchesDict(value any, t Descriptor) bool {
	rv, ok := isMapping(value)
	if !ok {
		return false
	}
	if t.key == nil || t.elem == nil {
		return true // unparameterized dict<> matches any mapping
	}
	iter := rv.MapRange()
	for iter.Next() {
		if !Matches(iter.Key().Interface(), *t.key) {
			return false
		}
		if !Matches(iter.Value().Interface(), *t.elem) {
			return false
		}
	}
	return true
}

func matchesTuple(value any, t Descriptor) bool {
	rv, ok := isSequence(value)
	if !ok {
		return false
	}
	if rv.Len() != len(t.elems) {
		return false
	}
	for i, elemType := range t.elems {
		if !Matches(rv.Index(i).Interface(), elemType) {
			return false
		}
	}
	return true
}

// AnnotationsMatch implements annotation_matches_annotation: true if a and b
// are structurally equal (aliases unfolded on either side), or if either is
// the top type.
func AnnotationsMatch(a, b Descriptor) bool {
	if a.kind == KindAny || b.kind == KindAny {
		return true
	}
	a = unfoldAliases(a)
	b = unfoldAliases(b)
	return structurallyEqual(a, b)
}

func structurallyEqual(a, b Descriptor) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindAny, KindNull:
		return true
	case KindNominal:
		return a.nominal == b.nominal
	case KindUnion:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if !structurallyEqual(unfoldAliases(a.members[i]), unfoldAliases(b.members[i])) {
				return false
			}
		}
		return true
	case KindList:
		if (a.elem == nil) != (b.elem == nil) {
			return false
		}
		if a.elem == nil {
			return true
		}
		return structurallyEqual(unfoldAliases(*a.elem), unfoldAliases(*b.elem))
	case KindDict:
		if (a.elem == nil) != (b.elem == nil) || (a.key == nil) != (b.key == nil) {
			return false
		}
		if a.elem == nil {
			return true
		}
		return structurallyEqual(unfoldAliases(*a.key), unfoldAliases(*b.key)) &&
			structurallyEqual(unfoldAliases(*a.elem), unfoldAliases(*b.elem))
	case KindTuple:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !structurallyEqual(unfoldAliases(a.elems[i]), unfoldAliases(b.elems[i])) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MatchesPossiblyLifted implements matches_possibly_lifted: true iff elemType
// matches argType directly, or argType is list<E> and elemType matches E.
// This is the rule that lets a place of element type E feed an argument
// typed either E (single token) or list<E> (the place's entire contents).
func MatchesPossiblyLifted(elemType, argType Descriptor) bool {
	if AnnotationsMatch(elemType, argType) {
		return true
	}
	u := unfoldAliases(argType)
	if u.kind == KindList && u.elem != nil {
		return AnnotationsMatch(elemType, *u.elem)
	}
	return false
}

// IsListType reports whether t (after alias unfolding) is list<...> (with or
// without a parameterized element type).
func IsListType(t Descriptor) bool {
	return unfoldAliases(t).kind == KindList
}

// ListElem returns the parameterized element type of a list descriptor, and
// whether one was declared.
func ListElem(t Descriptor) (Descriptor, bool) {
	u := unfoldAliases(t)
	if u.kind != KindList || u.elem == nil {
		return Descriptor{}, false
	}
	return *u.elem, true
}
