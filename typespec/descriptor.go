// Package typespec implements the runtime type-compatibility predicate used
// to route tokens between places and transitions: the "kind" of a
// TypeDescriptor (nominal, union, optional, parameterized list/dict/tuple, or
// a named alias) and the rules under which a runtime value inhabits one.
package typespec

import "fmt"

// Kind identifies which shape a TypeDescriptor takes.
type Kind int

const (
	// KindAny matches any value, including the null marker.
	KindAny Kind = iota
	// KindNull matches only the null marker.
	KindNull
	// KindNominal matches values whose Go runtime type equals Nominal.
	KindNominal
	// KindUnion matches a value that satisfies any member.
	KindUnion
	// KindList matches an ordered sequence; Elem (if set) bounds every element.
	KindList
	// KindDict matches a mapping; Key/Elem (if set) bound keys/values.
	KindDict
	// KindTuple matches a fixed-length sequence; Elems bounds each position.
	KindTuple
	// KindAlias names another Descriptor; matching unfolds to it.
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindNull:
		return "null"
	case KindNominal:
		return "nominal"
	case KindUnion:
		return "union"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindTuple:
		return "tuple"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Descriptor is an opaque value representing one of the type shapes named in
// spec.md §3: a nominal type, a union, an optional, a parameterized
// list/dict/tuple, an unparameterized container, a struct type (a nominal
// descriptor naming the struct's Go type), or a named alias wrapping another
// Descriptor.
//
// Descriptor is immutable once constructed; every constructor returns a new
// value.
type Descriptor struct {
	kind Kind

	// Nominal is the Go runtime type name for KindNominal, compared in
	// Matches against reflect.TypeOf(value).String() (see NominalOf). Two nominal descriptors are
	// equal (for annotation comparison) iff their Nominal tags are equal.
	nominal string

	// Members holds the union branches for KindUnion.
	members []Descriptor

	// Elem holds the list/dict value type; nil means unparameterized.
	elem *Descriptor
	// Key holds the dict key type; nil means unparameterized.
	key *Descriptor
	// Elems holds the positional tuple element types.
	elems []Descriptor

	// AliasName is the alias's display name; Target is what it unfolds to.
	aliasName string
	target    *Descriptor
}

// Any returns the top type: matches every value, including null.
func Any() Descriptor { return Descriptor{kind: KindAny} }

// Null returns the type that matches only the null marker.
func Null() Descriptor { return Descriptor{kind: KindNull} }

// Nominal returns a descriptor that matches values of the named Go runtime
// type, spelled as reflect reports it (see NominalOf): "int", "string".
func Nominal(name string) Descriptor { return Descriptor{kind: KindNominal, nominal: name} }

// Union returns a descriptor matching any of its members.
func Union(members ...Descriptor) Descriptor { return Descriptor{kind: KindUnion, members: members} }

// Optional returns Union(t, Null()) — a union with the null marker.
func Optional(t Descriptor) Descriptor { return Union(t, Null()) }

// List returns a parameterized list<elem> descriptor.
func List(elem Descriptor) Descriptor { return Descriptor{kind: KindList, elem: &elem} }

// AnyList returns an unparameterized list descriptor (Elem() returns false, ok).
func AnyList() Descriptor { return Descriptor{kind: KindList} }

// Dict returns a parameterized dict<key,value> descriptor.
func Dict(key, value Descriptor) Descriptor {
	return Descriptor{kind: KindDict, key: &key, elem: &value}
}

// AnyDict returns an unparameterized dict descriptor.
func AnyDict() Descriptor { return Descriptor{kind: KindDict} }

// Tuple returns a parameterized tuple<T1,...,Tn> descriptor.
func Tuple(elems ...Descriptor) Descriptor { return Descriptor{kind: KindTuple, elems: elems} }

// Alias returns a named alias wrapping target; Matches recurses into target.
func Alias(name string, target Descriptor) Descriptor {
	return Descriptor{kind: KindAlias, aliasName: name, target: &target}
}

// Kind reports the descriptor's shape.
func (d Descriptor) Kind() Kind { return d.kind }

// NominalName returns the nominal type name; only meaningful for KindNominal.
func (d Descriptor) NominalName() string { return d.nominal }

// Members returns the union branches; only meaningful for KindUnion.
func (d Descriptor) Members() []Descriptor { return d.members }

// Elem returns the list/dict element type and whether it was parameterized.
func (d Descriptor) Elem() (Descriptor, bool) {
	if d.elem == nil {
		return Descriptor{}, false
	}
	return *d.elem, true
}

// Key returns the dict key type and whether it was parameterized.
func (d Descriptor) Key() (Descriptor, bool) {
	if d.key == nil {
		return Descriptor{}, false
	}
	return *d.key, true
}

// Elems returns the tuple's positional element types.
func (d Descriptor) Elems() []Descriptor { return d.elems }

// Unfold returns the descriptor an alias wraps. Panics if Kind() != KindAlias.
func (d Descriptor) Unfold() Descriptor {
	if d.kind != KindAlias {
		panic(fmt.Sprintf("typespec: Unfold called on non-alias kind %s", d.kind))
	}
	return *d.target
}

// unfoldAliases repeatedly unwraps alias descriptors.
func unfoldAliases(d Descriptor) Descriptor {
	for d.kind == KindAlias {
		d = *d.target
	}
	return d
}

// String renders a descriptor for error messages; not used for comparison.
func (d Descriptor) String() string {
	switch d.kind {
	case KindAny:
		return "any"
	case KindNull:
		return "null"
	case KindNominal:
		return d.nominal
	case KindAlias:
		return d.aliasName
	case KindUnion:
		s := "union<"
		for i, m := range d.members {
			if i > 0 {
				s += "|"
			}
			s += m.String()
		}
		return s + ">"
	case KindList:
		if d.elem != nil {
			return "list<" + d.elem.String() + ">"
		}
		return "list"
	case KindDict:
		if d.elem != nil && d.key != nil {
			return "dict<" + d.key.String() + "," + d.elem.String() + ">"
		}
		return "dict"
	case KindTuple:
		s := "tuple<"
		for i, e := range d.elems {
			if i > 0 {
				s += ","
			}
			s += e.String()
		}
		return s + ">"
	default:
		return "?"
	}
}
