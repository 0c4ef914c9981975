// Package petrinet implements the immutable topology of a typed Petri net:
// places, transitions, and the two kinds of edges that connect them, plus the
// validation that runs at graph-construction time. See spec.md §3 (Data
// model) and §4.2 (C2 — Graph model & validation).
package petrinet

import "github.com/pflow-xyz/tokflow/typespec"

// Place is a named, typed token buffer. Its tokens are accessed as a stack:
// push onto the back, pop from the back. Every value ever stored in Tokens
// is type-compatible with Type (enforced at construction and at every
// deposit — see the firing package).
type Place struct {
	Name   string
	Type   typespec.Descriptor
	Tokens []any
}

// NewPlace constructs a place with the given initial tokens. Every initial
// token must already satisfy typ; NewPlace does not validate this itself —
// Build does, once, for the whole graph (spec.md §4.2).
func NewPlace(name string, typ typespec.Descriptor, initial ...any) *Place {
	tokens := make([]any, len(initial))
	copy(tokens, initial)
	return &Place{Name: name, Type: typ, Tokens: tokens}
}

// Push appends a token to the back of the stack.
func (p *Place) Push(token any) {
	p.Tokens = append(p.Tokens, token)
}

// Pop removes and returns the token at the back of the stack. Panics if
// empty — callers (the firing package) must only call Pop on an enabled
// edge's source place; an empty pop reaching here means the selector
// violated its contract (spec.md §4.5, ErrSelectorInvalid).
func (p *Place) Pop() any {
	n := len(p.Tokens)
	token := p.Tokens[n-1]
	p.Tokens = p.Tokens[:n-1]
	return token
}

// Drain removes and returns every token currently held, leaving the place
// empty. This is the list-lifting extraction of spec.md §4.5.
func (p *Place) Drain() []any {
	tokens := p.Tokens
	p.Tokens = nil
	return tokens
}

// Snapshot returns a place-shaped value carrying this place's name and type
// but no tokens — the "input-snapshot" of spec.md §4.5, grounded on
// ListPlaceNode.copy_sans_tokens in the reference implementation.
func (p *Place) Snapshot() *Place {
	return &Place{Name: p.Name, Type: p.Type}
}

// WithTokens returns a snapshot carrying the given tokens in a slice of its
// own. The runtime's history windows pass it one-level copies
// (firing.CopyTokens) when token history is enabled; values nested inside
// a token are not copied.
func (p *Place) WithTokens(tokens []any) *Place {
	s := p.Snapshot()
	s.Tokens = append(s.Tokens, tokens...)
	return s
}
