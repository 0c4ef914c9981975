package petrinet

// ArgumentEdge directs a place's tokens to a named parameter of a
// transition. A transition has at most one argument edge per ArgumentName
// (spec.md §3).
type ArgumentEdge struct {
	PlaceName      string
	TransitionName string
	ArgumentName   string
}

// ReturnEdge directs a transition's result to a destination place,
// optionally at a positional index when the function returns a tuple.
type ReturnEdge struct {
	TransitionName string
	PlaceName      string
	ReturnIndex    *int
}

// Index returns the edge's return index, or -1 if it has none.
func (e ReturnEdge) Index() int {
	if e.ReturnIndex == nil {
		return -1
	}
	return *e.ReturnIndex
}

// intPtr is a small helper for constructing ReturnEdge literals with an
// index without spelling out a local variable at every call site.
func intPtr(i int) *int { return &i }
