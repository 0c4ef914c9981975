package typespec

import "testing"

func TestMatchesNominal(t *testing.T) {
	if !Matches(3, Nominal("int")) {
		t.Errorf("expected 3 to match int")
	}
	if Matches(3.0, Nominal("int")) {
		t.Errorf("expected float64 not to match int (no numeric subtyping)")
	}
	if Matches(3, Nominal("float64")) {
		t.Errorf("expected int not to match float64")
	}
}

func TestMatchesAny(t *testing.T) {
	if !Matches(nil, Any()) {
		t.Errorf("Any() must match the null marker")
	}
	if !Matches(42, Any()) {
		t.Errorf("Any() must match any value")
	}
}

func TestMatchesNull(t *testing.T) {
	if !Matches(nil, Null()) {
		t.Errorf("nil must match Null()")
	}
	if Matches(0, Null()) {
		t.Errorf("0 must not match Null()")
	}
	if !Matches(nil, Optional(Nominal("int"))) {
		t.Errorf("nil must match an Optional")
	}
}

func TestMatchesAlias(t *testing.T) {
	id := Alias("UserID", Nominal("string"))
	if !Matches("u-1", id) {
		t.Errorf("expected alias to recurse into its target")
	}
	if Matches(1, id) {
		t.Errorf("expected int not to match an aliased string")
	}
}

func TestMatchesUnion(t *testing.T) {
	numOrStr := Union(Nominal("int"), Nominal("string"))
	if !Matches(1, numOrStr) || !Matches("a", numOrStr) {
		t.Errorf("expected union to match both members")
	}
	if Matches(1.5, numOrStr) {
		t.Errorf("expected union not to match a non-member")
	}
}

func TestMatchesList(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   Descriptor
		want  bool
	}{
		{"matching ints", []int{1, 2, 3}, List(Nominal("int")), true},
		{"mixed not all ints", []any{1, "x"}, List(Nominal("int")), false},
		{"empty matches", []int{}, List(Nominal("int")), true},
		{"non sequence", 5, List(Nominal("int")), false},
		{"unparameterized list matches anything ordered", []string{"a"}, AnyList(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.value, tt.typ); got != tt.want {
				t.Errorf("Matches(%v, %v) = %v, want %v", tt.value, tt.typ, got, tt.want)
			}
		})
	}
}

func TestMatchesDict(t *testing.T) {
	d := Dict(Nominal("string"), Nominal("int"))
	if !Matches(map[string]int{"a": 1}, d) {
		t.Errorf("expected map[string]int to match dict<string,int>")
	}
	if Matches(map[string]string{"a": "b"}, d) {
		t.Errorf("expected map[string]string not to match dict<string,int>")
	}
}

func TestMatchesTuple(t *testing.T) {
	tup := Tuple(Nominal("string"), Nominal("int"))
	if !Matches([]any{"a", 1}, tup) {
		t.Errorf("expected (\"a\", 1) to match tuple<string,int>")
	}
	if Matches([]any{"a"}, tup) {
		t.Errorf("expected wrong-length sequence not to match tuple")
	}
	if Matches([]any{1, "a"}, tup) {
		t.Errorf("expected wrong-order elements not to match tuple")
	}
}

func TestAnnotationsMatch(t *testing.T) {
	if !AnnotationsMatch(Nominal("int"), Nominal("int")) {
		t.Errorf("expected identical nominal annotations to match")
	}
	if AnnotationsMatch(Nominal("int"), Nominal("string")) {
		t.Errorf("expected distinct nominal annotations not to match")
	}
	if !AnnotationsMatch(Any(), Nominal("string")) {
		t.Errorf("expected Any() to match anything")
	}
	alias := Alias("Count", Nominal("int"))
	if !AnnotationsMatch(alias, Nominal("int")) {
		t.Errorf("expected alias to unfold for annotation comparison")
	}
}

func TestMatchesPossiblyLifted(t *testing.T) {
	intT := Nominal("int")
	listInt := List(intT)
	if !MatchesPossiblyLifted(intT, intT) {
		t.Errorf("expected direct element match to lift-match")
	}
	if !MatchesPossiblyLifted(intT, listInt) {
		t.Errorf("expected element type to lift-match list<element type>")
	}
	if MatchesPossiblyLifted(intT, List(Nominal("string"))) {
		t.Errorf("expected element type not to lift-match list<other type>")
	}
}
