package runtime

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pflow-xyz/tokflow/graphindex"
	"github.com/pflow-xyz/tokflow/petrinet"
)

// Marking is a snapshot of token *counts* per place — the reachability
// state space's node identity. Unlike petrinet.Place, a Marking never
// carries token values, only how many a place holds; state-space
// exploration only needs to know whether an arc can draw a token, not what
// that token is. Grounded on the teacher's dedicated reachability package
// (reachability/marking.go's Marking type), adapted from a float64-state-
// derived marking over weighted/inhibitor arcs to the count-only, weight-1
// arcs this engine's argument/return edges use.
type Marking map[string]int

// markingOf builds the Marking for g's current token state.
func markingOf(g *petrinet.Graph) Marking {
	m := make(Marking, len(g.Places))
	for _, p := range g.Places {
		m[p.Name] = len(p.Tokens)
	}
	return m
}

// Copy returns an independent copy of m.
func (m Marking) Copy() Marking {
	out := make(Marking, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equals reports whether m and other hold the same counts for every place
// named in either.
func (m Marking) Equals(other Marking) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if other[k] != v {
			return false
		}
	}
	return true
}

// IsZero reports whether every place in m is empty.
func (m Marking) IsZero() bool {
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}

// Total returns the sum of every place's token count.
func (m Marking) Total() int {
	sum := 0
	for _, v := range m {
		sum += v
	}
	return sum
}

// Hash returns a deterministic string identity for m, used as the
// visited-state key during BFS. The teacher's Marking.Hash sha256-digests
// the sorted key/value pairs (sized for large, long-running simulations);
// the sorted key/value string itself already uniquely identifies a marking
// and the state spaces this engine explores are small enough that the
// digest step buys nothing, so this is simplified to the sorted string
// directly — same role, smaller implementation.
func (m Marking) Hash() string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(m[n]))
		b.WriteByte(';')
	}
	return b.String()
}

// State is a node in a StateGraph: one distinct Marking reachable from the
// initial state, together with which transitions are enabled there and its
// edges to/from other states. Grounded on reachability/graph.go's State.
type State struct {
	ID           int
	Marking      Marking
	Hash         string
	Enabled      []string
	Successors   []*Edge
	Predecessors []*Edge
	IsInitial    bool
	IsTerminal   bool
	IsDeadlock   bool
	Depth        int
}

// Edge is one transition firing from one State to another.
type Edge struct {
	From       *State
	To         *State
	Transition string
}

// StateGraph is the reachability graph (state space) of a petrinet.Graph:
// every distinct Marking reached by BFS from an initial Marking, and the
// transition firings connecting them. Grounded on reachability/graph.go's
// Graph, with isEnabled/Fire re-expressed over this engine's argument/
// return edges (weight 1, no inhibitor arcs) instead of petri.Arc's
// weighted/inhibitor model.
type StateGraph struct {
	idx     *graphindex.Index
	Initial Marking
	States  map[string]*State
	Edges   []*Edge
	Root    *State

	stateList []*State
}

// NewStateGraph creates an empty state graph over g's topology, seeded with
// initial (a copy is kept so later mutation of the caller's map is safe).
func NewStateGraph(g *petrinet.Graph, initial Marking) *StateGraph {
	return &StateGraph{
		idx:     graphindex.Build(g),
		Initial: initial.Copy(),
		States:  make(map[string]*State),
	}
}

// AddState registers marking as a state, returning the existing State if an
// equal marking was already seen.
func (sg *StateGraph) AddState(marking Marking) *State {
	hash := marking.Hash()
	if existing, ok := sg.States[hash]; ok {
		return existing
	}

	state := &State{
		ID:           len(sg.States),
		Marking:      marking.Copy(),
		Hash:         hash,
		Enabled:      sg.findEnabled(marking),
		IsInitial:    len(sg.States) == 0,
		Depth:        -1,
	}
	state.IsTerminal = len(state.Enabled) == 0

	sg.States[hash] = state
	sg.stateList = append(sg.stateList, state)

	if state.IsInitial {
		sg.Root = state
		state.Depth = 0
	}
	return state
}

// AddEdge records a transition firing from one state to another, updating
// the destination's depth if this path reaches it sooner.
func (sg *StateGraph) AddEdge(from, to *State, transition string) *Edge {
	edge := &Edge{From: from, To: to, Transition: transition}
	from.Successors = append(from.Successors, edge)
	to.Predecessors = append(to.Predecessors, edge)
	sg.Edges = append(sg.Edges, edge)

	if from.Depth >= 0 && (to.Depth < 0 || to.Depth > from.Depth+1) {
		to.Depth = from.Depth + 1
	}
	return edge
}

// GetState looks up the state for marking, or nil if it hasn't been seen.
func (sg *StateGraph) GetState(marking Marking) *State {
	return sg.States[marking.Hash()]
}

// StateCount returns the number of distinct states discovered so far.
func (sg *StateGraph) StateCount() int { return len(sg.States) }

// EdgeCount returns the number of firings recorded so far.
func (sg *StateGraph) EdgeCount() int { return len(sg.Edges) }

// StatesList returns every state in order of discovery.
func (sg *StateGraph) StatesList() []*State { return sg.stateList }

func (sg *StateGraph) findEnabled(marking Marking) []string {
	var enabled []string
	for _, t := range sg.idx.Graph().Transitions {
		if sg.isEnabled(marking, t.Name) {
			enabled = append(enabled, t.Name)
		}
	}
	return enabled
}

func (sg *StateGraph) isEnabled(marking Marking, transName string) bool {
	for _, e := range sg.idx.ArgEdges(transName) {
		if marking[e.PlaceName] == 0 {
			return false
		}
	}
	return true
}

// Fire returns the marking reached by firing transName from marking, or nil
// if transName isn't enabled there. Every argument/return edge moves
// exactly one token, matching this engine's uniform weight-1 simulation of
// arcs for reachability purposes (the same rule CanReach's applyMarking
// applies).
func (sg *StateGraph) Fire(marking Marking, transName string) Marking {
	if !sg.isEnabled(marking, transName) {
		return nil
	}
	next := marking.Copy()
	for _, e := range sg.idx.ArgEdges(transName) {
		next[e.PlaceName]--
	}
	for _, e := range sg.idx.ReturnEdges(transName) {
		next[e.PlaceName]++
	}
	return next
}

// TerminalStates returns every state with no enabled transitions.
func (sg *StateGraph) TerminalStates() []*State {
	var terminal []*State
	for _, s := range sg.stateList {
		if s.IsTerminal {
			terminal = append(terminal, s)
		}
	}
	return terminal
}

// MaxDepth returns the greatest depth reached from the initial state.
func (sg *StateGraph) MaxDepth() int {
	max := 0
	for _, s := range sg.stateList {
		if s.Depth > max {
			max = s.Depth
		}
	}
	return max
}

// Analyzer performs bounded state-space exploration and derived analyses
// (deadlock, liveness, cycle detection) over a petrinet.Graph's reachable
// markings. Grounded on reachability/analyzer.go's Analyzer; trimmed to
// deadlock detection, dead-transition/liveness, and cycle detection, and
// dropping the
// teacher's truncation-aware "potentially dead vs confirmed dead" targeted
// re-search (CanTransitionFire/VerifyPotentiallyDead), which exists there
// to make large chemical/epidemiological simulations tractable — a concern
// this engine's small demo/test graphs don't need; see DESIGN.md.
type Analyzer struct {
	graph     *petrinet.Graph
	initial   Marking
	maxStates int
	maxTokens int
}

// NewAnalyzer creates an Analyzer seeded with g's current marking.
func NewAnalyzer(g *petrinet.Graph) *Analyzer {
	return &Analyzer{
		graph:     g,
		initial:   markingOf(g),
		maxStates: 10000,
		maxTokens: 1000,
	}
}

// WithInitialMarking overrides the marking exploration starts from.
func (a *Analyzer) WithInitialMarking(m Marking) *Analyzer {
	a.initial = m.Copy()
	return a
}

// WithMaxStates bounds how many distinct states BuildGraph will explore.
func (a *Analyzer) WithMaxStates(max int) *Analyzer {
	a.maxStates = max
	return a
}

// WithMaxTokens bounds the token count BuildGraph tolerates in any one
// place before treating the net as unbounded and stopping exploration.
func (a *Analyzer) WithMaxTokens(max int) *Analyzer {
	a.maxTokens = max
	return a
}

// AnalysisResult is the outcome of exploring a graph's reachable state
// space. Grounded on reachability/analyzer.go's Result, trimmed to the
// fields this engine's Analyze/BuildGraph actually populate.
type AnalysisResult struct {
	Graph       *StateGraph
	StateCount  int
	EdgeCount   int
	MaxDepth    int
	Bounded     bool
	Truncated   bool
	TruncateMsg string

	HasDeadlock bool
	Deadlocks   []*State

	HasCycle bool
	Cycles   [][]string

	Live             bool
	DeadTransitions  []string
	FiredTransitions []string
}

// BuildGraph explores the reachable state space by BFS, bounded by
// maxStates (total states) and maxTokens (per-place token ceiling before
// the net is declared unbounded and exploration stops).
func (a *Analyzer) BuildGraph() *AnalysisResult {
	sg := NewStateGraph(a.graph, a.initial)
	result := &AnalysisResult{Graph: sg, Bounded: true}

	queue := []Marking{a.initial}
	sg.AddState(a.initial)

	for len(queue) > 0 && sg.StateCount() < a.maxStates {
		current := queue[0]
		queue = queue[1:]

		currentState := sg.GetState(current)
		if currentState == nil {
			continue
		}

		for _, trans := range currentState.Enabled {
			next := sg.Fire(current, trans)
			if next == nil {
				continue
			}
			maxCount := 0
			for _, v := range next {
				if v > maxCount {
					maxCount = v
				}
			}
			if maxCount > a.maxTokens {
				result.Bounded = false
				result.Truncated = true
				result.TruncateMsg = "unbounded: token count exceeded limit"
				break
			}

			newState := sg.GetState(next)
			if newState == nil {
				newState = sg.AddState(next)
				queue = append(queue, next)
			}
			sg.AddEdge(currentState, newState, trans)
		}
		if result.Truncated {
			break
		}
	}

	if sg.StateCount() >= a.maxStates && !result.Truncated {
		result.Truncated = true
		result.TruncateMsg = "state limit reached"
	}

	result.StateCount = sg.StateCount()
	result.EdgeCount = sg.EdgeCount()
	result.MaxDepth = sg.MaxDepth()

	initialTotal := a.initial.Total()
	for _, state := range sg.TerminalStates() {
		isDeadlock := initialTotal > 0 && !state.Marking.IsZero()
		if state.IsInitial && len(state.Enabled) == 0 && initialTotal > 0 {
			isDeadlock = true
		}
		if isDeadlock {
			state.IsDeadlock = true
			result.HasDeadlock = true
			result.Deadlocks = append(result.Deadlocks, state)
		}
	}

	return result
}

// Analyze runs BuildGraph and adds cycle detection and liveness analysis.
func (a *Analyzer) Analyze() *AnalysisResult {
	result := a.BuildGraph()
	result.HasCycle, result.Cycles = a.detectCycles(result.Graph)
	a.analyzeLiveness(result.Graph, result)
	return result
}

// detectCycles does a DFS from the root state looking for back-edges,
// reporting the transition sequence that closes each cycle found. Grounded
// on reachability/analyzer.go's detectCycles.
func (a *Analyzer) detectCycles(sg *StateGraph) (bool, [][]string) {
	if sg.Root == nil {
		return false, nil
	}

	var cycles [][]string
	visited := make(map[string]bool)
	inStack := make(map[string]bool)
	var path []string
	var statePath []string

	var dfs func(s *State)
	dfs = func(s *State) {
		visited[s.Hash] = true
		inStack[s.Hash] = true
		statePath = append(statePath, s.Hash)

		for _, edge := range s.Successors {
			path = append(path, edge.Transition)
			if !visited[edge.To.Hash] {
				dfs(edge.To)
			} else if inStack[edge.To.Hash] {
				cycleStart := -1
				for i, h := range statePath {
					if h == edge.To.Hash {
						cycleStart = i
						break
					}
				}
				if cycleStart >= 0 {
					cycle := make([]string, len(path)-cycleStart)
					copy(cycle, path[cycleStart:])
					cycles = append(cycles, cycle)
				}
			}
			path = path[:len(path)-1]
		}

		inStack[s.Hash] = false
		statePath = statePath[:len(statePath)-1]
	}

	dfs(sg.Root)
	return len(cycles) > 0, cycles
}

// analyzeLiveness records which transitions fired at least once during
// exploration and, when exploration was not truncated, marks every
// transition that never fired as dead (it can never fire from the initial
// marking). Grounded on reachability/analyzer.go's analyzeLiveness, minus
// the truncated-analysis "potentially dead" bookkeeping (see Analyzer's
// doc comment).
func (a *Analyzer) analyzeLiveness(sg *StateGraph, result *AnalysisResult) {
	fired := make(map[string]bool)
	for _, e := range sg.Edges {
		fired[e.Transition] = true
	}
	for name := range fired {
		result.FiredTransitions = append(result.FiredTransitions, name)
	}
	sort.Strings(result.FiredTransitions)

	var dead []string
	for _, t := range a.graph.Transitions {
		if !fired[t.Name] {
			dead = append(dead, t.Name)
		}
	}
	sort.Strings(dead)

	if result.Truncated {
		result.Live = false
		return
	}
	result.DeadTransitions = dead
	result.Live = len(dead) == 0
}

// IsReachable reports whether target is some state's marking in the fully
// explored state space.
func (a *Analyzer) IsReachable(target Marking) bool {
	result := a.BuildGraph()
	return result.Graph.GetState(target) != nil
}

// PathTo returns a firing sequence from the initial marking to target, or
// nil if target is unreachable within maxStates. Grounded on
// reachability/analyzer.go's PathTo.
func (a *Analyzer) PathTo(target Marking) []string {
	sg := NewStateGraph(a.graph, a.initial)

	type queueItem struct {
		marking Marking
		path    []string
	}

	queue := []queueItem{{a.initial, nil}}
	visited := map[string]bool{a.initial.Hash(): true}
	targetHash := target.Hash()

	for len(queue) > 0 && len(visited) < a.maxStates {
		item := queue[0]
		queue = queue[1:]

		if item.marking.Hash() == targetHash {
			return item.path
		}

		state := sg.AddState(item.marking)
		for _, trans := range state.Enabled {
			next := sg.Fire(item.marking, trans)
			if next == nil {
				continue
			}
			hash := next.Hash()
			if visited[hash] {
				continue
			}
			visited[hash] = true
			newPath := make([]string, len(item.path)+1)
			copy(newPath, item.path)
			newPath[len(item.path)] = trans
			queue = append(queue, queueItem{next, newPath})
		}
	}
	return nil
}

// CanReach performs a read-only, bounded-depth BFS over token *counts*,
// asking whether some sequence of at most maxFirings firings could bring
// g's places to the counts named in target. It never invokes a transition's
// Function and never mutates g. This is a thin convenience distinct from
// Analyzer: maxFirings bounds the depth of any one branch (a path-length
// budget), whereas Analyzer.WithMaxStates bounds the total size of the
// explored state space — the two parameters answer different questions
// ("can I get there in N steps or fewer" vs. "explore the whole reachable
// space, up to N states") so CanReach keeps its own small BFS rather than
// being rewritten atop Analyzer.
func CanReach(g *petrinet.Graph, target map[string]int, maxFirings int) bool {
	idx := graphindex.Build(g)

	start := markingOf(g)
	if matchesTarget(start, target) {
		return true
	}

	type step struct {
		marking Marking
		steps   int
	}

	visited := map[string]bool{start.Hash(): true}
	queue := []step{{marking: start, steps: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.steps >= maxFirings {
			continue
		}
		for _, t := range g.Transitions {
			if !transitionEnabled(idx, cur.marking, t) {
				continue
			}
			next := applyMarking(idx, cur.marking, t)
			hash := next.Hash()
			if visited[hash] {
				continue
			}
			visited[hash] = true
			if matchesTarget(next, target) {
				return true
			}
			queue = append(queue, step{marking: next, steps: cur.steps + 1})
		}
	}
	return false
}

func transitionEnabled(idx *graphindex.Index, m Marking, t *petrinet.Transition) bool {
	for _, e := range idx.ArgEdges(t.Name) {
		if m[e.PlaceName] == 0 {
			return false
		}
	}
	return true
}

func applyMarking(idx *graphindex.Index, m Marking, t *petrinet.Transition) Marking {
	next := m.Copy()
	for _, e := range idx.ArgEdges(t.Name) {
		next[e.PlaceName]--
	}
	for _, e := range idx.ReturnEdges(t.Name) {
		next[e.PlaceName]++
	}
	return next
}

func matchesTarget(m Marking, target map[string]int) bool {
	for k, v := range target {
		if m[k] != v {
			return false
		}
	}
	return true
}
