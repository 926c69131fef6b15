package core

import "sort"

// DependencyAnalysis is the result of analysing one project's target
// definitions, per spec §4.2.
type DependencyAnalysis struct {
	NonExistentDependencies []MissingDependency
	CircularDependencies    []Cycle
	Walk                    []string // topological order; unusable if CircularDependencies is non-empty
}

// MissingDependency records a (target, missing_name) pair where
// missing_name is not a key of the target mapping.
type MissingDependency struct {
	Target  string
	Missing string
}

// Cycle is a dependency cycle reported by its participating edges, in the
// order they were walked.
type Cycle []string

func (c Cycle) String() string {
	s := ""
	for i, name := range c {
		if i > 0 {
			s += " -> "
		}
		s += name
	}
	return s
}

// color marks DFS visitation state for the three-colour cycle-detection
// algorithm of spec §4.2.
type color int

const (
	white color = iota // unseen
	grey               // in-stack
	black              // done
)

// AnalyseDependencies runs the dependency analyser of spec §4.2 over a
// project's target definitions: it records any reference to a
// non-existent target, detects cycles via depth-first three-colour
// marking, and produces a topological walk (ties broken by the order of
// names in order) where every dependency precedes its dependants.
//
// When circular dependencies are found, Walk is not meaningful and callers
// must abort before building anything (spec invariant 2).
func AnalyseDependencies(order []string, targets map[string]TargetConfig) DependencyAnalysis {
	var analysis DependencyAnalysis

	seenMissing := map[MissingDependency]bool{}
	for _, name := range order {
		for _, dep := range targets[name].Dependencies {
			if _, ok := targets[dep]; !ok {
				md := MissingDependency{Target: name, Missing: dep}
				if !seenMissing[md] {
					seenMissing[md] = true
					analysis.NonExistentDependencies = append(analysis.NonExistentDependencies, md)
				}
			}
		}
	}
	sort.Slice(analysis.NonExistentDependencies, func(i, j int) bool {
		a, b := analysis.NonExistentDependencies[i], analysis.NonExistentDependencies[j]
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Missing < b.Missing
	})

	if len(analysis.NonExistentDependencies) > 0 {
		// The walk is meaningless once references are dangling; the caller
		// aborts on NonExistentDependencies before ever consulting it.
		return analysis
	}

	colors := make(map[string]color, len(order))
	var postOrder []string
	var path []string

	var visit func(name string) bool // returns true if a cycle was found (and recorded)
	visit = func(name string) bool {
		colors[name] = grey
		path = append(path, name)
		for _, dep := range targets[name].Dependencies {
			switch colors[dep] {
			case grey:
				// Found the cycle: the suffix of path from dep's first
				// occurrence back round to dep again.
				start := indexOf(path, dep)
				cycle := append(append(Cycle{}, path[start:]...), dep)
				analysis.CircularDependencies = append(analysis.CircularDependencies, cycle)
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		colors[name] = black
		postOrder = append(postOrder, name)
		return false
	}

	for _, name := range order {
		if colors[name] == white {
			if visit(name) {
				break // stop at the first cycle found; the walk is unusable either way
			}
		}
	}

	if len(analysis.CircularDependencies) > 0 {
		return analysis
	}

	// The DFS follows dependency edges and emits a node only once all of its
	// dependencies are done, so postOrder already lists dependencies before
	// dependants, with roots visited in the order given.
	analysis.Walk = postOrder
	return analysis
}

func indexOf(s []string, v string) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}
