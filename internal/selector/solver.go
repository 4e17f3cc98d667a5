package selector

import "math"

// boundEpsilon absorbs floating-point drift when comparing partial sums
// against constraint bounds.
const boundEpsilon = 1e-9

// The weekly selection problem is a small bounded integer program: a few
// dozen serving-count variables, eight linear constraints, min-cost
// objective. solve runs a depth-first branch and bound over the serving
// counts directly. All constraint coefficients are non-negative, which keeps
// the pruning rules simple: partial sums only grow, so an upper bound
// violated mid-branch stays violated, and a lower bound is pruned as soon as
// the remaining capacity cannot reach it.

type variable struct {
	cost float64
	cap  int
}

type constraint struct {
	coeffs []float64 // one per variable, all >= 0
	lower  float64   // -Inf when absent
	upper  float64   // +Inf when absent
}

type model struct {
	vars []variable
	cons []constraint
}

type solveResult struct {
	values    []int
	found     bool
	nodeLimit bool // search was cut off before completing
}

// solve searches for a min-cost integer assignment. Variables are explored
// cheapest-first and each variable's domain highest-count-first, so the
// ">= total servings" style constraints are met early with cheap recipes and
// the incumbent converges quickly. nodeLimit caps the number of visited
// search nodes; when it trips, the best incumbent found so far (if any) is
// returned.
func solve(m model, nodeLimit int) solveResult {
	n := len(m.vars)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Stable insertion sort by cost keeps equal-cost recipes in input order.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && m.vars[order[j]].cost < m.vars[order[j-1]].cost; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	// remaining[c][p] = max additional contribution to constraint c from
	// variables at position p onward in the search order.
	remaining := make([][]float64, len(m.cons))
	for ci, c := range m.cons {
		remaining[ci] = make([]float64, n+1)
		for p := n - 1; p >= 0; p-- {
			v := order[p]
			remaining[ci][p] = remaining[ci][p+1] + c.coeffs[v]*float64(m.vars[v].cap)
		}
	}

	s := &searchState{
		m:         m,
		order:     order,
		remaining: remaining,
		partial:   make([]float64, len(m.cons)),
		values:    make([]int, n),
		bestCost:  math.Inf(1),
		nodeCap:   nodeLimit,
	}
	s.descend(0, 0)

	return solveResult{values: s.best, found: s.best != nil, nodeLimit: s.nodes >= s.nodeCap}
}

type searchState struct {
	m         model
	order     []int
	remaining [][]float64
	partial   []float64
	values    []int

	best     []int
	bestCost float64
	nodes    int
	nodeCap  int
}

func (s *searchState) descend(pos int, cost float64) {
	if s.nodes >= s.nodeCap {
		return
	}
	s.nodes++

	if cost >= s.bestCost {
		return
	}
	for ci, c := range s.m.cons {
		if s.partial[ci] > c.upper+boundEpsilon {
			return
		}
		if s.partial[ci]+s.remaining[ci][pos] < c.lower-boundEpsilon {
			return
		}
	}

	if pos == len(s.order) {
		s.best = append([]int(nil), s.values...)
		s.bestCost = cost
		return
	}

	v := s.order[pos]
	for count := s.m.vars[v].cap; count >= 0; count-- {
		s.values[v] = count
		for ci, c := range s.m.cons {
			s.partial[ci] += c.coeffs[v] * float64(count)
		}
		s.descend(pos+1, cost+s.m.vars[v].cost*float64(count))
		for ci, c := range s.m.cons {
			s.partial[ci] -= c.coeffs[v] * float64(count)
		}
	}
	s.values[v] = 0
}
