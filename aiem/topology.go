package aiem

import "sort"

// Topology lists the interacting neighbours of every chromophore.
type Topology [][]int

// NewTopology returns nearest neighbours on a chain of n chromophores,
// closing the chain into a ring when cyclic.
func NewTopology(n int, cyclic bool) Topology {
	t := make(Topology, n)
	for a := 0; a < n; a++ {
		var candidates []int
		switch {
		case a > 0:
			candidates = append(candidates, a-1)
		case cyclic:
			candidates = append(candidates, n-1)
		}
		switch {
		case a < n-1:
			candidates = append(candidates, a+1)
		case cyclic:
			candidates = append(candidates, 0)
		}
		t[a] = uniqueNeighbors(a, candidates)
	}
	return t
}

func uniqueNeighbors(a int, candidates []int) []int {
	ns := make([]int, 0, len(candidates))
	for _, b := range candidates {
		if b == a || contains(ns, b) {
			continue
		}
		ns = append(ns, b)
	}
	sort.Ints(ns)
	return ns
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func (t Topology) N() int {
	return len(t)
}

func (t Topology) Neighbors(a int) []int {
	return t[a]
}

// Pairs returns every interacting unordered pair once, lower index first.
func (t Topology) Pairs() [][2]int {
	var ps [][2]int
	for a, ns := range t {
		for _, b := range ns {
			if a < b {
				ps = append(ps, [2]int{a, b})
			}
		}
	}
	return ps
}
