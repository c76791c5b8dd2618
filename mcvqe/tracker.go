package mcvqe

import (
	"math"
	"sync"
)

// Tracker keeps the per-state energies of the iteration with the lowest
// average energy seen so far.
type Tracker struct {
	mu        sync.Mutex
	best      float64
	diagonal  []float64
	params    []float64
	committed bool
	depth     int
	nGates    int
	evals     int
}

func NewTracker(nStates int) *Tracker {
	return &Tracker{
		best:     math.Inf(1),
		diagonal: make([]float64, nStates),
	}
}

// Commit stores energies when average is strictly lower than the best so
// far and reports whether it did.
func (t *Tracker) Commit(average float64, energies, x []float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evals++
	if !(average < t.best) {
		return false
	}
	t.best = average
	copy(t.diagonal, energies)
	t.params = append(t.params[:0], x...)
	t.committed = true
	return true
}

func (t *Tracker) setCircuit(depth, nGates int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.depth, t.nGates = depth, nGates
}

func (t *Tracker) Best() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.best
}

// Diagonal returns a copy of the committed energies, nil before the first
// commit.
func (t *Tracker) Diagonal() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.committed {
		return nil
	}
	return append([]float64(nil), t.diagonal...)
}

func (t *Tracker) Params() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]float64(nil), t.params...)
}

func (t *Tracker) Circuit() (depth, nGates int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.depth, t.nGates
}

func (t *Tracker) Evaluations() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.evals
}
