// Package mdp provides the finite Markov decision process types shared by the solvers.
// A Model is read-only from the solvers' point of view.
//
// Package mdp は各ソルバーが共有する有限マルコフ決定過程の型を提供します。
// Model はソルバーから見て読み取り専用です。
package mdp

import (
	"errors"
	"math"
)

var (
	ErrInvalidModel     = errors.New("invalid model")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNonConvergence   = errors.New("non convergence")
)

// ProbTolerance は確率の合計が1であるかを判定する際の許容誤差
const ProbTolerance = 1e-6

type Transition struct {
	Prob   float64
	Next   int
	Reward float64
	Done   bool
}

// Model exposes the dynamics of a finite MDP.
// Transitions must not be modified by the caller.
type Model interface {
	NumStates() int
	NumActions() int
	Transitions(s, a int) []Transition
}

// Lookahead returns Σ p * (r + gamma * v[s']) for the pair (s, a).
func Lookahead(m Model, v []float64, s, a int, gamma float64) float64 {
	var q float64
	for _, t := range m.Transitions(s, a) {
		q += t.Prob * (t.Reward + gamma*v[t.Next])
	}
	return q
}

// ActionValues writes the lookahead of every action of s into dst and returns it.
// dst is allocated when it is shorter than NumActions.
func ActionValues(m Model, v []float64, s int, gamma float64, dst []float64) []float64 {
	nA := m.NumActions()
	if len(dst) < nA {
		dst = make([]float64, nA)
	}
	dst = dst[:nA]
	for a := range dst {
		dst[a] = Lookahead(m, v, s, a, gamma)
	}
	return dst
}

// Argmax returns the index of the largest element. Ties go to the lowest index.
// It returns -1 for an empty slice.
func Argmax(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	idx := 0
	max := xs[0]
	for i, x := range xs[1:] {
		if x > max {
			max = x
			idx = i + 1
		}
	}
	return idx
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
