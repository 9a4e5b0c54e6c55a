package dp

import (
	"fmt"
	"math"
	"slices"

	"github.com/sw965/mdp"
	"gonum.org/v1/gonum/floats"
)

// Evaluate computes the value function of policy by synchronous sweeps starting from V = 0.
// Every sweep reads only the values of the previous sweep.
func (s Solver) Evaluate(m mdp.Model, policy mdp.Policy) ([]float64, error) {
	if err := s.validateCall(m); err != nil {
		return nil, err
	}
	if err := policy.Validate(m.NumStates(), m.NumActions()); err != nil {
		return nil, err
	}
	return s.evaluate(m, policy, 0)
}

func (s Solver) evaluate(m mdp.Model, policy mdp.Policy, iteration int) ([]float64, error) {
	nS := m.NumStates()
	gamma := s.DiscountFactor
	v := make([]float64, nS)
	next := make([]float64, nS)
	inf := math.Inf(1)

	maxSweeps := s.maxSweeps()
	for sweep := 1; sweep <= maxSweeps; sweep++ {
		for st := 0; st < nS; st++ {
			var vs float64
			for a, pa := range policy.RawRowView(st) {
				// 確率0の行動は寄与しない。発散した値との積でNaNになるのを避ける
				if pa == 0 {
					continue
				}
				vs += pa * mdp.Lookahead(m, v, st, a, gamma)
			}
			next[st] = vs
		}

		delta := floats.Distance(next, v, inf)
		v, next = next, v
		s.Observer.sweep(func() Sweep {
			return Sweep{Phase: PhaseEvaluation, Iteration: iteration, Sweep: sweep, Delta: delta, V: slices.Clone(v)}
		})

		if !isFinite(delta) {
			return nil, fmt.Errorf("%w: policy evaluation diverged at sweep %d (delta=%v)", mdp.ErrNonConvergence, sweep, delta)
		}
		if delta < s.Theta {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: policy evaluation did not reach theta=%v within %d sweeps", mdp.ErrNonConvergence, s.Theta, maxSweeps)
}
