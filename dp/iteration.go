package dp

import (
	"fmt"
	"math"
	"slices"

	"github.com/sw965/mdp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type PolicyIterationResult struct {
	Policy     mdp.Policy
	V          []float64
	Q          *mat.Dense
	Iterations int
}

// PolicyIteration alternates evaluation and improvement from the uniform random policy
// until no state changes its greedy action.
func (s Solver) PolicyIteration(m mdp.Model) (PolicyIterationResult, error) {
	if err := s.validateCall(m); err != nil {
		return PolicyIterationResult{}, err
	}

	nS, nA := m.NumStates(), m.NumActions()
	policy := mdp.NewUniformPolicy(nS, nA)
	maxIterations := s.maxIterations()

	for it := 1; it <= maxIterations; it++ {
		v, err := s.evaluate(m, policy, it)
		if err != nil {
			return PolicyIterationResult{}, fmt.Errorf("policy iteration %d: %w", it, err)
		}

		candidate, q := improve(m, v, s.DiscountFactor)
		changed := 0
		for st := 0; st < nS; st++ {
			if candidate.Action(st) != policy.Action(st) || !isOneHot(policy.RawRowView(st)) {
				changed++
			}
		}

		s.Observer.improve(func() Improvement {
			return Improvement{Iteration: it, Changed: changed, Policy: candidate.Clone(), V: slices.Clone(v)}
		})

		if changed == 0 {
			return PolicyIterationResult{Policy: candidate, V: v, Q: q, Iterations: it}, nil
		}
		policy = candidate
	}
	return PolicyIterationResult{}, fmt.Errorf("%w: policy still changing after %d iterations", mdp.ErrNonConvergence, maxIterations)
}

// 初期方策のような確率的な行は、argmaxが一致しても改善前後で同じ方策とは見做さない
func isOneHot(row []float64) bool {
	a := mdp.Argmax(row)
	for i, x := range row {
		if i == a {
			if x != 1 {
				return false
			}
		} else if x != 0 {
			return false
		}
	}
	return true
}

type ValueIterationResult struct {
	Policy mdp.Policy
	V      []float64
	Sweeps int
}

// ValueIteration applies the Bellman optimality backup in synchronous sweeps.
// The policy row of a state is set to the argmax action in the same sweep as its value.
func (s Solver) ValueIteration(m mdp.Model) (ValueIterationResult, error) {
	if err := s.validateCall(m); err != nil {
		return ValueIterationResult{}, err
	}

	nS, nA := m.NumStates(), m.NumActions()
	gamma := s.DiscountFactor
	v := make([]float64, nS)
	next := make([]float64, nS)
	qs := make([]float64, nA)
	policy := mdp.Policy{Dense: mat.NewDense(nS, nA, nil)}
	inf := math.Inf(1)

	maxSweeps := s.maxSweeps()
	for sweep := 1; sweep <= maxSweeps; sweep++ {
		for st := 0; st < nS; st++ {
			qs = mdp.ActionValues(m, v, st, gamma, qs)
			a := mdp.Argmax(qs)
			next[st] = qs[a]
			policy.SetOneHot(st, a)
		}

		delta := floats.Distance(next, v, inf)
		v, next = next, v
		s.Observer.sweep(func() Sweep {
			return Sweep{Phase: PhaseValueIteration, Sweep: sweep, Delta: delta, V: slices.Clone(v)}
		})

		if !isFinite(delta) {
			return ValueIterationResult{}, fmt.Errorf("%w: value iteration diverged at sweep %d (delta=%v)", mdp.ErrNonConvergence, sweep, delta)
		}
		if delta < s.Theta {
			return ValueIterationResult{Policy: policy, V: v, Sweeps: sweep}, nil
		}
	}
	return ValueIterationResult{}, fmt.Errorf("%w: value iteration did not reach theta=%v within %d sweeps", mdp.ErrNonConvergence, s.Theta, maxSweeps)
}
