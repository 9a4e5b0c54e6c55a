package dp

import (
	"fmt"

	"github.com/sw965/mdp"
	"gonum.org/v1/gonum/mat"
)

// Improve returns the policy greedy with respect to v together with the action values Q.
// Ties are broken toward the lowest action index.
func (s Solver) Improve(m mdp.Model, v []float64) (mdp.Policy, *mat.Dense, error) {
	if err := s.validateCall(m); err != nil {
		return mdp.Policy{}, nil, err
	}
	if len(v) != m.NumStates() {
		return mdp.Policy{}, nil, fmt.Errorf("%w: len(v)=%d, want %d", mdp.ErrInvalidParameter, len(v), m.NumStates())
	}
	for st, x := range v {
		if !isFinite(x) {
			return mdp.Policy{}, nil, fmt.Errorf("%w: v[%d] = %v", mdp.ErrInvalidParameter, st, x)
		}
	}
	policy, q := improve(m, v, s.DiscountFactor)
	return policy, q, nil
}

func improve(m mdp.Model, v []float64, gamma float64) (mdp.Policy, *mat.Dense) {
	nS, nA := m.NumStates(), m.NumActions()
	q := mat.NewDense(nS, nA, nil)
	policy := mdp.Policy{Dense: mat.NewDense(nS, nA, nil)}
	for st := 0; st < nS; st++ {
		row := mdp.ActionValues(m, v, st, gamma, q.RawRowView(st))
		policy.SetOneHot(st, mdp.Argmax(row))
	}
	return policy, q
}
