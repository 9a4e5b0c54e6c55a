package mdp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Policy is a row-stochastic [nS, nA] matrix. Row s is the action distribution of state s.
type Policy struct {
	*mat.Dense
}

func NewUniformPolicy(nS, nA int) Policy {
	data := make([]float64, nS*nA)
	floats.AddConst(1.0/float64(nA), data)
	return Policy{mat.NewDense(nS, nA, data)}
}

// NewDeterministicPolicy returns the one-hot policy selecting actions[s] in state s.
func NewDeterministicPolicy(actions []int, nA int) (Policy, error) {
	nS := len(actions)
	if nS == 0 || nA <= 0 {
		return Policy{}, fmt.Errorf("%w: nS=%d nA=%d (both must be positive)", ErrInvalidParameter, nS, nA)
	}
	p := Policy{mat.NewDense(nS, nA, nil)}
	for s, a := range actions {
		if a < 0 || a >= nA {
			return Policy{}, fmt.Errorf("%w: s=%d action %d out of range [0,%d)", ErrInvalidParameter, s, a, nA)
		}
		p.Set(s, a, 1.0)
	}
	return p, nil
}

// Validate checks the shape and that every row is a probability distribution.
func (p Policy) Validate(nS, nA int) error {
	if p.Dense == nil {
		return fmt.Errorf("%w: policy is nil", ErrInvalidParameter)
	}
	r, c := p.Dims()
	if r != nS || c != nA {
		return fmt.Errorf("%w: policy shape [%d,%d], want [%d,%d]", ErrInvalidParameter, r, c, nS, nA)
	}
	for s := 0; s < r; s++ {
		row := p.RawRowView(s)
		for a, x := range row {
			if !isFinite(x) || x < 0 {
				return fmt.Errorf("%w: policy[%d][%d] = %v", ErrInvalidParameter, s, a, x)
			}
		}
		if sum := floats.Sum(row); math.Abs(sum-1.0) > ProbTolerance {
			return fmt.Errorf("%w: policy row %d sums to %v", ErrInvalidParameter, s, sum)
		}
	}
	return nil
}

// Action returns the most probable action of s, the lowest index on ties.
func (p Policy) Action(s int) int {
	return Argmax(p.RawRowView(s))
}

// Greedy returns Action(s) for every state.
func (p Policy) Greedy() []int {
	r, _ := p.Dims()
	actions := make([]int, r)
	for s := range actions {
		actions[s] = p.Action(s)
	}
	return actions
}

func (p Policy) Clone() Policy {
	return Policy{mat.DenseCopyOf(p.Dense)}
}

// SetOneHot overwrites row s with the distribution selecting a with certainty.
func (p Policy) SetOneHot(s, a int) {
	row := p.RawRowView(s)
	for i := range row {
		row[i] = 0
	}
	row[a] = 1.0
}
