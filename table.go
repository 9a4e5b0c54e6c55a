package mdp

import (
	"fmt"
	"math"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// Table is an explicit in-memory Model. P[s][a] holds the transitions of (s, a).
type Table struct {
	nS int
	nA int
	P  [][][]Transition
}

func NewTable(nS, nA int) (*Table, error) {
	if nS <= 0 || nA <= 0 {
		return nil, fmt.Errorf("%w: nS=%d nA=%d (both must be positive)", ErrInvalidModel, nS, nA)
	}
	p := make([][][]Transition, nS)
	for s := range p {
		p[s] = make([][]Transition, nA)
	}
	return &Table{nS: nS, nA: nA, P: p}, nil
}

func (t *Table) NumStates() int {
	return t.nS
}

func (t *Table) NumActions() int {
	return t.nA
}

func (t *Table) Transitions(s, a int) []Transition {
	return t.P[s][a]
}

// Set replaces the transitions of (s, a). The entries are copied.
func (t *Table) Set(s, a int, ts ...Transition) error {
	if s < 0 || s >= t.nS {
		return fmt.Errorf("%w: state %d out of range [0,%d)", ErrInvalidModel, s, t.nS)
	}
	if a < 0 || a >= t.nA {
		return fmt.Errorf("%w: action %d out of range [0,%d)", ErrInvalidModel, a, t.nA)
	}
	t.P[s][a] = slices.Clone(ts)
	return nil
}

// TableOf copies the dynamics of m into a Table.
func TableOf(m Model) (*Table, error) {
	t, err := NewTable(m.NumStates(), m.NumActions())
	if err != nil {
		return nil, err
	}
	for s := 0; s < t.nS; s++ {
		for a := 0; a < t.nA; a++ {
			t.P[s][a] = slices.Clone(m.Transitions(s, a))
		}
	}
	return t, nil
}

// ValidateModel checks every (s, a) pair of m and reports all problems at once.
// The returned error matches ErrInvalidModel.
func ValidateModel(m Model) error {
	if m == nil {
		return fmt.Errorf("%w: model is nil", ErrInvalidModel)
	}
	nS, nA := m.NumStates(), m.NumActions()
	if nS <= 0 || nA <= 0 {
		return fmt.Errorf("%w: nS=%d nA=%d (both must be positive)", ErrInvalidModel, nS, nA)
	}

	var result *multierror.Error
	for s := 0; s < nS; s++ {
		for a := 0; a < nA; a++ {
			ts := m.Transitions(s, a)
			if len(ts) == 0 {
				result = multierror.Append(result, fmt.Errorf("s=%d a=%d: no transitions", s, a))
				continue
			}

			var sum float64
			for i, t := range ts {
				if !isFinite(t.Prob) || t.Prob < 0 || t.Prob > 1 {
					result = multierror.Append(result, fmt.Errorf("s=%d a=%d idx=%d: probability %v not in [0,1]", s, a, i, t.Prob))
				}
				if t.Next < 0 || t.Next >= nS {
					result = multierror.Append(result, fmt.Errorf("s=%d a=%d idx=%d: next state %d out of range [0,%d)", s, a, i, t.Next, nS))
				}
				if !isFinite(t.Reward) {
					result = multierror.Append(result, fmt.Errorf("s=%d a=%d idx=%d: reward %v is not finite", s, a, i, t.Reward))
				}
				sum += t.Prob
			}

			if math.Abs(sum-1.0) > ProbTolerance {
				result = multierror.Append(result, fmt.Errorf("s=%d a=%d: probabilities sum to %v", s, a, sum))
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	return nil
}
