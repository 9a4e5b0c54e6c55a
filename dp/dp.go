// Package dp solves finite MDPs with known dynamics by dynamic programming:
// policy evaluation, policy improvement, policy iteration and value iteration.
// Parameter validation is centralized in Solver.Validate.
//
// Package dp は遷移モデルが既知の有限MDPを動的計画法で解きます。
// パラメータのバリデーションは Solver.Validate に集約されています。
package dp

import (
	"fmt"
	"math"

	"github.com/sw965/mdp"
)

const (
	DefaultDiscountFactor = 1.0
	DefaultTheta          = 0.00001
	DefaultMaxSweeps      = 100000
	DefaultMaxIterations  = 1000
)

type Solver struct {
	DiscountFactor float64
	// Theta is the convergence threshold on the sup-norm change of V in one sweep.
	Theta float64
	// MaxSweeps caps every evaluation or value iteration loop. 0 means DefaultMaxSweeps.
	MaxSweeps int
	// MaxIterations caps the evaluate/improve rounds of policy iteration. 0 means DefaultMaxIterations.
	MaxIterations int
	Observer      Observer
}

func New() Solver {
	return Solver{
		DiscountFactor: DefaultDiscountFactor,
		Theta:          DefaultTheta,
	}
}

func (s Solver) Validate() error {
	if math.IsNaN(s.DiscountFactor) || s.DiscountFactor < 0 || s.DiscountFactor > 1 {
		return fmt.Errorf("%w: discount factor %v not in [0,1]", mdp.ErrInvalidParameter, s.DiscountFactor)
	}
	if math.IsNaN(s.Theta) || s.Theta <= 0 {
		return fmt.Errorf("%w: theta %v must be positive", mdp.ErrInvalidParameter, s.Theta)
	}
	if s.MaxSweeps < 0 {
		return fmt.Errorf("%w: max sweeps %d is negative", mdp.ErrInvalidParameter, s.MaxSweeps)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d is negative", mdp.ErrInvalidParameter, s.MaxIterations)
	}
	return nil
}

func (s Solver) maxSweeps() int {
	if s.MaxSweeps == 0 {
		return DefaultMaxSweeps
	}
	return s.MaxSweeps
}

func (s Solver) maxIterations() int {
	if s.MaxIterations == 0 {
		return DefaultMaxIterations
	}
	return s.MaxIterations
}

func (s Solver) validateCall(m mdp.Model) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return mdp.ValidateModel(m)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
