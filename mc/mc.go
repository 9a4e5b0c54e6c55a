// Package mc estimates state values of a fixed behaviour from sampled episodes.
package mc

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sw965/mdp"
	"github.com/sw965/mdp/sim"
)

type Visit int

const (
	// FirstVisit は各エピソードで最初に訪れた時点のリターンのみを使う
	FirstVisit Visit = iota
	// EveryVisit は訪れた全ての時点のリターンを使う
	EveryVisit
)

func (v Visit) String() string {
	switch v {
	case FirstVisit:
		return "first-visit"
	case EveryVisit:
		return "every-visit"
	}
	return fmt.Sprintf("Visit(%d)", int(v))
}

type Predictor struct {
	DiscountFactor float64
	Episodes       int
	MaxSteps       int
	Visit          Visit
}

func (p Predictor) Validate() error {
	if math.IsNaN(p.DiscountFactor) || p.DiscountFactor < 0 || p.DiscountFactor > 1 {
		return fmt.Errorf("%w: discount factor %v not in [0,1]", mdp.ErrInvalidParameter, p.DiscountFactor)
	}
	if p.Episodes <= 0 {
		return fmt.Errorf("%w: episodes %d must be positive", mdp.ErrInvalidParameter, p.Episodes)
	}
	if p.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps %d must be positive", mdp.ErrInvalidParameter, p.MaxSteps)
	}
	if p.Visit != FirstVisit && p.Visit != EveryVisit {
		return fmt.Errorf("%w: %v", mdp.ErrInvalidParameter, p.Visit)
	}
	return nil
}

// Predict averages the sampled returns of every state. Unvisited states keep the value 0
// and a count of 0.
func (p Predictor) Predict(env sim.Env, actor sim.Actor, rng *rand.Rand) ([]float64, []int, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if err := env.Validate(); err != nil {
		return nil, nil, err
	}

	v := make([]float64, env.NumStates)
	counts := make([]int, env.NumStates)
	seen := make([]bool, env.NumStates)

	for i := 0; i < p.Episodes; i++ {
		ep, err := sim.Playout(env, actor, p.MaxSteps, rng)
		if err != nil {
			return nil, nil, fmt.Errorf("episode %d: %w", i, err)
		}
		gs := sim.Returns(ep, p.DiscountFactor)
		clear(seen)
		for t, step := range ep {
			s := step.State
			if p.Visit == FirstVisit {
				if seen[s] {
					continue
				}
				seen[s] = true
			}
			// 逐次平均: V(s) ← V(s) + (G - V(s)) / N(s)
			counts[s]++
			v[s] += (gs[t] - v[s]) / float64(counts[s])
		}
	}
	return v, counts, nil
}
