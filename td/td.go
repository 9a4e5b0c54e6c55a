// Package td implements tabular temporal-difference control: SARSA and Q-learning.
package td

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sw965/mdp"
	"github.com/sw965/mdp/sim"
	"github.com/sw965/omw/mathx/randx"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// UpdateQ moves q toward the TD target reward + discountRate * nextQ by the step size lr.
func UpdateQ(q, nextQ, reward, lr, discountRate float64) float64 {
	qRatio := 1.0 - lr
	target := reward + discountRate*nextQ
	return (qRatio * q) + (lr * target)
}

// EpsilonGreedy returns the action distribution that spreads epsilon uniformly and gives the
// rest to the greedy action (lowest index on ties).
func EpsilonGreedy(qs []float64, epsilon float64) []float32 {
	n := len(qs)
	ps := make([]float32, n)
	e := float32(epsilon) / float32(n)
	for i := range ps {
		ps[i] = e
	}
	ps[mdp.Argmax(qs)] += float32(1.0 - epsilon)
	return ps
}

// Stats holds the length and the undiscounted reward of every training episode.
type Stats struct {
	Lengths []int
	Rewards []float64
}

type Learner struct {
	DiscountFactor float64
	Alpha          float64
	Epsilon        float64
	Episodes       int
	MaxSteps       int
}

func New() Learner {
	return Learner{DiscountFactor: 1.0, Alpha: 0.5, Epsilon: 0.1, Episodes: 300, MaxSteps: 100000}
}

func (l Learner) Validate() error {
	if math.IsNaN(l.DiscountFactor) || l.DiscountFactor < 0 || l.DiscountFactor > 1 {
		return fmt.Errorf("%w: discount factor %v not in [0,1]", mdp.ErrInvalidParameter, l.DiscountFactor)
	}
	if math.IsNaN(l.Alpha) || l.Alpha <= 0 || l.Alpha > 1 {
		return fmt.Errorf("%w: alpha %v not in (0,1]", mdp.ErrInvalidParameter, l.Alpha)
	}
	if math.IsNaN(l.Epsilon) || l.Epsilon < 0 || l.Epsilon > 1 {
		return fmt.Errorf("%w: epsilon %v not in [0,1]", mdp.ErrInvalidParameter, l.Epsilon)
	}
	if l.Episodes <= 0 {
		return fmt.Errorf("%w: episodes %d must be positive", mdp.ErrInvalidParameter, l.Episodes)
	}
	if l.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps %d must be positive", mdp.ErrInvalidParameter, l.MaxSteps)
	}
	return nil
}

func (l Learner) selectAction(q *mat.Dense, s int, rng *rand.Rand) (int, error) {
	return randx.IntByWeight(EpsilonGreedy(q.RawRowView(s), l.Epsilon), rng)
}

type targetFunc func(q *mat.Dense, next, nextAction int) float64

// SARSA is on-policy TD control: the target uses the action actually taken next.
func (l Learner) SARSA(env sim.Env, rng *rand.Rand) (*mat.Dense, Stats, error) {
	return l.learn(env, rng, func(q *mat.Dense, next, nextAction int) float64 {
		return q.At(next, nextAction)
	})
}

// QLearning is off-policy TD control: the target uses the greedy value of the next state.
func (l Learner) QLearning(env sim.Env, rng *rand.Rand) (*mat.Dense, Stats, error) {
	return l.learn(env, rng, func(q *mat.Dense, next, _ int) float64 {
		return floats.Max(q.RawRowView(next))
	})
}

func (l Learner) learn(env sim.Env, rng *rand.Rand, target targetFunc) (*mat.Dense, Stats, error) {
	if err := l.Validate(); err != nil {
		return nil, Stats{}, err
	}
	if err := env.Validate(); err != nil {
		return nil, Stats{}, err
	}

	q := mat.NewDense(env.NumStates, env.NumActions, nil)
	stats := Stats{
		Lengths: make([]int, l.Episodes),
		Rewards: make([]float64, l.Episodes),
	}

	for i := 0; i < l.Episodes; i++ {
		s, err := env.ResetFunc(rng)
		if err != nil {
			return nil, Stats{}, err
		}
		a, err := l.selectAction(q, s, rng)
		if err != nil {
			return nil, Stats{}, err
		}

		for step := 0; ; step++ {
			if step >= l.MaxSteps {
				return nil, Stats{}, fmt.Errorf("episode %d: %w: maxSteps=%d", i, sim.ErrEpisodeTooLong, l.MaxSteps)
			}

			t, err := env.StepFunc(s, a, rng)
			if err != nil {
				return nil, Stats{}, err
			}
			nextA, err := l.selectAction(q, t.Next, rng)
			if err != nil {
				return nil, Stats{}, err
			}

			// 終端への遷移では次状態の価値をブートストラップしない
			nextQ := 0.0
			if !t.Done {
				nextQ = target(q, t.Next, nextA)
			}
			q.Set(s, a, UpdateQ(q.At(s, a), nextQ, t.Reward, l.Alpha, l.DiscountFactor))

			stats.Lengths[i]++
			stats.Rewards[i] += t.Reward
			if t.Done {
				break
			}
			s, a = t.Next, nextA
		}
	}
	return q, stats, nil
}
