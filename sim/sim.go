// Package sim runs episodes over finite environments for the sampling-based methods.
// Environment consistency validation is centralized in Env.Validate.
//
// Package sim はサンプリング系の手法のためにエピソードを実行します。
// 環境の整合性チェックは Env.Validate に集約されています。
package sim

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sw965/mdp"
	"github.com/sw965/omw/mathx/randx"
)

var (
	ErrNilEnvFunc     = errors.New("Envエラー: フィールドの関数がnilです")
	ErrEpisodeTooLong = errors.New("episode exceeded the step limit")
	ErrInvalidAction  = errors.New("action out of range")
)

type ResetFunc func(*rand.Rand) (int, error)
type StepFunc func(int, int, *rand.Rand) (mdp.Transition, error)

// Env is an episodic environment over states [0,NumStates) and actions [0,NumActions).
// StepFunc returns the sampled outcome of taking the action in the state; Prob is the probability of that outcome.
type Env struct {
	NumStates  int
	NumActions int
	ResetFunc  ResetFunc
	StepFunc   StepFunc
}

func (e Env) Validate() error {
	if e.NumStates <= 0 || e.NumActions <= 0 {
		return fmt.Errorf("%w: nS=%d nA=%d", mdp.ErrInvalidModel, e.NumStates, e.NumActions)
	}
	if e.ResetFunc == nil {
		return fmt.Errorf("%w: ResetFunc", ErrNilEnvFunc)
	}
	if e.StepFunc == nil {
		return fmt.Errorf("%w: StepFunc", ErrNilEnvFunc)
	}
	return nil
}

// NewModelEnv samples episodes from the dynamics of m. Reset picks one of starts uniformly.
func NewModelEnv(m mdp.Model, starts ...int) (Env, error) {
	if err := mdp.ValidateModel(m); err != nil {
		return Env{}, err
	}
	nS, nA := m.NumStates(), m.NumActions()
	if len(starts) == 0 {
		return Env{}, fmt.Errorf("%w: no start state", mdp.ErrInvalidParameter)
	}
	for _, s := range starts {
		if s < 0 || s >= nS {
			return Env{}, fmt.Errorf("%w: start state %d out of range [0,%d)", mdp.ErrInvalidParameter, s, nS)
		}
	}

	reset := func(rng *rand.Rand) (int, error) {
		return randx.Choice(starts, rng)
	}

	step := func(s, a int, rng *rand.Rand) (mdp.Transition, error) {
		if a < 0 || a >= nA {
			return mdp.Transition{}, fmt.Errorf("%w: a=%d nA=%d", ErrInvalidAction, a, nA)
		}
		ts := m.Transitions(s, a)
		// 決定的な遷移は乱数を消費しない
		if len(ts) == 1 {
			return ts[0], nil
		}
		ws := make([]float32, len(ts))
		for i, t := range ts {
			ws[i] = float32(t.Prob)
		}
		idx, err := randx.IntByWeight(ws, rng)
		if err != nil {
			return mdp.Transition{}, err
		}
		return ts[idx], nil
	}

	return Env{NumStates: nS, NumActions: nA, ResetFunc: reset, StepFunc: step}, nil
}

type Step struct {
	State  int
	Action int
	Reward float64
	Next   int
	Done   bool
}

type Episode []Step

func (ep Episode) TotalReward() float64 {
	var sum float64
	for _, s := range ep {
		sum += s.Reward
	}
	return sum
}

// Returns computes the discounted return G_t of every step of ep.
func Returns(ep Episode, gamma float64) []float64 {
	gs := make([]float64, len(ep))
	var g float64
	for t := len(ep) - 1; t >= 0; t-- {
		g = ep[t].Reward + gamma*g
		gs[t] = g
	}
	return gs
}

// Actor chooses the action to take in a state.
type Actor func(int, *rand.Rand) (int, error)

// PolicyActor samples actions from the rows of p.
func PolicyActor(p mdp.Policy) Actor {
	return func(s int, rng *rand.Rand) (int, error) {
		row := p.RawRowView(s)
		ws := make([]float32, len(row))
		for i, x := range row {
			ws[i] = float32(x)
		}
		return randx.IntByWeight(ws, rng)
	}
}

// GreedyActor always takes the most probable action of p.
func GreedyActor(p mdp.Policy) Actor {
	return func(s int, _ *rand.Rand) (int, error) {
		return p.Action(s), nil
	}
}

// Playout runs one episode from a reset state until a terminal transition.
// Episodes longer than maxSteps fail with ErrEpisodeTooLong.
func Playout(env Env, actor Actor, maxSteps int, rng *rand.Rand) (Episode, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, fmt.Errorf("%w: actor", ErrNilEnvFunc)
	}

	state, err := env.ResetFunc(rng)
	if err != nil {
		return nil, err
	}

	ep := Episode{}
	for len(ep) < maxSteps {
		action, err := actor(state, rng)
		if err != nil {
			return nil, err
		}
		if action < 0 || action >= env.NumActions {
			return nil, fmt.Errorf("%w: a=%d nA=%d", ErrInvalidAction, action, env.NumActions)
		}

		t, err := env.StepFunc(state, action, rng)
		if err != nil {
			return nil, err
		}
		ep = append(ep, Step{State: state, Action: action, Reward: t.Reward, Next: t.Next, Done: t.Done})
		if t.Done {
			return ep, nil
		}
		state = t.Next
	}
	return nil, fmt.Errorf("%w: maxSteps=%d", ErrEpisodeTooLong, maxSteps)
}
