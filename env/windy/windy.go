// Package windy is the windy grid world: a 7x10 board whose columns push the agent upward.
package windy

import (
	"github.com/sw965/mdp"
	"github.com/sw965/mdp/env/gridworld"
)

const (
	Rows = 7
	Cols = 10
)

var (
	// Wind は列ごとの上向きの風の強さ
	Wind  = [Cols]int{0, 0, 0, 1, 1, 1, 2, 2, 1, 0}
	Start = [2]int{3, 0}
	Goal  = [2]int{3, 7}
)

type World struct {
	p [][][]mdp.Transition
}

func New() *World {
	w := &World{p: make([][][]mdp.Transition, Rows*Cols)}
	goal := index(Goal[0], Goal[1])
	for s := range w.p {
		w.p[s] = make([][]mdp.Transition, gridworld.NumActions)
		for a := range w.p[s] {
			if s == goal {
				w.p[s][a] = []mdp.Transition{{Prob: 1.0, Next: s, Reward: 0, Done: true}}
				continue
			}
			next := move(s, a)
			w.p[s][a] = []mdp.Transition{{Prob: 1.0, Next: next, Reward: -1.0, Done: next == goal}}
		}
	}
	return w
}

func index(y, x int) int {
	return y*Cols + x
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// move applies the action and then the wind of the column the agent started from.
func move(s, a int) int {
	y, x := s/Cols, s%Cols
	wind := Wind[x]
	switch a {
	case gridworld.Up:
		y--
	case gridworld.Right:
		x++
	case gridworld.Down:
		y++
	case gridworld.Left:
		x--
	}
	y -= wind
	return index(clamp(y, 0, Rows-1), clamp(x, 0, Cols-1))
}

func (w *World) Start() int {
	return index(Start[0], Start[1])
}

func (w *World) Goal() int {
	return index(Goal[0], Goal[1])
}

func (w *World) NumStates() int {
	return Rows * Cols
}

func (w *World) NumActions() int {
	return gridworld.NumActions
}

func (w *World) Transitions(s, a int) []mdp.Transition {
	return w.p[s][a]
}

func (w *World) RenderPolicy(p mdp.Policy) string {
	goal := w.Goal()
	return gridworld.FormatPolicy(Rows, Cols, p, func(s int) bool { return s == goal })
}

func (w *World) RenderValues(v []float64) string {
	return gridworld.FormatValues(Rows, Cols, v)
}
