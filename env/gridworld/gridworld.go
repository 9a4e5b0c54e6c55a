// Package gridworld is the corner-terminal grid world used to calibrate the solvers.
//
// 左上と右下が終端状態。それ以外の状態での移動は報酬-1、壁に向かう移動はその場に留まる。
package gridworld

import (
	"fmt"
	"strings"

	"github.com/sw965/mdp"
)

const (
	Up = iota
	Right
	Down
	Left
	NumActions
)

var arrows = [NumActions]string{"^", ">", "v", "<"}

type Grid struct {
	rows int
	cols int
	p    [][][]mdp.Transition
}

func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 || rows*cols < 2 {
		return nil, fmt.Errorf("%w: grid %dx%d needs at least two cells", mdp.ErrInvalidModel, rows, cols)
	}
	g := &Grid{rows: rows, cols: cols}
	nS := rows * cols
	g.p = make([][][]mdp.Transition, nS)
	for s := range g.p {
		g.p[s] = make([][]mdp.Transition, NumActions)
		for a := range g.p[s] {
			if g.IsTerminal(s) {
				g.p[s][a] = []mdp.Transition{{Prob: 1.0, Next: s, Reward: 0, Done: true}}
				continue
			}
			next := g.move(s, a)
			g.p[s][a] = []mdp.Transition{{Prob: 1.0, Next: next, Reward: -1.0, Done: g.IsTerminal(next)}}
		}
	}
	return g, nil
}

// MustNew is New for fixed, known-good shapes.
func MustNew(rows, cols int) *Grid {
	g, err := New(rows, cols)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) move(s, a int) int {
	y, x := s/g.cols, s%g.cols
	switch a {
	case Up:
		if y > 0 {
			return s - g.cols
		}
	case Right:
		if x < g.cols-1 {
			return s + 1
		}
	case Down:
		if y < g.rows-1 {
			return s + g.cols
		}
	case Left:
		if x > 0 {
			return s - 1
		}
	}
	return s
}

func (g *Grid) IsTerminal(s int) bool {
	return s == 0 || s == g.rows*g.cols-1
}

func (g *Grid) Shape() (int, int) {
	return g.rows, g.cols
}

func (g *Grid) NumStates() int {
	return g.rows * g.cols
}

func (g *Grid) NumActions() int {
	return NumActions
}

func (g *Grid) Transitions(s, a int) []mdp.Transition {
	return g.p[s][a]
}

// RenderPolicy draws the greedy action of every cell. Terminal cells are drawn as "T".
func (g *Grid) RenderPolicy(p mdp.Policy) string {
	return FormatPolicy(g.rows, g.cols, p, g.IsTerminal)
}

func (g *Grid) RenderValues(v []float64) string {
	return FormatValues(g.rows, g.cols, v)
}

// FormatPolicy draws the greedy action of every cell of a row-major rows x cols board.
func FormatPolicy(rows, cols int, p mdp.Policy, isTerminal func(int) bool) string {
	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			s := y*cols + x
			if x > 0 {
				b.WriteByte(' ')
			}
			if isTerminal(s) {
				b.WriteString("T")
				continue
			}
			b.WriteString(arrows[p.Action(s)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func FormatValues(rows, cols int, v []float64) string {
	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%7.2f", v[y*cols+x])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
