package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/sw965/mdp"
	"github.com/sw965/mdp/dp"
	"github.com/sw965/mdp/env/gridworld"
	"github.com/sw965/mdp/env/windy"
)

// board is a Model that can be drawn as a grid.
type board interface {
	mdp.Model
	RenderPolicy(mdp.Policy) string
	RenderValues([]float64) string
}

// environment resolves the --env flag. start is the state episodes begin from.
func environment() (b board, start int, err error) {
	switch name := viper.GetString("env"); name {
	case "gridworld":
		rows, cols := viper.GetInt("rows"), viper.GetInt("cols")
		g, err := gridworld.New(rows, cols)
		if err != nil {
			return nil, 0, err
		}
		// 終端状態以外で、左上の終端から最も遠い状態から開始する
		return g, rows*cols - 2, nil
	case "windy":
		w := windy.New()
		return w, w.Start(), nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown environment %q", mdp.ErrInvalidParameter, name)
	}
}

func solverFromConfig(logger logrus.FieldLogger, dump io.Writer) dp.Solver {
	solver := dp.Solver{
		DiscountFactor: viper.GetFloat64("discount"),
		Theta:          viper.GetFloat64("theta"),
		MaxSweeps:      viper.GetInt("max-sweeps"),
		MaxIterations:  viper.GetInt("max-iterations"),
	}
	observers := []dp.Observer{dp.NewLogObserver(logger)}
	if viper.GetBool("dump") {
		observers = append(observers, dp.NewDumpObserver(dump))
	}
	solver.Observer = dp.Join(observers...)
	return solver
}
