package cli

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw965/mdp"
	"github.com/sw965/mdp/sim"
	"github.com/sw965/mdp/td"
	"github.com/sw965/omw/mathx/randx"
	"gonum.org/v1/gonum/floats"
)

func NewSARSACmd(root *cobra.Command) *cobra.Command {
	defaults := td.New()
	c := &cobra.Command{
		Use:    "sarsa",
		Args:   cobra.ExactArgs(0),
		Short:  "Learn an epsilon-greedy policy with SARSA from sampled episodes",
		PreRun: bindFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd)
			b, start, err := environment()
			if err != nil {
				return err
			}
			env, err := sim.NewModelEnv(b, start)
			if err != nil {
				return err
			}

			var rng *rand.Rand
			if seed := viper.GetUint64("seed"); seed != 0 {
				rng = rand.New(rand.NewPCG(seed, seed))
			} else {
				rng = randx.NewPCGFromGlobalSeed()
			}

			l := td.Learner{
				DiscountFactor: viper.GetFloat64("discount"),
				Alpha:          viper.GetFloat64("alpha"),
				Epsilon:        viper.GetFloat64("epsilon"),
				Episodes:       viper.GetInt("episodes"),
				MaxSteps:       viper.GetInt("max-steps"),
			}
			q, stats, err := l.SARSA(env, rng)
			if err != nil {
				return err
			}

			nS := b.NumStates()
			actions := make([]int, nS)
			v := make([]float64, nS)
			for s := range actions {
				row := q.RawRowView(s)
				actions[s] = mdp.Argmax(row)
				v[s] = floats.Max(row)
			}
			policy, err := mdp.NewDeterministicPolicy(actions, b.NumActions())
			if err != nil {
				return err
			}

			logger.WithFields(logrus.Fields{
				"episodes":    l.Episodes,
				"last_length": stats.Lengths[len(stats.Lengths)-1],
			}).Info("training done")

			return writeReport(cmd.OutOrStdout(), b, report{
				Algorithm:   "sarsa",
				Environment: viper.GetString("env"),
				Episodes:    l.Episodes,
				V:           v,
				Policy:      actions,
				Lengths:     stats.Lengths,
			}, policy)
		},
	}
	root.AddCommand(c)
	c.Flags().Int("episodes", defaults.Episodes, "Number of training episodes")
	c.Flags().Float64("alpha", defaults.Alpha, "TD step size")
	c.Flags().Float64("epsilon", defaults.Epsilon, "Exploration rate of the epsilon-greedy policy")
	c.Flags().Int("max-steps", defaults.MaxSteps, "Fail when an episode takes more steps")
	c.Flags().Uint64("seed", 0, "Random seed, 0 seeds from the global source")
	return c
}

// register the subcommand into rootCmd
var _ = NewSARSACmd(rootCmd)
