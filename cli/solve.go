package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw965/mdp"
	"github.com/sw965/mdp/dp"
)

func addSolverFlags(c *cobra.Command) {
	c.Flags().Float64("theta", dp.DefaultTheta, "Stop once no state value changes by theta or more in a sweep")
	c.Flags().Int("max-sweeps", dp.DefaultMaxSweeps, "Fail after this many sweeps without convergence")
	c.Flags().Int("max-iterations", dp.DefaultMaxIterations, "Fail after this many policy iteration rounds")
}

func bindFlags(cmd *cobra.Command, _ []string) {
	_ = viper.BindPFlags(cmd.Flags())
}

func NewEvaluateCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:    "evaluate",
		Args:   cobra.ExactArgs(0),
		Short:  "Evaluate the uniform random policy",
		PreRun: bindFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd)
			b, _, err := environment()
			if err != nil {
				return err
			}
			policy := mdp.NewUniformPolicy(b.NumStates(), b.NumActions())
			v, err := solverFromConfig(logger, cmd.ErrOrStderr()).Evaluate(b, policy)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), b, report{
				Algorithm:   "evaluate",
				Environment: viper.GetString("env"),
				V:           v,
			}, mdp.Policy{})
		},
	}
	root.AddCommand(c)
	addSolverFlags(c)
	return c
}

func NewPolicyIterationCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:     "policy-iteration",
		Aliases: []string{"pi"},
		Args:    cobra.ExactArgs(0),
		Short:   "Find the optimal policy by policy iteration",
		PreRun:  bindFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd)
			b, _, err := environment()
			if err != nil {
				return err
			}
			res, err := solverFromConfig(logger, cmd.ErrOrStderr()).PolicyIteration(b)
			if err != nil {
				return err
			}
			logger.WithField("iterations", res.Iterations).Info("optimal policy found")
			return writeReport(cmd.OutOrStdout(), b, report{
				Algorithm:   "policy-iteration",
				Environment: viper.GetString("env"),
				Iterations:  res.Iterations,
				V:           res.V,
				Policy:      res.Policy.Greedy(),
				Q:           rows(res.Q),
			}, res.Policy)
		},
	}
	root.AddCommand(c)
	addSolverFlags(c)
	return c
}

func NewValueIterationCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:     "value-iteration",
		Aliases: []string{"vi"},
		Args:    cobra.ExactArgs(0),
		Short:   "Find the optimal policy by value iteration",
		PreRun:  bindFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd)
			b, _, err := environment()
			if err != nil {
				return err
			}
			res, err := solverFromConfig(logger, cmd.ErrOrStderr()).ValueIteration(b)
			if err != nil {
				return err
			}
			logger.WithField("sweeps", res.Sweeps).Info("optimal value function found")
			return writeReport(cmd.OutOrStdout(), b, report{
				Algorithm:   "value-iteration",
				Environment: viper.GetString("env"),
				Sweeps:      res.Sweeps,
				V:           res.V,
				Policy:      res.Policy.Greedy(),
			}, res.Policy)
		},
	}
	root.AddCommand(c)
	addSolverFlags(c)
	return c
}

// register the subcommands into rootCmd
var _ = NewEvaluateCmd(rootCmd)
var _ = NewPolicyIterationCmd(rootCmd)
var _ = NewValueIterationCmd(rootCmd)
