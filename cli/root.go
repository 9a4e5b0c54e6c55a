package cli

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mdpsolve",
		Short:         "Solve and simulate tabular Markov decision processes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	cmd.PersistentFlags().Bool("dump", false, "Dump every sweep snapshot to stderr")
	cmd.PersistentFlags().String("env", "gridworld", "Environment: gridworld or windy")
	cmd.PersistentFlags().Int("rows", 4, "Grid world rows")
	cmd.PersistentFlags().Int("cols", 4, "Grid world columns")
	cmd.PersistentFlags().Float64("discount", 1.0, "Discount factor in [0,1]")
	cmd.PersistentFlags().StringP("output", "o", "text", "Output format: text or yaml")
	for _, name := range []string{"debug", "dump", "env", "rows", "cols", "discount", "output"} {
		_ = viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name))
	}
	return cmd
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCmd()

func init() {
	viper.SetEnvPrefix("MDP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if viper.GetBool("debug") {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
