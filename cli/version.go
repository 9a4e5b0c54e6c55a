package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/sw965/mdp/cli.version=... -X github.com/sw965/mdp/cli.gitCommit=..."
var (
	version   = "v0.0.0-dev"
	gitCommit = ""
)

func NewVersionCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Args:  cobra.ExactArgs(0),
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			commit := gitCommit
			if len(commit) > 7 {
				commit = commit[:7]
			}
			if cmd.Flag("long").Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\nGitCommit: %s\nGoVersion: %s\n", version, gitCommit, runtime.Version())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s+g%s\n", version, commit)
			}
		},
	}
	root.AddCommand(c)
	c.Flags().Bool("long", false, "Show long version info")
	return c
}

// register the subcommand into rootCmd
var _ = NewVersionCmd(rootCmd)
