package cli

import (
	"bytes"

	"github.com/spf13/cobra"
)

func executeCommandC(cmd *cobra.Command, args ...string) (c *cobra.Command, output string, err error) {
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	c, err = cmd.ExecuteC()
	return c, out.String(), err
}

// newTestRootCmd rebuilds the command tree so flag values do not leak between specs.
func newTestRootCmd() *cobra.Command {
	root := NewRootCmd()
	_ = NewEvaluateCmd(root)
	_ = NewPolicyIterationCmd(root)
	_ = NewValueIterationCmd(root)
	_ = NewSARSACmd(root)
	_ = NewVersionCmd(root)
	return root
}
