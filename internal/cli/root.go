package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

const defaultRelayURL = "http://127.0.0.1:3000"

// Run executes the echopal-relay command line. With no subcommand, or only
// flags, it runs `serve`.
func Run(args []string) error {
	root := newRootCmd()
	if len(args) == 0 || (strings.HasPrefix(args[0], "-") && args[0] != "-h" && args[0] != "--help") {
		args = append([]string{"serve"}, args...)
	}
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "echopal-relay",
		Short:         "EchoPal relay: forwards prompts to Gemini with the Pip persona",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newCheckCmd(),
		newAskCmd(),
		newVersionCmd(),
	)
	return cmd
}
