package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/order"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

var (
	strategyValues = []string{order.PreferEdges.String(), order.PreferModelOrder.String()}
	longEdgeValues = []string{order.Equal.String(), order.Lower.String(), order.Higher.String()}
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell and print it.

  $ source <(stacklayout completion bash)
  $ stacklayout completion zsh > "${fpath[1]}/_stacklayout"
  $ stacklayout completion fish | source
  PS> stacklayout completion powershell | Out-String | Invoke-Expression

Besides commands and flags, the scripts complete the values of --strategy,
--long-edge and --format.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// completeValues registers a fixed value list for flag on cmd.
func completeValues(cmd *cobra.Command, flag string, values ...string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

// completeOrderFlags wires value completion for the ordering flags.
func completeOrderFlags(cmd *cobra.Command, formats ...string) {
	if cmd.Flags().Lookup("strategy") != nil {
		completeValues(cmd, "strategy", strategyValues...)
		completeValues(cmd, "long-edge", longEdgeValues...)
	}
	if len(formats) > 0 {
		completeValues(cmd, "format", formats...)
	}
}

var renderFormats = []string{pipeline.FormatSVG, pipeline.FormatDOT}
