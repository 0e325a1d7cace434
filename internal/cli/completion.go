package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for gembridge and write it to stdout.

  $ source <(gembridge completion bash)
  $ gembridge completion zsh > "${fpath[1]}/_gembridge"

Completions cover subcommands, flags and the --naming policies.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// namingFlag registers the --naming flag with completion of its policies.
func namingFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().StringVar(p, "naming", "", "gem naming policy: artifact or group")
	_ = cmd.RegisterFlagCompletionFunc("naming", cobra.FixedCompletions(
		[]cobra.Completion{"artifact", "group"}, cobra.ShellCompDirectiveNoFileComp))
}
