package cli

import (
	"github.com/spf13/cobra"
)

const completionHelp = `Generate shell completion scripts for procmap.

To load completions:

Bash:
  $ source <(procmap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ procmap completion bash > /etc/bash_completion.d/procmap
  # macOS:
  $ procmap completion bash > $(brew --prefix)/etc/bash_completion.d/procmap

Zsh:
  # If shell completion is not already enabled in your environment,
  # enable it once with:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ procmap completion zsh > "${fpath[1]}/_procmap"

Fish:
  $ procmap completion fish | source
  $ procmap completion fish > ~/.config/fish/completions/procmap.fish

PowerShell:
  PS> procmap completion powershell | Out-String | Invoke-Expression
`

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  completionHelp,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
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
}
