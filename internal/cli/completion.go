package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for biotree.

To load completions:

Bash:
  $ source <(biotree completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ biotree completion bash > /etc/bash_completion.d/biotree
  # macOS:
  $ biotree completion bash > $(brew --prefix)/etc/bash_completion.d/biotree

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ biotree completion zsh > "${fpath[1]}/_biotree"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ biotree completion fish | source

  # To load completions for each session, execute once:
  $ biotree completion fish > ~/.config/fish/completions/biotree.fish

PowerShell:
  PS> biotree completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> biotree completion powershell > biotree.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
