package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/pipeline"
	"github.com/matzehuels/jyotish/pkg/varga"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for jyotish.

To load completions:

Bash:
  $ source <(jyotish completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ jyotish completion bash > /etc/bash_completion.d/jyotish
  # macOS:
  $ jyotish completion bash > $(brew --prefix)/etc/bash_completion.d/jyotish

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ jyotish completion zsh > "${fpath[1]}/_jyotish"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ jyotish completion fish | source

  # To load completions for each session, execute once:
  $ jyotish completion fish > ~/.config/fish/completions/jyotish.fish

PowerShell:
  PS> jyotish completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> jyotish completion powershell > jyotish.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// =============================================================================
// Flag value completion
// =============================================================================

// registerBirthCompletions completes the calculation settings shared by all
// birth-data commands.
func registerBirthCompletions(cmd *cobra.Command) {
	ayanamsas := make([]string, len(ephemeris.AyanamsaModes))
	for i, m := range ephemeris.AyanamsaModes {
		ayanamsas[i] = string(m)
	}
	systems := make([]string, len(ephemeris.HouseSystems))
	for i, h := range ephemeris.HouseSystems {
		systems[i] = string(h)
	}
	nodes := []string{string(ephemeris.NodeMean), string(ephemeris.NodeTrue)}

	_ = cmd.RegisterFlagCompletionFunc("ayanamsa", cobra.FixedCompletions(ayanamsas, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("houses", cobra.FixedCompletions(systems, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("nodes", cobra.FixedCompletions(nodes, cobra.ShellCompDirectiveNoFileComp))
}

// registerChartCompletion completes divisional chart ids with their names.
// withAll adds the "all" shorthand accepted by the varga command.
func registerChartCompletion(cmd *cobra.Command, withAll bool) {
	ids := varga.All()
	choices := make([]string, 0, len(ids)+1)
	if withAll {
		choices = append(choices, "all\tevery divisional chart")
	}
	for _, id := range ids {
		choices = append(choices, id.String()+"\t"+id.Name())
	}
	_ = cmd.RegisterFlagCompletionFunc("charts", cobra.FixedCompletions(choices, cobra.ShellCompDirectiveNoFileComp|cobra.ShellCompDirectiveNoSpace))
}

// registerSectionCompletion completes optional chart sections.
func registerSectionCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("sections", cobra.FixedCompletions(pipeline.Sections, cobra.ShellCompDirectiveNoFileComp))
}
