package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var completionInstall bool

// shellCompletion describes how to generate and where to install the
// completion script for one shell. An empty dir means --install is not
// supported.
type shellCompletion struct {
	gen  func(w io.Writer) error
	dir  []string
	file string
	load string
}

var shellCompletions = map[string]shellCompletion{
	"bash": {
		gen:  func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
		dir:  []string{".local", "share", "bash-completion", "completions"},
		file: "dayplan",
		load: `eval "$(dayplan completion bash)"`,
	},
	"zsh": {
		gen:  func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
		dir:  []string{".local", "share", "zsh", "site-functions"},
		file: "_dayplan",
		load: `eval "$(dayplan completion zsh)"`,
	},
	"fish": {
		gen:  func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
		dir:  []string{".config", "fish", "completions"},
		file: "dayplan.fish",
		load: "dayplan completion fish | source",
	},
	"powershell": {
		gen:  func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
		load: "dayplan completion powershell | Out-String | Invoke-Expression",
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Set up shell completions for dayplan",
	Long: `Set up shell tab-completions for dayplan commands, flags, task ids,
goal ids and category ids.

Supported shells: bash, zsh, fish, powershell

Quick install:

  dayplan completion bash --install
  dayplan completion zsh --install
  dayplan completion fish --install

Or print the script to stdout for manual setup:

  dayplan completion powershell`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"Install completions into your shell's user completion directory")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	sc, ok := shellCompletions[args[0]]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", args[0])
	}

	if !completionInstall {
		// Hints go to stderr so piping the script stays clean.
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "# To load completions in your current session:\n#   %s\n", sc.load)
		return sc.gen(cmd.OutOrStdout())
	}

	if len(sc.dir) == 0 {
		return fmt.Errorf("automatic install is not supported for %s; add %q to your profile", args[0], sc.load)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("detecting home directory: %w", err)
	}
	target, err := installCompletion(home, sc)
	if err != nil {
		return err
	}
	fmt.Printf("%s completions installed to %s\n", args[0], target)
	fmt.Println("Restart your shell to pick them up.")
	return nil
}

// installCompletion writes the completion script under home and returns
// its path.
func installCompletion(home string, sc shellCompletion) (string, error) {
	dir := filepath.Join(append([]string{home}, sc.dir...)...)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating completion directory: %w", err)
	}
	target := filepath.Join(dir, sc.file)

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("creating completion file %s: %w", target, err)
	}
	writeErr := sc.gen(f)
	closeErr := f.Close()
	if writeErr != nil {
		return "", writeErr
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}
	return target, nil
}
