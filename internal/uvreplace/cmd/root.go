package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"uvreplace/internal/rewrite"
	"uvreplace/internal/uvreplace/log"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().StringArrayP("rules", "r", nil, "Extra rule file (YAML or JSON), applied after the built-in rules")
	rootCmd.PersistentFlags().Bool("no-builtin", false, "Skip the built-in conversion rules")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("dry-run", "n", false, "Show what would change without writing any file")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
}

var rootCmd = &cobra.Command{
	Use:   "uvreplace FILE...",
	Short: "Convert Freescale register macros to uVisor accessors",
	Long: `uvreplace rewrites Freescale BW_*/BR_* register-access macros into the
uVisor HAL dialect (UNION_WRITE_REG_FS, ADDRESS_WRITE32, ...).

Files are rewritten in place without a backup, so run it inside version
control. Use "-" to filter standard input to standard output.`,
	Example: `
# Convert a header in place
uvreplace MK64F12_sim.h

# Preview the changes for a whole directory
uvreplace -n device/MK64F12/*.h

# Filter a stream
cat MK64F12_port.h | uvreplace - > converted.h
  `,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)
		_, err := ResolveCwd(cmd)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := rulesFromFlags(cmd)
		if err != nil {
			return err
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		return runRewrite(rules, args, dryRun, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// runRewrite converts every path and prints the change summary.
// The summary moves to stderr when stdout carries the converted stream.
func runRewrite(rules rewrite.RuleSet, paths []string, dryRun bool, stdin io.Reader, stdout, stderr io.Writer) error {
	rw := &rewrite.Rewriter{
		Rules:  rules,
		DryRun: dryRun,
		Stdin:  stdin,
		Stdout: stdout,
	}
	if dryRun {
		rw.OnChange = newPreviewPrinter(stdout).Print
	}

	slog.Debug("Rewriting files", "files", len(paths), "rules", len(rules), "dryRun", dryRun)
	changed, err := rw.RewriteFiles(paths)
	if err != nil {
		return err
	}

	out := stdout
	if !dryRun && slices.Contains(paths, rewrite.StdinPath) {
		out = stderr
	}
	fmt.Fprintln(out, rewrite.Summary(changed))
	return nil
}

func rulesFromFlags(cmd *cobra.Command) (rewrite.RuleSet, error) {
	files, _ := cmd.Flags().GetStringArray("rules")
	noBuiltin, _ := cmd.Flags().GetBool("no-builtin")
	return loadRules(files, noBuiltin)
}

// loadRules builds the active rule set: built-ins first, then each rule
// file in the order given.
func loadRules(files []string, noBuiltin bool) (rewrite.RuleSet, error) {
	var rules rewrite.RuleSet
	if !noBuiltin {
		rules = append(rules, rewrite.Builtin()...)
	}
	for _, f := range files {
		extra, err := rewrite.LoadRuleFile(f)
		if err != nil {
			return nil, err
		}
		slog.Debug("Loaded rule file", "file", f, "rules", len(extra))
		rules = append(rules, extra...)
	}
	if len(rules) == 0 {
		return nil, errors.New("no rules to apply: --no-builtin needs at least one --rules file")
	}
	return rules, nil
}

func Execute() {
	// Bypass fang's styled output when stdout is piped or colors are off
	plain := !term.IsTerminal(os.Stdout.Fd())
	if !plain && os.Getenv("UVREPLACE_NO_COLOR") != "" {
		plain = true
	}

	var err error
	if plain {
		err = rootCmd.Execute()
	} else {
		err = fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		)
	}
	if cerr := log.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "could not close log file: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
