package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"uvreplace/internal/rewrite"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Fail if any file still contains unconverted macros",
	Long: `Check runs the conversion without writing anything and exits with an
error when at least one line would change. Useful as a CI gate after a
migration.`,
	Example: `
# Verify a converted tree
uvreplace check device/MK64F12/*.h

# Quiet mode only prints the summary
uvreplace check -q device/MK64F12/*.h
  `,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		rules, err := rulesFromFlags(cmd)
		if err != nil {
			return err
		}
		return runCheck(rules, args, quiet, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	checkCmd.Flags().BoolP("quiet", "q", false, "Only print the summary")
}

// runCheck returns an error when any path has pending conversions.
func runCheck(rules rewrite.RuleSet, paths []string, quiet bool, stdin io.Reader, stdout io.Writer) error {
	rw := &rewrite.Rewriter{
		Rules:  rules,
		DryRun: true,
		Stdin:  stdin,
	}
	if !quiet {
		rw.OnChange = newPreviewPrinter(stdout).Print
	}

	pending, err := rw.RewriteFiles(paths)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, rewrite.Summary(pending))

	if pending > 0 {
		slog.Debug("Check found pending conversions", "lines", pending)
		return fmt.Errorf("%d unconverted line(s) left", pending)
	}
	return nil
}
