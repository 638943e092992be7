package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"uvreplace/internal/rewrite"
	"uvreplace/internal/ui/colorize"
	"uvreplace/internal/uvreplace/styles"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active conversion rules in priority order",
	Long: `List every rule uvreplace would try, in the order it tries them.
The first rule matching a line rewrites it; later rules are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := rulesFromFlags(cmd)
		if err != nil {
			return err
		}

		md := rulesMarkdown(rules)

		out := cmd.OutOrStdout()
		f, ok := out.(*os.File)
		if !ok || !term.IsTerminal(f.Fd()) || colorize.Disabled() {
			_, err := io.WriteString(out, md)
			return err
		}

		width, _, err := term.GetSize(f.Fd())
		if err != nil || width <= 0 {
			width = 120
		}
		r, err := styles.GetMarkdownRenderer(width)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		rendered, err := r.Render(md)
		if err != nil {
			return fmt.Errorf("failed to render rules: %w", err)
		}
		_, err = io.WriteString(out, rendered)
		return err
	},
}

// rulesMarkdown renders the rule table as a markdown document.
func rulesMarkdown(rules rewrite.RuleSet) string {
	var b strings.Builder
	b.WriteString("# uvreplace rules\n\n")
	b.WriteString("Rules are tried top to bottom; the first match rewrites the line.\n\n")
	b.WriteString("| # | Name | Family | Mechanism | Arity | Width | Pattern |\n")
	b.WriteString("|---|------|--------|-----------|-------|-------|---------|\n")
	for i, r := range rules {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | `%s` |\n",
			i+1,
			cell(r.Name),
			cell(string(r.Family)),
			r.Mechanism,
			optional(r.Arity),
			optional(r.Width),
			strings.ReplaceAll(r.Pattern.String(), "|", `\|`),
		)
	}
	return b.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

func optional(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
