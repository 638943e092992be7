package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"

	"uvreplace/internal/rewrite"
	"uvreplace/internal/ui/colorize"
	"uvreplace/internal/uvreplace/styles"
)

// previewPrinter renders dry-run changes as a small diff:
//
//	regs.h:12 write-register-2
//	- #define BW_FOO(x, v) (HW_FOO_WR(x, v))
//	+ #define BW_FOO(x, v) (UNION_WRITE_REG_FS(HW_FOO_ADDR(x), hw_foo, v))
type previewPrinter struct {
	w     io.Writer
	color bool
	style styles.Preview
}

func newPreviewPrinter(w io.Writer) *previewPrinter {
	color := false
	if f, ok := w.(*os.File); ok && term.IsTerminal(f.Fd()) && !colorize.Disabled() {
		color = true
	}
	return &previewPrinter{w: w, color: color, style: styles.NewPreview(!color)}
}

func (p *previewPrinter) Print(c rewrite.Change) {
	before, after := c.Before, c.After
	if p.color {
		before = colorize.ColorizeLine(before)
		after = colorize.ColorizeLine(after)
	}

	ruleName := "?"
	if c.Rule != nil && c.Rule.Name != "" {
		ruleName = c.Rule.Name
	}

	fmt.Fprintf(p.w, "%s%s %s\n",
		p.style.Path.Render(c.Path),
		p.style.LineNo.Render(fmt.Sprintf(":%d", c.Line)),
		p.style.Rule.Render(ruleName))
	fmt.Fprintf(p.w, "%s %s\n", p.style.Removed.Render("-"), before)
	fmt.Fprintf(p.w, "%s %s\n", p.style.Added.Render("+"), after)
}
