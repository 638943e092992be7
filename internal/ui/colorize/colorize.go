package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Disabled reports whether UVREPLACE_NO_COLOR or NO_COLOR is set.
func Disabled() bool {
	return os.Getenv("UVREPLACE_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}

// getCLexer returns the C lexer, falling back to C++ if it is missing
func getCLexer() chroma.Lexer {
	for _, name := range []string{"c", "C", "cpp"} {
		if lexer := lexers.Get(name); lexer != nil {
			return chroma.Coalesce(lexer)
		}
	}
	return nil
}

// getPreviewStyle returns the preview style with fallbacks
func getPreviewStyle() *chroma.Style {
	candidates := []string{"macro-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// ColorizeC highlights C source. On any failure the input comes back unchanged.
func ColorizeC(code string) (string, error) {
	if Disabled() {
		return code, nil
	}

	lexer := getCLexer()
	if lexer == nil {
		return code, nil
	}

	_ = MacroDark // Force registration

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getPreviewStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// ColorizeLine highlights a single line. The lexer appends a newline (and
// may reset colors after it), so every newline is dropped from the result.
func ColorizeLine(line string) string {
	out, err := ColorizeC(line)
	if err != nil {
		return line
	}
	return strings.ReplaceAll(out, "\n", "")
}

// StripANSI removes ANSI escape codes
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
