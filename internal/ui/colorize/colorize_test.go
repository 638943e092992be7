package colorize

import (
	"strings"
	"testing"
)

func TestColorizeLinePreservesText(t *testing.T) {
	t.Setenv("UVREPLACE_NO_COLOR", "")
	t.Setenv("NO_COLOR", "")

	lines := []string{
		"#define BR_SIM_SOPT1(x) (UNION_READ_REG_FS(HW_SIM_SOPT1_ADDR(x), hw_sim_sopt1))",
		"int unrelated;",
		"",
	}
	for _, line := range lines {
		got := ColorizeLine(line)
		if plain := StripANSI(got); plain != line {
			t.Errorf("ColorizeLine(%q) text = %q", line, plain)
		}
		if strings.HasSuffix(got, "\n") {
			t.Errorf("ColorizeLine(%q) kept trailing newline", line)
		}
	}
}

func TestColorizeDisabled(t *testing.T) {
	t.Setenv("UVREPLACE_NO_COLOR", "1")

	line := "#define BW_FOO(x, v) (HW_FOO_WR(x, v))"
	if got := ColorizeLine(line); got != line {
		t.Errorf("ColorizeLine() with colors disabled = %q", got)
	}
}
