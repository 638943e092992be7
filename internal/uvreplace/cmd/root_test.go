package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uvreplace/internal/rewrite"
)

const fiveLines = `#define BW_SIM_SOPT2_CLKOUTSEL(x, v) (HW_SIM_SOPT2_WR(x, v))
/* keep */
#define BR_SIM_SOPT2_CLKOUTSEL(x) (HW_SIM_SOPT2(x).B.CLKOUTSEL)
#define HW_SIM_SOPT2_ADDR(x) ((x) + 0x1004U)
#define BR_SIM_SCGC6_FTF(x) (BITBAND_ACCESS32(HW_SIM_SCGC6_ADDR(x), BP_SIM_SCGC6_FTF))
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunRewrite(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "three of five lines",
			content: fiveLines,
			want:    "Changed 3 lines\n",
		},
		{
			name:    "single line uses singular",
			content: "a\nb\n#define BR_PORT_PCRn(x, n) (HW_PORT_PCRn(x, n).U)\nc\nd\n",
			want:    "Changed 1 line\n",
		},
		{
			name:    "nothing to do",
			content: "int x;\n",
			want:    "Changed 0 lines\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "regs.h", tt.content)

			var stdout, stderr bytes.Buffer
			err := runRewrite(rewrite.Builtin(), []string{path}, false, strings.NewReader(""), &stdout, &stderr)
			if err != nil {
				t.Fatalf("runRewrite() error = %v", err)
			}
			if stdout.String() != tt.want {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.want)
			}
			if stderr.Len() != 0 {
				t.Errorf("unexpected stderr: %q", stderr.String())
			}
		})
	}
}

func TestRunRewriteInPlace(t *testing.T) {
	path := writeTemp(t, "sim.h", fiveLines)

	var stdout, stderr bytes.Buffer
	if err := runRewrite(rewrite.Builtin(), []string{path}, false, nil, &stdout, &stderr); err != nil {
		t.Fatalf("runRewrite() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `#define BW_SIM_SOPT2_CLKOUTSEL(x, v) (UNION_WRITE_REG_FS(HW_SIM_SOPT2_ADDR(x), hw_sim_sopt2, v))
/* keep */
#define BR_SIM_SOPT2_CLKOUTSEL(x) (UNION_READ_BIT_FS(HW_SIM_SOPT2_ADDR(x), hw_sim_sopt2, B.CLKOUTSEL))
#define HW_SIM_SOPT2_ADDR(x) ((x) + 0x1004U)
#define BR_SIM_SCGC6_FTF(x) (ADDRESS_READ32(BITBAND_ADDRESS32(HW_SIM_SCGC6_ADDR(x), BP_SIM_SCGC6_FTF)))
`
	if string(got) != want {
		t.Errorf("file =\n%s\nwant\n%s", got, want)
	}
}

func TestRunRewriteDryRun(t *testing.T) {
	path := writeTemp(t, "sim.h", fiveLines)

	var stdout, stderr bytes.Buffer
	if err := runRewrite(rewrite.Builtin(), []string{path}, true, nil, &stdout, &stderr); err != nil {
		t.Fatalf("runRewrite() error = %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != fiveLines {
		t.Error("dry run wrote the file")
	}

	out := stdout.String()
	for _, want := range []string{
		path + ":1 write-register-2",
		"- #define BW_SIM_SOPT2_CLKOUTSEL(x, v) (HW_SIM_SOPT2_WR(x, v))",
		"+ #define BW_SIM_SOPT2_CLKOUTSEL(x, v) (UNION_WRITE_REG_FS(HW_SIM_SOPT2_ADDR(x), hw_sim_sopt2, v))",
		path + ":3 read-bit-1",
		path + ":5 read-bitband32-1",
		"Changed 3 lines\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("preview to a buffer should not be colored")
	}
}

func TestRunRewriteStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	in := strings.NewReader("#define BW_FOO(x, v) (HW_FOO_WR(x, v))\n")
	if err := runRewrite(rewrite.Builtin(), []string{"-"}, false, in, &stdout, &stderr); err != nil {
		t.Fatalf("runRewrite() error = %v", err)
	}
	if want := "#define BW_FOO(x, v) (UNION_WRITE_REG_FS(HW_FOO_ADDR(x), hw_foo, v))\n"; stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	if stderr.String() != "Changed 1 line\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunRewriteMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.h")
	err := runRewrite(rewrite.Builtin(), []string{missing}, false, nil, &stdout, &stderr)
	if err == nil {
		t.Fatal("runRewrite() expected error")
	}
	if stdout.Len() != 0 {
		t.Errorf("summary printed after failure: %q", stdout.String())
	}
}

func TestRunCheck(t *testing.T) {
	dirty := writeTemp(t, "dirty.h", fiveLines)
	clean := writeTemp(t, "clean.h", "int x;\n")

	var out bytes.Buffer
	if err := runCheck(rewrite.Builtin(), []string{clean}, false, nil, &out); err != nil {
		t.Errorf("runCheck(clean) error = %v", err)
	}
	if out.String() != "Changed 0 lines\n" {
		t.Errorf("clean output = %q", out.String())
	}

	out.Reset()
	err := runCheck(rewrite.Builtin(), []string{clean, dirty}, true, nil, &out)
	if err == nil {
		t.Fatal("runCheck(dirty) expected error")
	}
	if !strings.Contains(err.Error(), "3 unconverted") {
		t.Errorf("error = %v", err)
	}
	if out.String() != "Changed 3 lines\n" {
		t.Errorf("quiet output = %q", out.String())
	}

	got, _ := os.ReadFile(dirty)
	if string(got) != fiveLines {
		t.Error("check modified the file")
	}
}

func TestLoadRules(t *testing.T) {
	extra := writeTemp(t, "extra.yaml", "rules:\n  - name: svc\n    pattern: 'uvisor_bitband\\((.+)\\)'\n    replace: 'ADDRESS_WRITE32(${1})'\n")

	rules, err := loadRules([]string{extra}, false)
	if err != nil {
		t.Fatalf("loadRules() error = %v", err)
	}
	builtin := len(rewrite.Builtin())
	if len(rules) != builtin+1 {
		t.Fatalf("got %d rules, want %d", len(rules), builtin+1)
	}
	if rules[builtin].Name != "svc" {
		t.Errorf("extra rule not appended last: %s", rules[builtin].Name)
	}

	rules, err = loadRules([]string{extra}, true)
	if err != nil {
		t.Fatalf("loadRules(noBuiltin) error = %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("got %d rules without built-ins, want 1", len(rules))
	}

	if _, err := loadRules(nil, true); err == nil {
		t.Error("loadRules() with no rules expected error")
	}
	if _, err := loadRules([]string{extra + ".missing"}, false); err == nil {
		t.Error("loadRules() with missing file expected error")
	}
}

func TestRulesMarkdown(t *testing.T) {
	md := rulesMarkdown(rewrite.Builtin())

	lines := strings.Split(strings.TrimSpace(md), "\n")
	var rows []string
	for _, l := range lines {
		if strings.HasPrefix(l, "| ") && !strings.HasPrefix(l, "| # ") {
			rows = append(rows, l)
		}
	}
	if len(rows) != 18 {
		t.Fatalf("got %d table rows, want 18", len(rows))
	}
	if !strings.HasPrefix(rows[0], "| 1 | write-register-2 | write | register | 2 | - |") {
		t.Errorf("first row = %q", rows[0])
	}
	if !strings.HasPrefix(rows[17], "| 18 | read-bitband8-2 | read | bitband | 2 | 8 |") {
		t.Errorf("last row = %q", rows[17])
	}
}

func TestRuleFileSchema(t *testing.T) {
	bts, err := ruleFileSchema()
	if err != nil {
		t.Fatalf("ruleFileSchema() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(bts, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	for _, want := range []string{"RuleFile", "RuleSpec", "pattern", "replace"} {
		if !strings.Contains(string(bts), want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
