package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleFile is the on-disk format for extra rules. JSON files parse too,
// since JSON is valid YAML.
type RuleFile struct {
	Rules []RuleSpec `yaml:"rules" json:"rules" jsonschema:"title=Rules,description=Rules appended after the built-in table in priority order"`
}

// RuleSpec describes one user rule.
type RuleSpec struct {
	Name    string `yaml:"name" json:"name" jsonschema:"title=Name,description=Identifier shown in previews and rule listings"`
	Family  string `yaml:"family,omitempty" json:"family,omitempty" jsonschema:"title=Family,enum=write,enum=read,description=Macro family the rule targets"`
	Pattern string `yaml:"pattern" json:"pattern" jsonschema:"title=Pattern,description=RE2 regular expression matched anywhere in the line"`
	Replace string `yaml:"replace" json:"replace" jsonschema:"title=Replacement,description=Template using ${N} group references; ${N:lower} and ${N:upper} fold case"`
}

// ${1:lower}, ${name:upper}
var foldRef = regexp.MustCompile(`\$\{(\w+):(lower|upper)\}`)

// LoadRuleFile reads and compiles the rules stored at path.
func LoadRuleFile(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// ParseRules compiles a YAML or JSON rule document.
func ParseRules(data []byte) (RuleSet, error) {
	var rf RuleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	rs := make(RuleSet, 0, len(rf.Rules))
	for i, spec := range rf.Rules {
		r, err := spec.Compile()
		if err != nil {
			name := spec.Name
			if name == "" {
				name = "#" + strconv.Itoa(i+1)
			}
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// Compile turns the spec into a Rule.
func (s RuleSpec) Compile() (*Rule, error) {
	if s.Pattern == "" {
		return nil, errors.New("empty pattern")
	}
	if s.Replace == "" {
		return nil, errors.New("empty replacement")
	}

	fam := Family(s.Family)
	switch fam {
	case Write, Read, "":
	default:
		return nil, fmt.Errorf("unknown family %q", s.Family)
	}

	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	var t Transform = Template(s.Replace)
	if foldRef.MatchString(s.Replace) {
		t = foldTemplate(s.Replace)
	}

	return &Rule{
		Name:      s.Name,
		Family:    fam,
		Mechanism: Custom,
		Pattern:   re,
		Transform: t,
	}, nil
}

// foldTemplate is a Template whose ${N:lower}/${N:upper} references are
// case-folded before the regular expansion runs.
type foldTemplate string

func (t foldTemplate) Expand(dst []byte, re *regexp.Regexp, src string, match []int) []byte {
	folded := foldRef.ReplaceAllStringFunc(string(t), func(ref string) string {
		m := foldRef.FindStringSubmatch(ref)
		val := string(re.ExpandString(nil, "${"+m[1]+"}", src, match))
		if m[2] == "upper" {
			val = strings.ToUpper(val)
		} else {
			val = strings.ToLower(val)
		}
		// the folded text goes through ExpandString again
		return strings.ReplaceAll(val, "$", "$$")
	})
	return re.ExpandString(dst, folded, src, match)
}
