// Package rewrite converts Freescale register-access macros (BW_*/BR_*) into the
// uVisor HAL dialect (UNION_WRITE_REG_FS, ADDRESS_WRITE32, ...).
//
// A RuleSet is an ordered priority list: for every line the first rule whose
// pattern matches is applied and no other rule is tried.
package rewrite

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Family tells which macro head a rule reacts to.
type Family string

const (
	Write Family = "write" // BW_ macros
	Read  Family = "read"  // BR_ macros
)

// Mechanism is the access method a rule targets.
type Mechanism string

const (
	Register Mechanism = "register"
	Bitband  Mechanism = "bitband"
	Custom   Mechanism = "custom"
)

// Transform produces the replacement for one match of a rule's pattern.
// Implementations append to dst, like regexp.Regexp.ExpandString.
type Transform interface {
	Expand(dst []byte, re *regexp.Regexp, src string, match []int) []byte
}

// Template is a literal replacement referencing capture groups as ${N}.
type Template string

func (t Template) Expand(dst []byte, re *regexp.Regexp, src string, match []int) []byte {
	return re.ExpandString(dst, string(t), src, match)
}

// Func computes the replacement from the captured groups. groups[0] is the
// whole match; unmatched optional groups are empty.
type Func func(groups []string) string

func (f Func) Expand(dst []byte, _ *regexp.Regexp, src string, match []int) []byte {
	return append(dst, f(submatches(src, match))...)
}

func submatches(src string, match []int) []string {
	groups := make([]string, len(match)/2)
	for i := range groups {
		if lo, hi := match[2*i], match[2*i+1]; lo >= 0 {
			groups[i] = src[lo:hi]
		}
	}
	return groups
}

// Rule pairs a pattern with the transform applied to its matches.
type Rule struct {
	Name      string
	Family    Family
	Mechanism Mechanism
	Arity     int
	Width     int // bit-band access width, 0 for register rules
	Pattern   *regexp.Regexp
	Transform Transform
}

// Apply replaces every non-overlapping match of the rule in line.
// It reports false, and returns line untouched, when nothing matched.
func (r *Rule) Apply(line string) (string, bool) {
	matches := r.Pattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return line, false
	}

	out := make([]byte, 0, len(line)+32)
	last := 0
	for _, m := range matches {
		out = append(out, line[last:m[0]]...)
		out = r.Transform.Expand(out, r.Pattern, line, m)
		last = m[1]
	}
	out = append(out, line[last:]...)
	return string(out), true
}

// LineResult is the outcome of running a RuleSet over one line.
type LineResult struct {
	Text    string
	Matched bool
	Rule    *Rule // nil when nothing matched
}

// RuleSet is an ordered list of rules; earlier rules take priority.
type RuleSet []*Rule

// Rewrite strips trailing whitespace from line and applies the first
// matching rule.
func (rs RuleSet) Rewrite(line string) LineResult {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	for _, r := range rs {
		if out, ok := r.Apply(line); ok {
			return LineResult{Text: out, Matched: true, Rule: r}
		}
	}
	return LineResult{Text: line}
}

// Summary formats the end-of-run report.
func Summary(changed int) string {
	if changed == 1 {
		return "Changed 1 line"
	}
	return fmt.Sprintf("Changed %d lines", changed)
}
