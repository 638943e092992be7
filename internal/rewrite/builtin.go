package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// macro head shapes; each captures "#define NAME(params) (" as group 1
const (
	writeHead2 = `(#define\s+BW_[A-Za-z_0-9]+\(x, v\)\s+\()`
	writeHead3 = `(#define\s+BW_[A-Za-z_0-9]+\(x, n, v\)\s+\()`
	readHead1  = `(#define\s+BR_[A-Za-z_0-9]+\(x\)\s+\()`
	readHead2  = `(#define\s+BR_[A-Za-z_0-9]+\(x, n\)\s+\()`

	regName = `(HW_[A-Za-z_0-9]+)`
)

var bitbandWidths = []int{32, 16, 8}

type head struct {
	pattern string
	arity   int
	addr    string // arguments forwarded to HW_*_ADDR
}

var (
	writeHeads = []head{
		{pattern: writeHead2, arity: 2, addr: "x"},
		{pattern: writeHead3, arity: 3, addr: "x, n"},
	}
	readHeads = []head{
		{pattern: readHead1, arity: 1, addr: "x"},
		{pattern: readHead2, arity: 2, addr: "x, n"},
	}
)

// Builtin returns the conversion table in priority order: register writes,
// bit-band writes, register reads, bit-band reads.
func Builtin() RuleSet {
	var rs RuleSet

	for _, h := range writeHeads {
		rs = append(rs, writeRegister(h))
	}
	for _, w := range bitbandWidths {
		for _, h := range writeHeads {
			rs = append(rs, writeBitband(h, w))
		}
	}
	for _, h := range readHeads {
		rs = append(rs, readBit(h), readRegister(h))
	}
	for _, w := range bitbandWidths {
		for _, h := range readHeads {
			rs = append(rs, readBitband(h, w))
		}
	}
	return rs
}

// HW_FOO_WR(x, v) -> UNION_WRITE_REG_FS(HW_FOO_ADDR(x), hw_foo, v)
func writeRegister(h head) *Rule {
	addr := h.addr
	return &Rule{
		Name:      fmt.Sprintf("write-register-%d", h.arity),
		Family:    Write,
		Mechanism: Register,
		Arity:     h.arity,
		Pattern:   regexp.MustCompile(h.pattern + regName + `_WR\(` + regexp.QuoteMeta(addr) + `, (.*v.*)\)\)`),
		Transform: Func(func(g []string) string {
			return g[1] + "UNION_WRITE_REG_FS(" + g[2] + "_ADDR(" + addr + "), " + strings.ToLower(g[2]) + ", " + g[3] + "))"
		}),
	}
}

// BITBAND_ACCESSn(expr) = (v) -> ADDRESS_WRITEn(BITBAND_ADDRESSn(expr), v)
func writeBitband(h head, width int) *Rule {
	return &Rule{
		Name:      fmt.Sprintf("write-bitband%d-%d", width, h.arity),
		Family:    Write,
		Mechanism: Bitband,
		Arity:     h.arity,
		Width:     width,
		Pattern:   regexp.MustCompile(fmt.Sprintf(`%sBITBAND_ACCESS%d\((.+)\) = \(v\)\)`, h.pattern, width)),
		Transform: Template(fmt.Sprintf("${1}ADDRESS_WRITE%d(BITBAND_ADDRESS%d(${2}), v))", width, width)),
	}
}

// HW_FOO(x).B.FIELD -> UNION_READ_BIT_FS(HW_FOO_ADDR(x), hw_foo, B.FIELD)
func readBit(h head) *Rule {
	addr := h.addr
	return &Rule{
		Name:      fmt.Sprintf("read-bit-%d", h.arity),
		Family:    Read,
		Mechanism: Register,
		Arity:     h.arity,
		Pattern:   regexp.MustCompile(h.pattern + regName + `\(` + regexp.QuoteMeta(addr) + `\)\.B\.(.+)\)`),
		Transform: Func(func(g []string) string {
			return g[1] + "UNION_READ_BIT_FS(" + g[2] + "_ADDR(" + addr + "), " + strings.ToLower(g[2]) + ", B." + g[3] + "))"
		}),
	}
}

// HW_FOO(x).U -> UNION_READ_REG_FS(HW_FOO_ADDR(x), hw_foo)
func readRegister(h head) *Rule {
	addr := h.addr
	return &Rule{
		Name:      fmt.Sprintf("read-register-%d", h.arity),
		Family:    Read,
		Mechanism: Register,
		Arity:     h.arity,
		Pattern:   regexp.MustCompile(h.pattern + regName + `\(` + regexp.QuoteMeta(addr) + `\)\.U\)`),
		Transform: Func(func(g []string) string {
			return g[1] + "UNION_READ_REG_FS(" + g[2] + "_ADDR(" + addr + "), " + strings.ToLower(g[2]) + "))"
		}),
	}
}

// BITBAND_ACCESSn(expr) -> ADDRESS_READn(BITBAND_ADDRESSn(expr))
func readBitband(h head, width int) *Rule {
	return &Rule{
		Name:      fmt.Sprintf("read-bitband%d-%d", width, h.arity),
		Family:    Read,
		Mechanism: Bitband,
		Arity:     h.arity,
		Width:     width,
		Pattern:   regexp.MustCompile(fmt.Sprintf(`%sBITBAND_ACCESS%d\((.+)\)\)`, h.pattern, width)),
		Transform: Template(fmt.Sprintf("${1}ADDRESS_READ%d(BITBAND_ADDRESS%d(${2})))", width, width)),
	}
}
