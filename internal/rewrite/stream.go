package rewrite

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// StdinPath names standard input/output in a path list.
const StdinPath = "-"

// Change records one rewritten line.
type Change struct {
	Path   string
	Line   int
	Before string
	After  string
	Rule   *Rule
}

// Rewriter applies a RuleSet to whole streams and files.
type Rewriter struct {
	Rules RuleSet

	// DryRun computes changes without touching any file.
	DryRun bool

	// OnChange, when set, is called for every rewritten line in input order.
	OnChange func(Change)

	// Stdin and Stdout back the "-" path; they default to os.Stdin/os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// Rewrite copies r to w line by line, rewriting each line with the rule set.
// Every output line ends with a newline. It returns the number of changed lines.
func (rw *Rewriter) Rewrite(path string, r io.Reader, w io.Writer) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	bw := bufio.NewWriter(w)
	changed := 0
	for n := 1; sc.Scan(); n++ {
		before := sc.Text()
		res := rw.Rules.Rewrite(before)
		if res.Matched {
			changed++
			slog.Debug("Rewrote line", "file", path, "line", n, "rule", res.Rule.Name)
			if rw.OnChange != nil {
				rw.OnChange(Change{Path: path, Line: n, Before: before, After: res.Text, Rule: res.Rule})
			}
		}
		if _, err := bw.WriteString(res.Text); err != nil {
			return changed, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return changed, err
		}
	}
	if err := sc.Err(); err != nil {
		return changed, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return changed, bw.Flush()
}

// RewriteFile rewrites path in place and returns the number of changed lines.
// The new content replaces the file atomically; no backup is kept.
func (rw *Rewriter) RewriteFile(path string) (int, error) {
	if path == StdinPath {
		return rw.rewriteStdio()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	if rw.DryRun {
		return rw.Rewrite(path, bytes.NewReader(data), io.Discard)
	}

	var out bytes.Buffer
	out.Grow(len(data))
	changed, err := rw.Rewrite(path, bytes.NewReader(data), &out)
	if err != nil {
		return changed, err
	}
	if bytes.Equal(out.Bytes(), data) {
		return changed, nil
	}
	if err := replaceFile(path, out.Bytes()); err != nil {
		return changed, err
	}
	return changed, nil
}

// RewriteFiles processes paths in order and returns the running total.
// It stops at the first error; files already handled stay rewritten.
func (rw *Rewriter) RewriteFiles(paths []string) (int, error) {
	total := 0
	for _, path := range paths {
		n, err := rw.RewriteFile(path)
		total += n
		if err != nil {
			return total, err
		}
		slog.Debug("Processed file", "file", path, "changed", n)
	}
	return total, nil
}

func (rw *Rewriter) rewriteStdio() (int, error) {
	in, out := rw.Stdin, rw.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if rw.DryRun {
		out = io.Discard
	}
	return rw.Rewrite("<stdin>", in, out)
}

func replaceFile(path string, data []byte) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
