package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/chainlint/pkg/runner"
)

const diffContext = 3

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// WriteDiff prints a unified diff for every file the fix run changed.
func WriteDiff(w io.Writer, rep runner.Report) error {
	for _, f := range rep.Files {
		if f.Err != nil || !f.Changed() {
			continue
		}

		if _, err := io.WriteString(w, UnifiedDiff(f.Path, string(f.Source), string(f.Output))); err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}

// UnifiedDiff renders a line diff between before and after with three lines
// of context. Equal inputs render as the empty string.
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	lines := diffLines(before, after)

	var sb strings.Builder

	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)

	for _, h := range hunks(lines) {
		writeHunk(&sb, lines, h)
	}

	return sb.String()
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var out []diffLine

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			out = append(out, diffLine{op: d.Type, text: line})
		}
	}

	return out
}

// hunk is a half-open range over diff lines.
type hunk struct{ from, to int }

func hunks(lines []diffLine) []hunk {
	var out []hunk

	for i, line := range lines {
		if line.op == diffmatchpatch.DiffEqual {
			continue
		}

		from := max(0, i-diffContext)
		to := min(len(lines), i+diffContext+1)

		if n := len(out); n > 0 && from <= out[n-1].to {
			out[n-1].to = max(out[n-1].to, to)

			continue
		}

		out = append(out, hunk{from: from, to: to})
	}

	return out
}

func writeHunk(sb *strings.Builder, lines []diffLine, h hunk) {
	oldStart, newStart := 1, 1

	for _, line := range lines[:h.from] {
		if line.op != diffmatchpatch.DiffInsert {
			oldStart++
		}

		if line.op != diffmatchpatch.DiffDelete {
			newStart++
		}
	}

	var oldLen, newLen int

	for _, line := range lines[h.from:h.to] {
		if line.op != diffmatchpatch.DiffInsert {
			oldLen++
		}

		if line.op != diffmatchpatch.DiffDelete {
			newLen++
		}
	}

	color.New(color.FgCyan).Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldLen, newStart, newLen)

	for _, line := range lines[h.from:h.to] {
		switch line.op {
		case diffmatchpatch.DiffDelete:
			color.New(color.FgRed).Fprintf(sb, "-%s\n", line.text)
		case diffmatchpatch.DiffInsert:
			color.New(color.FgGreen).Fprintf(sb, "+%s\n", line.text)
		default:
			fmt.Fprintf(sb, " %s\n", line.text)
		}
	}
}
