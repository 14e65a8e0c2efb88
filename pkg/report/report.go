// Package report renders runner results for terminals and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/runner"
)

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the accepted format names.
var Formats = []string{FormatText, FormatTable, FormatJSON}

// Write renders rep in format.
func Write(w io.Writer, format string, rep runner.Report) error {
	switch format {
	case FormatText, "":
		return writeText(w, rep)
	case FormatTable:
		return writeTable(w, rep)
	case FormatJSON:
		return writeJSON(w, rep)
	default:
		return fmt.Errorf("%w: %q (want %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

func severityColor(sev lint.Severity) *color.Color {
	switch sev {
	case lint.SeverityDefect:
		return color.New(color.FgRed, color.Bold)
	case lint.SeverityWarning:
		return color.New(color.FgYellow)
	case lint.SeverityPerformance:
		return color.New(color.FgMagenta)
	case lint.SeverityCodeSmell:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgBlue)
	}
}

func writeText(w io.Writer, rep runner.Report) error {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	findings := rep.Findings()

	for _, f := range findings {
		_, err := fmt.Fprintf(w, "%s:%d:%d: %s: %s %s\n",
			bold.Sprint(f.File), f.Position.Line, f.Position.Column,
			severityColor(f.Severity).Sprint(f.Severity), f.Message, faint.Sprintf("[%s]", f.RuleID))
		if err != nil {
			return fmt.Errorf("write finding: %w", err)
		}
	}

	for _, failed := range rep.Failed() {
		if _, err := color.New(color.FgRed).Fprintf(w, "%s: %v\n", failed.Path, failed.Err); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	return writeSummary(w, rep, len(findings))
}

func writeSummary(w io.Writer, rep runner.Report, findings int) error {
	summary := fmt.Sprintf("%d files, %d findings", len(rep.Files), findings)
	if rep.Fixed {
		summary += fmt.Sprintf(", %d fixes applied", rep.Applied())
	}

	if failed := len(rep.Failed()); failed > 0 {
		summary += fmt.Sprintf(", %d files failed", failed)
	}

	c := color.New(color.FgGreen)
	if findings > 0 {
		c = color.New(color.FgYellow)
	}

	if _, err := c.Fprintln(w, summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

func writeTable(w io.Writer, rep runner.Report) error {
	findings := rep.Findings()

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Line", "Col", "Severity", "Rule", "Message"})

	for _, f := range findings {
		tbl.AppendRow(table.Row{f.File, f.Position.Line, f.Position.Column, f.Severity, f.RuleID, f.Message})
	}

	for _, failed := range rep.Failed() {
		tbl.AppendRow(table.Row{failed.Path, "", "", "error", "", failed.Err.Error()})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%d files", len(rep.Files)), "", "", "", "", fmt.Sprintf("%d findings", len(findings))})
	tbl.Render()

	return nil
}

// Finding is the wire form of a lint finding, shared by the JSON report and
// the MCP tool.
type Finding struct {
	Rule            string        `json:"rule"`
	Message         string        `json:"message"`
	File            string        `json:"file"`
	Line            int           `json:"line"`
	Column          int           `json:"column"`
	Start           int           `json:"start"`
	End             int           `json:"end"`
	Severity        lint.Severity `json:"severity"`
	AutoCorrectable bool          `json:"autoCorrectable"`
	Corrected       bool          `json:"corrected,omitempty"`
}

type jsonError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type jsonReport struct {
	Files    int         `json:"files"`
	Applied  int         `json:"applied,omitempty"`
	Findings []Finding   `json:"findings"`
	Errors   []jsonError `json:"errors,omitempty"`
}

// JSONFindings converts findings to their wire form.
func JSONFindings(findings []lint.Finding) []Finding {
	out := make([]Finding, 0, len(findings))

	for _, f := range findings {
		out = append(out, Finding{
			Rule:            f.RuleID,
			Message:         f.Message,
			File:            f.File,
			Line:            f.Position.Line,
			Column:          f.Position.Column,
			Start:           f.Start,
			End:             f.End,
			Severity:        f.Severity,
			AutoCorrectable: f.AutoCorrectable,
			Corrected:       f.Corrected,
		})
	}

	return out
}

func writeJSON(w io.Writer, rep runner.Report) error {
	doc := jsonReport{
		Files:    len(rep.Files),
		Applied:  rep.Applied(),
		Findings: JSONFindings(rep.Findings()),
	}

	for _, failed := range rep.Failed() {
		doc.Errors = append(doc.Errors, jsonError{File: failed.Path, Error: failed.Err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

// WriteRules renders the rule catalogue as a table.
func WriteRules(w io.Writer, rules []lint.Rule) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Rule", "Severity", "Fix", "Oracle", "Description"})

	for i := range rules {
		rule := &rules[i]
		tbl.AppendRow(table.Row{rule.ID, rule.Severity, yesNo(rule.AutoCorrectable()), yesNo(rule.RequiresTypeOracle), rule.Description})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%d rules", len(rules)), "", "", "", ""})
	tbl.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return ""
}
