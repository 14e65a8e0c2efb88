package lint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSeverity is returned when parsing an unrecognised severity name.
var ErrUnknownSeverity = errors.New("unknown severity")

// Severity classifies a finding.
type Severity uint8

// Severities, in the order rules declare them.
const (
	SeverityStyle Severity = iota
	SeverityWarning
	SeverityPerformance
	SeverityDefect
	SeverityCodeSmell
)

var severityNames = [...]string{
	SeverityStyle:       "Style",
	SeverityWarning:     "Warning",
	SeverityPerformance: "Performance",
	SeverityDefect:      "Defect",
	SeverityCodeSmell:   "CodeSmell",
}

// severityWeight orders severities for threshold checks such as --fail-on.
var severityWeight = [...]int{
	SeverityStyle:       1,
	SeverityCodeSmell:   2,
	SeverityPerformance: 3,
	SeverityWarning:     4,
	SeverityDefect:      5,
}

func (s Severity) String() string {
	if int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", s)
	}

	return severityNames[s]
}

// AtLeast reports whether s is as severe as threshold or more.
func (s Severity) AtLeast(threshold Severity) bool {
	if int(s) >= len(severityWeight) || int(threshold) >= len(severityWeight) {
		return false
	}

	return severityWeight[s] >= severityWeight[threshold]
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for i, candidate := range severityNames {
		if strings.EqualFold(candidate, name) {
			return Severity(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
