// Package review checks that a YAML document has the minimal shape of a step
// list. It looks at line prefixes only and is deliberately not a YAML parser:
// its consumers rely on exactly four markers and nothing more.
package review

import (
	"strings"

	"github.com/jingkaihe/stepkit/pkg/argvalue"
)

const (
	IssueEmpty         = "yaml is empty"
	IssueMissingSteps  = "missing steps section"
	IssueMissingName   = "missing step name"
	IssueMissingAction = "missing action field"
	IssueMissingWith   = "missing with field"
)

const (
	markerSteps    = "steps:"
	markerStepName = "- name:"
	markerAction   = "action:"
	markerWith     = "with:"
)

// Markers records which structural markers were seen in a document
type Markers struct {
	Steps    bool
	StepName bool
	Action   bool
	With     bool
}

// Result is the outcome of a lint run
type Result struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"issues"`
}

// GetIssues returns the lint issues
func (r Result) GetIssues() []string {
	return r.Issues
}

// Scan reports which markers start any whitespace-trimmed line of text
func Scan(text string) Markers {
	var m Markers
	for _, line := range splitLines(text) {
		line = argvalue.TrimSpace(line)
		m.Steps = m.Steps || strings.HasPrefix(line, markerSteps)
		m.StepName = m.StepName || strings.HasPrefix(line, markerStepName)
		m.Action = m.Action || strings.HasPrefix(line, markerAction)
		m.With = m.With || strings.HasPrefix(line, markerWith)
	}
	return m
}

// Lint checks text for the step list markers. Action and with are only
// reported once a step name line exists.
func Lint(text string) Result {
	issues := []string{}
	if argvalue.TrimSpace(text) == "" {
		issues = append(issues, IssueEmpty)
	}

	m := Scan(text)
	if !m.Steps {
		issues = append(issues, IssueMissingSteps)
	}
	if !m.StepName {
		issues = append(issues, IssueMissingName)
	}
	if m.StepName && !m.Action {
		issues = append(issues, IssueMissingAction)
	}
	if m.StepName && !m.With {
		issues = append(issues, IssueMissingWith)
	}

	return Result{
		OK:     len(issues) == 0,
		Issues: issues,
	}
}

// splitLines breaks text on every line boundary a YAML author might produce,
// including CR, CRLF and the Unicode line and paragraph separators.
func splitLines(text string) []string {
	return strings.FieldsFunc(text, isLineBreak)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
