// Package snippet renders a single pipeline step as a YAML fragment.
//
// The output is meant to be appended under a "steps:" list and only covers
// the restricted shape the pipeline itself reads back: two-space indentation,
// block mappings and sequences, and conservatively quoted scalars.
package snippet

import (
	"strings"

	"github.com/jingkaihe/stepkit/pkg/argvalue"
)

// DefaultMaxDepth caps how many nested mappings and sequences of the "with"
// tree are rendered.
const DefaultMaxDepth = 64

const (
	IssueNameRequired   = "name is required"
	IssueActionRequired = "action is required"
	IssueTooDeep        = "input too deeply nested"
)

// Step is the descriptor rendered into a fragment
type Step struct {
	Name   string
	Action string
	// With holds the step arguments; null is rendered as an empty mapping.
	With argvalue.Value
}

// Result is the rendered fragment plus any validation issues
type Result struct {
	YAML   string   `json:"yaml"`
	Issues []string `json:"issues"`
	Lines  []string `json:"-"`
}

// GetIssues returns the validation issues
func (r Result) GetIssues() []string {
	return r.Issues
}

// Emitter renders steps. The zero value uses DefaultMaxDepth.
type Emitter struct {
	maxDepth int
}

// Option configures an Emitter
type Option func(*Emitter)

// WithMaxDepth overrides the nesting cap; values below 1 restore the default
func WithMaxDepth(depth int) Option {
	return func(e *Emitter) {
		e.maxDepth = depth
	}
}

// NewEmitter creates an emitter
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StepFromArgs reads name, action and with from a skill payload. Non-string
// scalars contribute their text, numbers in the same form the fragment uses
// for argument values; null and structured names count as empty.
func StepFromArgs(args *argvalue.Mapping) Step {
	var step Step
	if v, ok := args.Get("name"); ok {
		step.Name = headerText(v)
	}
	if v, ok := args.Get("action"); ok {
		step.Action = headerText(v)
	}
	if v, ok := args.Get("with"); ok {
		step.With = v
	}
	return step
}

func headerText(v argvalue.Value) string {
	if v.Kind() == argvalue.KindNumber {
		return FormatNumber(v.Text())
	}
	return v.ScalarText()
}

// Emit renders step. It never fails: problems are reported as issues and the
// fragment is produced regardless.
func (e *Emitter) Emit(step Step) Result {
	issues := []string{}

	name := argvalue.TrimSpace(step.Name)
	action := argvalue.TrimSpace(step.Action)
	if name == "" {
		issues = append(issues, IssueNameRequired)
	}
	if action == "" {
		issues = append(issues, IssueActionRequired)
	}

	w := &writer{maxDepth: e.depthLimit()}
	w.lines = append(w.lines,
		"- name: "+QuoteString(name),
		"  action: "+QuoteString(action),
		"  with:",
	)

	with := step.With
	if with.IsNull() {
		with = argvalue.FromMapping(nil)
	}
	w.write(with, 4, 1)

	if w.truncated {
		issues = append(issues, IssueTooDeep)
	}

	return Result{
		YAML:   strings.Join(w.lines, "\n"),
		Issues: issues,
		Lines:  w.lines,
	}
}

func (e *Emitter) depthLimit() int {
	if e == nil || e.maxDepth < 1 {
		return DefaultMaxDepth
	}
	return e.maxDepth
}

type writer struct {
	lines     []string
	maxDepth  int
	truncated bool
}

// write appends the lines for v at the given indent. depth counts the
// structured values entered so far, starting at 1 for the top of "with".
func (w *writer) write(v argvalue.Value, indent, depth int) {
	if v.IsStructured() && depth > w.maxDepth {
		w.truncated = true
		return
	}

	prefix := strings.Repeat(" ", indent)
	switch v.Kind() {
	case argvalue.KindMapping:
		v.Mapping().Each(func(key string, item argvalue.Value) {
			if item.IsStructured() {
				w.lines = append(w.lines, prefix+key+":")
				w.write(item, indent+2, depth+1)
				return
			}
			w.lines = append(w.lines, prefix+key+": "+Escape(item))
		})
	case argvalue.KindSequence:
		for _, item := range v.Items() {
			if item.IsStructured() {
				w.lines = append(w.lines, prefix+"-")
				w.write(item, indent+2, depth+1)
				continue
			}
			w.lines = append(w.lines, prefix+"- "+Escape(item))
		}
	default:
		w.lines = append(w.lines, prefix+Escape(v))
	}
}
