// Package plancheck validates the step list produced by a planning stage.
package plancheck

import (
	"fmt"

	"github.com/jingkaihe/stepkit/pkg/argvalue"
	"github.com/pkg/errors"
)

// IssueEmpty is reported when no steps could be found
const IssueEmpty = "plan steps is empty"

// Result is the outcome of a plan check
type Result struct {
	OK        bool     `json:"ok"`
	Issues    []string `json:"issues"`
	StepCount int      `json:"step_count"`
}

// GetIssues returns the validation issues
func (r Result) GetIssues() []string {
	return r.Issues
}

// Steps extracts the plan steps from a payload. A "steps" list wins;
// otherwise "plan_json" is decoded and may hold either a list of steps or an
// object with a "steps" list. The error explains why plan_json was ignored.
func Steps(args *argvalue.Mapping) ([]argvalue.Value, error) {
	if v, ok := args.Get("steps"); ok && v.Kind() == argvalue.KindSequence {
		return v.Items(), nil
	}

	raw, ok := args.Get("plan_json")
	if !ok || raw.Kind() != argvalue.KindString {
		return nil, nil
	}

	plan, err := argvalue.Parse([]byte(raw.Text()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode plan_json")
	}
	return normalizeSteps(plan), nil
}

func normalizeSteps(plan argvalue.Value) []argvalue.Value {
	switch plan.Kind() {
	case argvalue.KindSequence:
		return plan.Items()
	case argvalue.KindMapping:
		if v, ok := plan.Mapping().Get("steps"); ok && v.Kind() == argvalue.KindSequence {
			return v.Items()
		}
	}
	return nil
}

// Check validates steps. Every step must be an object with a non-blank
// step_name; a null step_name counts as blank.
func Check(steps []argvalue.Value) Result {
	issues := []string{}
	if len(steps) == 0 {
		issues = append(issues, IssueEmpty)
	}

	for i, step := range steps {
		if step.Kind() != argvalue.KindMapping {
			issues = append(issues, fmt.Sprintf("steps[%d] must be object", i))
			continue
		}
		name, _ := step.Mapping().Get("step_name")
		if argvalue.TrimSpace(name.ScalarText()) == "" {
			issues = append(issues, fmt.Sprintf("steps[%d] missing step_name", i))
		}
	}

	return Result{
		OK:        len(issues) == 0,
		Issues:    issues,
		StepCount: len(steps),
	}
}
