package plancheck

import (
	"context"
	_ "embed"

	"github.com/invopop/jsonschema"
	"github.com/jingkaihe/stepkit/pkg/argvalue"
	"github.com/jingkaihe/stepkit/pkg/logger"
	"github.com/jingkaihe/stepkit/pkg/skill"
)

//go:embed SKILL.md
var skillDoc []byte

var doc = skill.MustParseDocument(skillDoc)

// PlanStep documents the shape of a single step
type PlanStep struct {
	StepName string `json:"step_name" jsonschema:"description=Unique name of the step"`
}

// Input documents the payload accepted by the skill
type Input struct {
	Steps    []PlanStep `json:"steps,omitempty" jsonschema:"description=Plan steps"`
	PlanJSON string     `json:"plan_json,omitempty" jsonschema:"description=Plan encoded as a JSON string; used when steps is absent"`
}

// Skill exposes the plan validator as a stepkit skill
type Skill struct{}

var _ skill.Skill = &Skill{}

// NewSkill creates the plan-check skill
func NewSkill() *Skill {
	return &Skill{}
}

func (s *Skill) Name() string {
	return doc.Name
}

func (s *Skill) Description() string {
	return doc.Description
}

func (s *Skill) GenerateSchema() *jsonschema.Schema {
	return skill.GenerateSchema[Input]()
}

func (s *Skill) Execute(ctx context.Context, args *argvalue.Mapping) skill.Result {
	log := logger.G(ctx)

	steps, err := Steps(args)
	if err != nil {
		log.WithError(err).Info("ignoring plan_json")
	}

	result := Check(steps)
	log.WithField("step_count", result.StepCount).Debug("checked plan")
	return result
}
