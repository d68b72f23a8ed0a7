package review

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

// Input documents the payload accepted by the skill
type Input struct {
	YAML string `json:"yaml" jsonschema:"description=YAML document to check"`
}

// Skill exposes the linter as a stepkit skill
type Skill struct{}

var _ skill.Skill = &Skill{}

// NewSkill creates the yaml-review skill
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
	var text string
	if v, ok := args.Get("yaml"); ok && v.Kind() == argvalue.KindString {
		text = v.Text()
	}

	result := Lint(text)
	logger.G(ctx).WithField("ok", result.OK).Debug("linted document")
	return result
}
