package snippet

import (
	"context"
	_ "embed"

	"github.com/invopop/jsonschema"
	"github.com/jingkaihe/stepkit/pkg/argvalue"
	"github.com/jingkaihe/stepkit/pkg/config"
	"github.com/jingkaihe/stepkit/pkg/logger"
	"github.com/jingkaihe/stepkit/pkg/skill"
)

//go:embed SKILL.md
var skillDoc []byte

var doc = skill.MustParseDocument(skillDoc)

// Input documents the payload accepted by the skill
type Input struct {
	Name   string         `json:"name" jsonschema:"description=Step name"`
	Action string         `json:"action" jsonschema:"description=Action identifier the step runs"`
	With   map[string]any `json:"with,omitempty" jsonschema:"description=Arguments passed to the action"`
}

// Skill exposes the emitter as a stepkit skill
type Skill struct {
	emitter *Emitter
}

var (
	_ skill.Skill        = &Skill{}
	_ skill.Configurable = &Skill{}
)

// NewSkill creates the yaml-snippet skill
func NewSkill() *Skill {
	return &Skill{emitter: NewEmitter()}
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

// Configure applies the nesting cap from the configuration
func (s *Skill) Configure(cfg config.Config) {
	s.emitter = NewEmitter(WithMaxDepth(cfg.MaxDepth))
}

func (s *Skill) Execute(ctx context.Context, args *argvalue.Mapping) skill.Result {
	result := s.emitter.Emit(StepFromArgs(args))
	logger.G(ctx).WithField("lines", len(result.Lines)).Debug("rendered step fragment")
	return result
}
