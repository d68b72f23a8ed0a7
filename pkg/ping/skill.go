package ping

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
	Host  string `json:"host,omitempty" jsonschema:"description=Host to ping"`
	Count int    `json:"count,omitempty" jsonschema:"description=Number of pings,default=1"`
}

// Skill exposes the simulated ping as a stepkit skill
type Skill struct {
	pinger *Pinger
}

var (
	_ skill.Skill        = &Skill{}
	_ skill.Configurable = &Skill{}
)

// NewSkill creates the ping skill
func NewSkill() *Skill {
	return &Skill{pinger: NewPinger()}
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

// Configure applies the argument environment prefix
func (s *Skill) Configure(cfg config.Config) {
	s.pinger = NewPinger(WithEnvPrefix(cfg.ArgEnvPrefix))
}

func (s *Skill) Execute(ctx context.Context, args *argvalue.Mapping) skill.Result {
	result := s.pinger.Ping(args)
	logger.G(ctx).WithField("host", result.Host.DisplayText()).Debug("simulated ping")
	return result
}
