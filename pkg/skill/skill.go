// Package skill is the runtime shared by every stepkit binary. A skill is a
// single-shot filter: one JSON object in on stdin, one JSON object out on
// stdout. The runtime owns everything around the filter itself: argument
// decoding, configuration, logging, tracing and the discovery subcommands the
// host agent uses to register the binary as a custom tool.
package skill

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/jingkaihe/stepkit/pkg/argvalue"
	"github.com/jingkaihe/stepkit/pkg/config"
)

// Skill is implemented by every filter
type Skill interface {
	Name() string
	Description() string
	GenerateSchema() *jsonschema.Schema
	// Execute never fails. args is always a mapping, empty when the payload
	// was missing or malformed.
	Execute(ctx context.Context, args *argvalue.Mapping) Result
}

// Result is the JSON document written to stdout
type Result interface {
	GetIssues() []string
}

// Configurable is implemented by skills that read settings
type Configurable interface {
	Configure(cfg config.Config)
}

// GenerateSchema reflects T into an inline JSON schema
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}
