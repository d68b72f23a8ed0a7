package skill

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest is the skill.yaml document an orchestrator uses to register a
// skill and its executables.
type Manifest struct {
	Name        string       `yaml:"name"`
	Version     string       `yaml:"version"`
	Description string       `yaml:"description"`
	Executables []Executable `yaml:"executables"`
}

// Executable describes how to invoke the skill binary
type Executable struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Type        string     `yaml:"type"`
	Path        string     `yaml:"path,omitempty"`
	Args        []string   `yaml:"args,omitempty"`
	Parameters  *yaml.Node `yaml:"parameters,omitempty"`
}

// BuildManifest describes s as a single binary executable. path is the
// binary as it should be referenced from the manifest.
func BuildManifest(s Skill, version, path string) (*Manifest, error) {
	params, err := schemaNode(s)
	if err != nil {
		return nil, err
	}

	return &Manifest{
		Name:        s.Name(),
		Version:     version,
		Description: s.Description(),
		Executables: []Executable{
			{
				Name:        s.Name(),
				Description: s.Description(),
				Type:        "binary",
				Path:        path,
				Args:        []string{"run"},
				Parameters:  params,
			},
		},
	}, nil
}

// Render encodes m as a skill.yaml document
func (m *Manifest) Render() ([]byte, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal manifest")
	}
	return out, nil
}

// schemaNode converts the JSON schema into a YAML node. JSON is valid YAML,
// so decoding keeps the property order the reflector produced; the flow
// style is then dropped to get block output.
func schemaNode(s Skill) (*yaml.Node, error) {
	schema := s.GenerateSchema()
	if schema == nil {
		return nil, nil
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal input schema")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to convert input schema")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("input schema is empty")
	}

	node := doc.Content[0]
	blockStyle(node)
	return node, nil
}

func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Style == yaml.DoubleQuotedStyle {
		n.Style = 0
	}
	for _, child := range n.Content {
		blockStyle(child)
	}
}
