package skill

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Document is a parsed SKILL.md: YAML frontmatter plus markdown instructions
type Document struct {
	Name        string
	Description string
	Content     string
}

// ParseDocument reads the frontmatter and body of a SKILL.md file
func ParseDocument(content []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Document{
		Name:        name,
		Description: strings.TrimSpace(description),
		Content:     extractBodyContent(string(content)),
	}, nil
}

// MustParseDocument is ParseDocument for embedded files known at build time
func MustParseDocument(content []byte) *Document {
	doc, err := ParseDocument(content)
	if err != nil {
		panic(errors.Wrap(err, "invalid embedded SKILL.md"))
	}
	return doc
}

func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}
