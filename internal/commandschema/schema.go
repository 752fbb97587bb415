// Package commandschema checks command documents against the JSON schemas
// of the content-type commands before they are decoded and submitted.
package commandschema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/commands.json
var files embed.FS

const (
	KindCreatePaper      = "create_paper"
	KindUpdatePaper      = "update_paper"
	KindPaperContents    = "paper_contents"
	KindImportPaper      = "import_paper"
	KindCreateTemplate   = "create_template"
	KindUpdateTemplate   = "update_template"
	KindValidateInstance = "validate_instance"
)

// Kinds lists every command kind that has a schema.
var Kinds = []string{
	KindCreatePaper,
	KindUpdatePaper,
	KindPaperContents,
	KindImportPaper,
	KindCreateTemplate,
	KindUpdateTemplate,
	KindValidateInstance,
}

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Kind       string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s document is invalid:\n  - %s", e.Kind, strings.Join(e.Violations, "\n  - "))
}

var (
	loadOnce sync.Once
	schemas  map[string]*gojsonschema.Schema
	loadErr  error
)

func load() {
	raw, err := files.ReadFile("schemas/commands.json")
	if err != nil {
		loadErr = fmt.Errorf("read command schemas: %w", err)
		return
	}
	var doc struct {
		Definitions map[string]any `json:"definitions"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		loadErr = fmt.Errorf("decode command schemas: %w", err)
		return
	}
	schemas = make(map[string]*gojsonschema.Schema, len(Kinds))
	for _, kind := range Kinds {
		root := map[string]any{
			"$schema":     "http://json-schema.org/draft-07/schema#",
			"definitions": doc.Definitions,
			"allOf":       []any{map[string]any{"$ref": "#/definitions/" + kind}},
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(root))
		if err != nil {
			loadErr = fmt.Errorf("compile %s schema: %w", kind, err)
			return
		}
		schemas[kind] = s
	}
}

// Validate checks doc against the schema of kind. A document that does not
// match comes back as a *ValidationError.
func Validate(kind string, doc []byte) error {
	loadOnce.Do(load)
	if loadErr != nil {
		return loadErr
	}
	s, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("unknown command kind %q", kind)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate %s document: %w", kind, err)
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	sort.Strings(violations)
	return &ValidationError{Kind: kind, Violations: violations}
}
