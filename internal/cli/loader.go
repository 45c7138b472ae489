package cli

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/debuger6/trino/internal/ir"
)

// Error codes for document loading.
const (
	ErrCodeNotFound          = "E001" // file missing or unreadable
	ErrCodeUnsupportedFormat = "E002" // extension is not .json/.yaml/.yml
	ErrCodeInvalidDocument   = "E003" // not parseable as JSON/YAML
	ErrCodeSchema            = "E004" // document violates the IR schema
	ErrCodeDecode            = "E005" // schema-valid but rejected by a node constructor
)

//go:embed schema.cue
var schemaCUE string

// LoadError represents an error that occurred during document loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadExpression reads an expression document (JSON or YAML by extension),
// validates it against the embedded IR schema, and decodes it into an
// expression tree. Validation runs before decoding so schema violations
// are reported with document-level positions rather than decoder errors.
func LoadExpression(path string) (ir.Expression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var jsonData []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		jsonData = data
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidDocument, Message: fmt.Sprintf("parsing %s: %v", path, err)}
		}
		jsonData, err = json.Marshal(doc)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidDocument, Message: fmt.Sprintf("converting %s: %v", path, err)}
		}
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupportedFormat,
			Message: fmt.Sprintf("%s: unsupported extension %q, want .json, .yaml or .yml", path, filepath.Ext(path)),
		}
	}

	if err := validateDocument(path, jsonData); err != nil {
		return nil, err
	}

	e, err := ir.Decode(jsonData)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding %s: %v", path, err)}
	}
	return e, nil
}

// validateDocument checks a JSON document against the #Expression schema.
func validateDocument(path string, jsonData []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("cli: compiling embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Expression"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("cli: looking up #Expression: %w", err)
	}

	expr, err := cuejson.Extract(path, jsonData)
	if err != nil {
		return &LoadError{Code: ErrCodeInvalidDocument, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return &LoadError{Code: ErrCodeInvalidDocument, Message: fmt.Sprintf("building %s: %v", path, err)}
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true), cue.Final()); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("%s does not match the IR schema: %v", path, err)}
	}
	return nil
}
