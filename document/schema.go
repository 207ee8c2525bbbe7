package document

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tree.schema.json
var treeSchemaSource []byte

// ErrSchemaValidation reports a serialized tree that does not satisfy the
// document JSON Schema.
var ErrSchemaValidation = errors.New("document: schema validation failed")

// ValidationIssue captures a single schema violation.
type ValidationIssue struct {
	Location string
	Message  string
}

// ValidationError lists every schema violation found in a payload.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return ErrSchemaValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrSchemaValidation
}

var (
	treeSchemaOnce sync.Once
	treeSchema     *jsonschema.Schema
	treeSchemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	treeSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("tree.schema.json", bytes.NewReader(treeSchemaSource)); err != nil {
			treeSchemaErr = fmt.Errorf("document: load schema: %w", err)
			return
		}
		treeSchema, treeSchemaErr = compiler.Compile("tree.schema.json")
	})
	return treeSchema, treeSchemaErr
}

// Validate checks a serialized tree against the document schema.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return fmt.Errorf("document: decode json: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &ValidationError{Issues: collectIssues(validationErr)}
		}
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

// Decode validates data against the schema and decodes it into a tree.
func Decode(data []byte) (*Root, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	root := NewRoot()
	if err := json.Unmarshal(data, root); err != nil {
		return nil, err
	}
	return root, nil
}

func collectIssues(err *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
