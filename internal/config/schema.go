package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaDocument []byte

// validateDocument checks a decoded configuration document against the
// embedded schema and maps the first violation to a ConfigFieldError.
func validateDocument(decoded any) error {
	compiled, err := compileSchema()
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}

	err = compiled.Validate(decoded)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return fieldError(validationErr)
	}
	return fmt.Errorf("config: validate: %w", err)
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.schema.json", bytes.NewReader(schemaDocument)); err != nil {
		return nil, err
	}
	return compiler.Compile("config.schema.json")
}

var quotedNamePattern = regexp.MustCompile(`'([^']+)'`)

// fieldError turns a schema violation into a ConfigFieldError naming the
// offending field. Violations at a property location are type errors; a
// root-level "missing properties" violation names the absent field.
func fieldError(err *jsonschema.ValidationError) error {
	leaves := collectLeaves(err)

	fallback := ""
	for _, leaf := range leaves {
		location := strings.TrimSpace(leaf.InstanceLocation)
		message := strings.TrimSpace(leaf.Message)
		if fallback == "" && message != "" {
			fallback = message
		}

		if location != "" && location != "/" {
			field := strings.TrimPrefix(location, "/")
			return newMistypedFieldError(field, message)
		}
		if strings.Contains(message, "missing propert") {
			if match := quotedNamePattern.FindStringSubmatch(message); match != nil {
				return newMissingFieldError(match[1])
			}
		}
	}

	return &ConfigFieldError{Reason: fallback}
}

func collectLeaves(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if err == nil {
		return nil
	}

	var leaves []*jsonschema.ValidationError
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			leaves = append(leaves, node)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)

	return leaves
}
