package formats

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaViolation is returned when a record fails JSON Schema validation.
var ErrSchemaViolation = errors.New("schema violation")

const schemaBase = "https://github.com/Faultbox/mcpalette/schemas/"

//go:embed schemas/model.schema.json
var modelSchemaJSON []byte

//go:embed schemas/blockstate.schema.json
var blockstateSchemaJSON []byte

var (
	schemaOnce       sync.Once
	modelSchema      *jsonschema.Schema
	blockstateSchema *jsonschema.Schema
	schemaErr        error
)

func compileSchemas() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	for name, data := range map[string][]byte{
		"model.schema.json":      modelSchemaJSON,
		"blockstate.schema.json": blockstateSchemaJSON,
	} {
		if err := c.AddResource(schemaBase+name, bytes.NewReader(data)); err != nil {
			schemaErr = fmt.Errorf("adding schema %s: %w", name, err)
			return
		}
	}

	if modelSchema, schemaErr = c.Compile(schemaBase + "model.schema.json"); schemaErr != nil {
		return
	}
	blockstateSchema, schemaErr = c.Compile(schemaBase + "blockstate.schema.json")
}

// ValidateModel checks a raw model document against the embedded schema.
func ValidateModel(data []byte) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	return validate(modelSchema, "model", data)
}

// ValidateBlockState checks a raw blockstate document against the embedded schema.
func ValidateBlockState(data []byte) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	return validate(blockstateSchema, "blockstate", data)
}

func validate(s *jsonschema.Schema, kind string, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding %s: %w", kind, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaViolation, kind, err)
	}
	return nil
}
