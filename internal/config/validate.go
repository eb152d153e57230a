// CUE schema validation code
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed fleet.cue
var embeddedSchema []byte

// ValidateWithCue validates a YAML configuration file using a CUE schema file.
// An empty cueFile validates against the built-in schema.
func ValidateWithCue(configFile, cueFile string) error {
	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	schema := embeddedSchema
	if cueFile != "" {
		schema, err = os.ReadFile(cueFile)
		if err != nil {
			return fmt.Errorf("cannot read CUE schema: %w", err)
		}
	}
	return validate(configFile, yamlBytes, schema)
}

func validate(name string, yamlBytes, schema []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileBytes(schema)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return fmt.Errorf("CUE schema does not define #Config")
	}

	file, err := yaml.Extract(name, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if err := configVal.Err(); err != nil {
		return fmt.Errorf("cannot build YAML config: %w", err)
	}

	final := def.Unify(configVal)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
