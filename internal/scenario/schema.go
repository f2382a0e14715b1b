package scenario

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

// compiledSchema compiles the embedded schema once per process. A
// compile failure is a build defect, not a caller error, so it
// surfaces on every validation attempt.
func compiledSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		v := cuecontext.New().CompileString(schemaSource)
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaValue = v
	})
	return schemaValue, schemaErr
}

// validateSchema checks raw scenario YAML against the embedded CUE
// schema. Violations report the offending path and reason.
func validateSchema(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse scenario YAML: %w", err)
	}

	value := schema.Context().Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode scenario for validation: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return fmt.Errorf("scenario schema violation:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}
