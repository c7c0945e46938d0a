package configmanager

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/invopop/jsonschema"
)

// durationPattern matches the Go duration strings accepted in config files.
const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// Schema returns the JSON schema of the gcping configuration file.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    typeMapper,
	}

	schema := reflector.Reflect(&v1alpha1.Config{})

	schema.ID = ""
	schema.Title = "gcping Configuration"
	schema.Description = "JSON schema for the gcping configuration file (gcping.yaml)"

	walkSchema(schema, func(s *jsonschema.Schema) {
		// Every field has a default.
		s.Required = nil
	})

	if schema.Properties != nil {
		if property, ok := schema.Properties.Get("kind"); ok && property != nil {
			property.Enum = []any{v1alpha1.Kind}
		}

		if property, ok := schema.Properties.Get("apiVersion"); ok && property != nil {
			property.Enum = []any{v1alpha1.APIVersion}
		}
	}

	return schema
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

func walkSchema(schema *jsonschema.Schema, fn func(*jsonschema.Schema)) {
	if schema == nil {
		return
	}

	fn(schema)

	if schema.Properties != nil {
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			walkSchema(pair.Value, fn)
		}
	}

	walkSchema(schema.Items, fn)
	walkSchema(schema.AdditionalProperties, fn)
}

// typeMapper renders enums as string enums and durations as duration strings.
func typeMapper(t reflect.Type) *jsonschema.Schema {
	if t == reflect.TypeFor[time.Duration]() {
		return &jsonschema.Schema{Type: "string", Pattern: durationPattern}
	}

	if !reflect.PointerTo(t).Implements(reflect.TypeFor[v1alpha1.EnumValuer]()) {
		return nil
	}

	valuer, ok := reflect.New(t).Interface().(v1alpha1.EnumValuer)
	if !ok {
		return nil
	}

	values := valuer.ValidValues()

	enum := make([]any, len(values))
	for index, value := range values {
		enum[index] = value
	}

	return &jsonschema.Schema{Type: "string", Enum: enum}
}
