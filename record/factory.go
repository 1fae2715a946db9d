package record

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Factory turns a raw record into an entity of the given logical type.
// Repositories call it once per record returned.
type Factory func(rec Record, entityName string) (Entity, error)

// AttributesFactory is the default Factory, producing dynamic map-backed
// entities.
func AttributesFactory(rec Record, entityName string) (Entity, error) {
	return NewAttributes(entityName, rec), nil
}

// Decode hydrates target, a pointer to a struct, from the record's
// fields. Field names match struct fields case-insensitively or via
// `mapstructure` tags; scalar kinds are converted weakly, so a JSON
// float64 fills an int field.
func Decode(rec Record, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("could not build decoder: %w", err)
	}

	err = decoder.Decode(map[string]any(rec))
	if err != nil {
		return fmt.Errorf("could not decode record: %w", err)
	}

	return nil
}
