package crud

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Patch is a shallow set of JSON fields replacing those of an item.
type Patch map[string]any

// Without returns a copy of p minus the given keys.
func (p Patch) Without(keys ...string) Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// ApplyPatch merges the patch's top-level fields into item. The "id" key is
// never applied. A value of the wrong type is reported as a validation
// error.
func ApplyPatch[T any](item T, p Patch) (T, error) {
	var zero T

	raw, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("encode item: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, fmt.Errorf("decode item fields: %w", err)
	}

	for k, v := range p.Without("id") {
		enc, err := json.Marshal(v)
		if err != nil {
			return zero, NewValidationError(k, fmt.Sprintf("%s has an unsupported value", k))
		}
		fields[k] = enc
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("encode merged item: %w", err)
	}

	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return zero, NewValidationError(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
		}
		return zero, NewValidationError("patch", "patch cannot be applied")
	}
	return out, nil
}
