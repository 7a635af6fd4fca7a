package types

import "encoding/json"

// Optional records whether a JSON field was present in a request body.
// Set is false when the key was absent; Value is nil when the key was
// present with an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v

	return nil
}

// Some returns an Optional holding v, as if decoded from a present key.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}
