package garden

// FieldAction names the three ways an update payload can touch an optional
// field.
type FieldAction string

// Field update actions.
const (
	FieldKeep  FieldAction = "keep"
	FieldClear FieldAction = "clear"
	FieldSet   FieldAction = "set"
)

// FieldUpdate describes an update to a single optional field. It
// distinguishes "leave the field alone" (Keep) from "clear it" (Clear) from
// "assign a new value" (Set), which a plain pointer cannot express across a
// serialization boundary.
//
// The zero value is Keep, so update payloads can embed FieldUpdate directly
// and omitted JSON fields mean "no change".
type FieldUpdate[T any] struct {
	Action FieldAction `json:"action"`
	Value  T           `json:"value,omitempty"`
}

// Keep returns a FieldUpdate that leaves the current value unchanged.
func Keep[T any]() FieldUpdate[T] {
	return FieldUpdate[T]{Action: FieldKeep}
}

// Clear returns a FieldUpdate that empties the field.
func Clear[T any]() FieldUpdate[T] {
	return FieldUpdate[T]{Action: FieldClear}
}

// Set returns a FieldUpdate that assigns value to the field.
func Set[T any](value T) FieldUpdate[T] {
	return FieldUpdate[T]{Action: FieldSet, Value: value}
}

// Apply resolves the update against the current value. Keep returns current
// as-is, Clear returns nil, Set returns a pointer to the new value. An
// unrecognized action behaves like Keep.
func (u FieldUpdate[T]) Apply(current *T) *T {
	switch u.Action {
	case FieldClear:
		return nil
	case FieldSet:
		v := u.Value
		return &v
	default:
		return current
	}
}

// IsUpdate reports whether applying this update may change the field.
func (u FieldUpdate[T]) IsUpdate() bool {
	return u.Action == FieldClear || u.Action == FieldSet
}
