package analytics

import "errors"

// SchemaError indicates a structurally unusable dataset. Ambiguous data is
// never a SchemaError; it classifies as generic instead.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Reason
}

// IsSchemaError reports whether err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
