// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package form

import "errors"

var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrSchemaViolation   = errors.New("schema violation")
	ErrWrongDocumentRole = errors.New("wrong document role")
)

// SchemaViolationError reports a well-formed document that does not satisfy
// the questionnaire schema. Err holds the validator's own error.
type SchemaViolationError struct {
	Detail string
	Err    error
}

func (e *SchemaViolationError) Error() string {
	return "schema violation: " + e.Detail
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSchemaViolation) match any violation.
func (e *SchemaViolationError) Is(target error) bool {
	return target == ErrSchemaViolation
}
