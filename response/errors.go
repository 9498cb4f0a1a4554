// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import "fmt"

// Code identifies a validation failure.
type Code string

const (
	CodeUnknownQuestion         Code = "UnknownQuestion"
	CodeOutOfDomain             Code = "OutOfDomain"
	CodeNotAnInteger            Code = "NotAnInteger"
	CodeOutOfRange              Code = "OutOfRange"
	CodeMissingRequiredQuestion Code = "MissingRequiredQuestion"
)

// Sentinels for errors.Is; they match any *Error with the same code.
var (
	ErrUnknownQuestion         = &Error{Code: CodeUnknownQuestion}
	ErrOutOfDomain             = &Error{Code: CodeOutOfDomain}
	ErrNotAnInteger            = &Error{Code: CodeNotAnInteger}
	ErrOutOfRange              = &Error{Code: CodeOutOfRange}
	ErrMissingRequiredQuestion = &Error{Code: CodeMissingRequiredQuestion}
)

// Error is a single validation failure with enough detail for the
// respondent to correct the submission.
type Error struct {
	Code       Code
	QuestionID string
	Value      string
	Expected   string
	Min        int
	Max        int
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeUnknownQuestion:
		return fmt.Sprintf("unknown question %q", e.QuestionID)
	case CodeOutOfDomain:
		return fmt.Sprintf("question %s: value %q out of domain, expected %s", e.QuestionID, e.Value, e.Expected)
	case CodeNotAnInteger:
		return fmt.Sprintf("question %s: value %q is not an integer", e.QuestionID, e.Value)
	case CodeOutOfRange:
		return fmt.Sprintf("question %s: value %s out of range [%d, %d]", e.QuestionID, e.Value, e.Min, e.Max)
	case CodeMissingRequiredQuestion:
		return fmt.Sprintf("required question %s not answered", e.QuestionID)
	}
	return string(e.Code)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
