package schema

import "fmt"

// ParameterConversionError is literal text that cannot be turned into a
// value of the parameter's kind.
type ParameterConversionError struct {
	Param  string
	Kind   Kind
	Value  string
	Reason string
}

func (e *ParameterConversionError) Error() string {
	return fmt.Sprintf("invalid %s value '%s' for parameter '%s': %s", e.Kind, e.Value, e.Param, e.Reason)
}

// RangeCheckError is a numeric value that does not satisfy the parameter's
// range expression.
type RangeCheckError struct {
	Param string
	Value string
	Range string
}

func (e *RangeCheckError) Error() string {
	return fmt.Sprintf("range check failed for parameter '%s': value %s does not satisfy '%s'", e.Param, e.Value, e.Range)
}

// MapFormatError is a map parameter with an unpaired key or a repeated key.
type MapFormatError struct {
	Param  string
	Reason string
}

func (e *MapFormatError) Error() string {
	return fmt.Sprintf("malformed map for parameter '%s': %s", e.Param, e.Reason)
}

// ReferenceFormatError is an object reference that is not of the form
// "object/value".
type ReferenceFormatError struct {
	Param string
	Value string
}

func (e *ReferenceFormatError) Error() string {
	return fmt.Sprintf("invalid name '%s' for parameter '%s': expected '<object>/<value>'", e.Value, e.Param)
}

// KindConflictError is a merge of two schemas declaring the same name with
// different kinds.
type KindConflictError struct {
	Param string
	Have  Kind
	Other Kind
}

func (e *KindConflictError) Error() string {
	return fmt.Sprintf("parameter '%s' is declared as %s and as %s", e.Param, e.Have, e.Other)
}
