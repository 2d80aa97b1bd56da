// Package schema defines the closed field-type enumeration and the pure
// validation rules for reusable field definitions. It has no side effects and
// no knowledge of storage.
package schema

import (
	"errors"
	"fmt"
)

// FieldType is the closed set of input kinds a field definition may take.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldDropdown    FieldType = "dropdown"
	FieldMultiselect FieldType = "multiselect"
	FieldCheckbox    FieldType = "checkbox"
	FieldFile        FieldType = "file"
)

// FieldTypes lists every supported type, in display order.
var FieldTypes = []FieldType{
	FieldText,
	FieldTextarea,
	FieldNumber,
	FieldDate,
	FieldDropdown,
	FieldMultiselect,
	FieldCheckbox,
	FieldFile,
}

var ErrInvalidFieldDefinition = errors.New("invalid field definition")

// Valid reports whether t is a member of the closed enumeration.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldDate,
		FieldDropdown, FieldMultiselect, FieldCheckbox, FieldFile:
		return true
	}
	return false
}

// RequiresChoices reports whether t must carry a non-empty choice list.
func (t FieldType) RequiresChoices() bool {
	return t == FieldDropdown || t == FieldMultiselect
}

// ValidateDefinition checks a field definition's type/choices combination.
// Choices are mandatory for dropdown and multiselect and ignored otherwise.
func ValidateDefinition(t FieldType, choices []string) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown field type %q", ErrInvalidFieldDefinition, t)
	}
	if t.RequiresChoices() && len(choices) == 0 {
		return fmt.Errorf("%w: %s fields need at least one choice", ErrInvalidFieldDefinition, t)
	}
	return nil
}

// EmptyValue returns the default a form shows before any edit: "" for scalar
// types, false for checkbox, an empty slice for multiselect.
func EmptyValue(t FieldType) interface{} {
	switch t {
	case FieldCheckbox:
		return false
	case FieldMultiselect:
		return []string{}
	default:
		return ""
	}
}

// IsEmpty reports whether value counts as "not filled in" for type t. A
// checkbox is never empty: unchecked is a deliberate false, so required-ness
// is satisfied by either boolean state.
func IsEmpty(t FieldType, value interface{}) bool {
	if value == nil {
		return t != FieldCheckbox
	}
	switch t {
	case FieldCheckbox:
		return false
	case FieldMultiselect:
		switch v := value.(type) {
		case []string:
			return len(v) == 0
		case []interface{}:
			return len(v) == 0
		default:
			return true
		}
	default:
		// JSON decoding yields float64 for numbers; any non-string scalar
		// is a filled-in value
		if s, ok := value.(string); ok {
			return s == ""
		}
		return false
	}
}
