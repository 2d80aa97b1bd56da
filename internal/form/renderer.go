// Package form is the interpreter that turns a report template into an
// ordered input surface, folds user edits into a draft value map, and checks
// required fields before submission. It is side-effect free; persistence is
// the lifecycle's job.
package form

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/schema"
)

// Descriptor is one renderable input: the field's metadata plus the value the
// form should show for it.
type Descriptor struct {
	Name        string           `json:"name"`
	Label       string           `json:"label"`
	FieldType   schema.FieldType `json:"field_type"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	HelpText    string           `json:"help_text,omitempty"`
	Section     string           `json:"section,omitempty"`
	Order       int              `json:"order"`
	Value       interface{}      `json:"value"`
}

// ValidationError reports the required fields left empty in a draft.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return "required fields missing: " + strings.Join(e.MissingFields, ", ")
}

// Render produces the template's input descriptors in ascending field order,
// ties broken by insertion order. Value precedence per field: an in-progress
// draft edit wins over previously saved data, which wins over the type's
// empty default. Rendering the same inputs twice yields the same sequence.
func Render(tpl *model.ReportTemplate, existing, draft map[string]interface{}) []Descriptor {
	fields := make([]model.ReportField, len(tpl.Fields))
	copy(fields, tpl.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})

	descriptors := make([]Descriptor, 0, len(fields))
	for _, f := range fields {
		descriptors = append(descriptors, Descriptor{
			Name:        f.Name,
			Label:       f.Label,
			FieldType:   f.FieldType,
			Required:    f.Required,
			Options:     f.Options,
			Placeholder: f.Placeholder,
			HelpText:    f.HelpText,
			Section:     f.Section,
			Order:       f.Order,
			Value:       resolveValue(f, existing, draft),
		})
	}
	return descriptors
}

func resolveValue(f model.ReportField, existing, draft map[string]interface{}) interface{} {
	if draft != nil {
		if v, ok := draft[f.Name]; ok {
			return v
		}
	}
	if existing != nil {
		if v, ok := existing[f.Name]; ok {
			return v
		}
	}
	return schema.EmptyValue(f.FieldType)
}

// Collect folds a raw edit for one field into the draft value map and returns
// the updated map. The original map is not modified.
//
// Encoding per type: scalar types keep the raw string (number stays a
// numeric string; the caller may parse), checkbox stores a boolean,
// multiselect toggles the raw option's membership in a duplicate-free slice,
// and file retains only the selected file's display name.
func Collect(draft map[string]interface{}, field model.ReportField, raw interface{}) map[string]interface{} {
	updated := make(map[string]interface{}, len(draft)+1)
	for k, v := range draft {
		updated[k] = v
	}

	switch field.FieldType {
	case schema.FieldCheckbox:
		checked, _ := raw.(bool)
		updated[field.Name] = checked
	case schema.FieldMultiselect:
		option := fmt.Sprintf("%v", raw)
		updated[field.Name] = toggleOption(selectedOptions(draft[field.Name]), option)
	default:
		// text, textarea, number, date, dropdown, file: scalar string
		updated[field.Name] = fmt.Sprintf("%v", raw)
	}
	return updated
}

func selectedOptions(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return nil
	}
}

func toggleOption(selected []string, option string) []string {
	for i, s := range selected {
		if s == option {
			out := make([]string, 0, len(selected)-1)
			out = append(out, selected[:i]...)
			return append(out, selected[i+1:]...)
		}
	}
	out := make([]string, 0, len(selected)+1)
	out = append(out, selected...)
	return append(out, option)
}

// Validate checks every required field of the template against the draft
// values. A checkbox never counts as missing: unchecked is a valid answer.
// Returns a *ValidationError listing the missing field names in render order,
// or nil when the draft is submittable.
func Validate(tpl *model.ReportTemplate, draft map[string]interface{}) error {
	var missing []string
	for _, d := range Render(tpl, nil, draft) {
		if !d.Required {
			continue
		}
		if schema.IsEmpty(d.FieldType, d.Value) {
			missing = append(missing, d.Name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}
	return nil
}
