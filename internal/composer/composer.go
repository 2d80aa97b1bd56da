// Package composer assembles reusable field definitions into report
// templates and produces admin-facing previews of the resulting form.
package composer

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reporthub/api/internal/form"
	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/schema"
)

var (
	ErrEmptySelection = errors.New("select at least one field")
)

// UnknownFieldReferenceError identifies the field ids that could not be
// resolved to a live (non-deleted) definition.
type UnknownFieldReferenceError struct {
	FieldIDs []string
}

func (e *UnknownFieldReferenceError) Error() string {
	return "unknown or deleted field reference: " + strings.Join(e.FieldIDs, ", ")
}

// Resolver looks up live field definitions by id. Deleted definitions must
// not be returned.
type Resolver interface {
	ResolveFields(ids []string) (map[string]*model.FieldDefinition, error)
}

// Compose builds a report template from the given field ids. Order is
// assigned by position in fieldIDs; the caller controls ordering and no
// re-sort happens here. Each field's options are a copy of the definition's
// choices taken now, so the template is not affected by later edits.
func Compose(resolver Resolver, name, description, category string, fieldIDs []string) (*model.ReportTemplate, error) {
	if len(fieldIDs) == 0 {
		return nil, ErrEmptySelection
	}
	if category == "" {
		category = "General"
	}

	resolved, err := resolver.ResolveFields(fieldIDs)
	if err != nil {
		return nil, err
	}

	var unknown []string
	fields := make(model.ReportFields, 0, len(fieldIDs))
	for i, id := range fieldIDs {
		def, ok := resolved[id]
		if !ok || def == nil || def.Deleted {
			unknown = append(unknown, id)
			continue
		}
		fields = append(fields, model.ReportField{
			ID:          uuid.NewString(),
			Name:        fieldName(def.Label),
			Label:       def.Label,
			FieldType:   def.FieldType,
			Required:    false,
			Options:     append([]string(nil), def.Choices...),
			Placeholder: def.Placeholder,
			HelpText:    def.HelpText,
			Section:     def.Section,
			Order:       i,
		})
	}
	if len(unknown) > 0 {
		return nil, &UnknownFieldReferenceError{FieldIDs: unknown}
	}

	now := time.Now()
	return &model.ReportTemplate{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Category:    category,
		Fields:      fields,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// fieldName derives the stable data-map key from a label: lowercased, spaces
// replaced with underscores.
func fieldName(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// Preview renders a template draft as static HTML markup using the same
// ordering rules as the live form, against empty data. It has no side
// effects.
func Preview(name, description string, fields model.ReportFields) string {
	tpl := &model.ReportTemplate{Name: name, Description: description, Fields: fields}

	var buf strings.Builder
	buf.WriteString(`<div class="template-preview">` + "\n")
	buf.WriteString(fmt.Sprintf("<h3>%s</h3>\n", html.EscapeString(name)))
	if description != "" {
		buf.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(description)))
	}
	buf.WriteString(`<form class="preview-form">` + "\n")
	for _, d := range form.Render(tpl, nil, nil) {
		writeFieldPreview(&buf, d)
	}
	buf.WriteString("</form>\n</div>\n")
	return buf.String()
}

func writeFieldPreview(buf *strings.Builder, d form.Descriptor) {
	label := html.EscapeString(d.Label)
	placeholder := html.EscapeString(d.Placeholder)

	buf.WriteString(`<div class="field-preview">`)
	buf.WriteString(`<label>` + label)
	if d.Required {
		buf.WriteString(` <span class="required">*</span>`)
	}
	buf.WriteString(`</label>`)

	switch d.FieldType {
	case schema.FieldTextarea:
		buf.WriteString(fmt.Sprintf(`<textarea placeholder="%s" rows="3" disabled></textarea>`, placeholder))
	case schema.FieldNumber:
		buf.WriteString(fmt.Sprintf(`<input type="number" placeholder="%s" disabled>`, placeholder))
	case schema.FieldDate:
		buf.WriteString(`<input type="date" disabled>`)
	case schema.FieldDropdown:
		buf.WriteString(`<select disabled><option>Select an option...</option>`)
		for _, opt := range d.Options {
			buf.WriteString(fmt.Sprintf(`<option>%s</option>`, html.EscapeString(opt)))
		}
		buf.WriteString(`</select>`)
	case schema.FieldMultiselect:
		buf.WriteString(`<select multiple disabled>`)
		for _, opt := range d.Options {
			buf.WriteString(fmt.Sprintf(`<option>%s</option>`, html.EscapeString(opt)))
		}
		buf.WriteString(`</select>`)
	case schema.FieldCheckbox:
		buf.WriteString(`<input type="checkbox" disabled>`)
	case schema.FieldFile:
		buf.WriteString(`<input type="file" disabled>`)
	default:
		buf.WriteString(fmt.Sprintf(`<input type="text" placeholder="%s" disabled>`, placeholder))
	}

	if d.HelpText != "" {
		buf.WriteString(fmt.Sprintf(`<small>%s</small>`, html.EscapeString(d.HelpText)))
	}
	buf.WriteString("</div>\n")
}
