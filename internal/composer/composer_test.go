package composer

import (
	"strings"
	"testing"

	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]*model.FieldDefinition

func (r fakeResolver) ResolveFields(ids []string) (map[string]*model.FieldDefinition, error) {
	resolved := make(map[string]*model.FieldDefinition)
	for _, id := range ids {
		if def, ok := r[id]; ok && !def.Deleted {
			resolved[id] = def
		}
	}
	return resolved, nil
}

func testResolver() fakeResolver {
	return fakeResolver{
		"f1": {
			ID:        "f1",
			Section:   "Basic Information",
			Label:     "Employee Name",
			FieldType: schema.FieldText,
		},
		"f2": {
			ID:        "f2",
			Section:   "Basic Information",
			Label:     "Status",
			FieldType: schema.FieldDropdown,
			Choices:   []string{"Active", "Inactive"},
		},
		"f3": {
			ID:        "f3",
			Label:     "Old Field",
			FieldType: schema.FieldText,
			Deleted:   true,
		},
	}
}

func TestCompose(t *testing.T) {
	t.Run("orders fields by selection position", func(t *testing.T) {
		tpl, err := Compose(testResolver(), "Monthly Review", "review", "General", []string{"f2", "f1"})
		require.NoError(t, err)
		require.Len(t, tpl.Fields, 2)

		assert.Equal(t, "status", tpl.Fields[0].Name)
		assert.Equal(t, 0, tpl.Fields[0].Order)
		assert.Equal(t, "employee_name", tpl.Fields[1].Name)
		assert.Equal(t, 1, tpl.Fields[1].Order)
	})

	t.Run("copies choices into options at build time", func(t *testing.T) {
		resolver := testResolver()
		tpl, err := Compose(resolver, "Monthly Review", "", "", []string{"f2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Active", "Inactive"}, tpl.Fields[0].Options)

		// later edits to the definition must not reach the template
		resolver["f2"].Choices[0] = "Changed"
		assert.Equal(t, "Active", tpl.Fields[0].Options[0])
	})

	t.Run("rejects empty selection", func(t *testing.T) {
		_, err := Compose(testResolver(), "Empty", "", "", nil)
		assert.ErrorIs(t, err, ErrEmptySelection)
	})

	t.Run("rejects deleted field reference", func(t *testing.T) {
		_, err := Compose(testResolver(), "With Deleted", "", "", []string{"f1", "f3"})
		var unknown *UnknownFieldReferenceError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, []string{"f3"}, unknown.FieldIDs)
	})

	t.Run("rejects missing field reference", func(t *testing.T) {
		_, err := Compose(testResolver(), "With Missing", "", "", []string{"nope"})
		var unknown *UnknownFieldReferenceError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, []string{"nope"}, unknown.FieldIDs)
	})

	t.Run("defaults category to General", func(t *testing.T) {
		tpl, err := Compose(testResolver(), "Monthly Review", "", "", []string{"f1"})
		require.NoError(t, err)
		assert.Equal(t, "General", tpl.Category)
	})
}

func TestPreview(t *testing.T) {
	fields := model.ReportFields{
		{Name: "status", Label: "Status", FieldType: schema.FieldDropdown, Required: true, Options: []string{"Active", "Inactive"}, Order: 1},
		{Name: "employee_name", Label: "Employee Name", FieldType: schema.FieldText, Placeholder: "Full name", Order: 0},
	}

	markup := Preview("Monthly Review", "Standard review", fields)

	assert.Contains(t, markup, "<h3>Monthly Review</h3>")
	assert.Contains(t, markup, "Standard review")
	assert.Contains(t, markup, `placeholder="Full name"`)
	assert.Contains(t, markup, "<option>Active</option>")
	assert.Contains(t, markup, `<span class="required">*</span>`)

	// renders in field order: the text field (order 0) before the dropdown
	assert.Less(t, strings.Index(markup, "Employee Name"), strings.Index(markup, "Status"))

	// side-effect free and deterministic
	assert.Equal(t, markup, Preview("Monthly Review", "Standard review", fields))
}

func TestPreviewEscapesHTML(t *testing.T) {
	fields := model.ReportFields{
		{Name: "x", Label: "<script>alert(1)</script>", FieldType: schema.FieldText},
	}
	markup := Preview("T", "", fields)
	assert.NotContains(t, markup, "<script>")
}
