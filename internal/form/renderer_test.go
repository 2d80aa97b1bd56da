package form

import (
	"testing"

	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplate() *model.ReportTemplate {
	return &model.ReportTemplate{
		ID:   "tpl-1",
		Name: "Monthly Review",
		Fields: model.ReportFields{
			{Name: "status", Label: "Status", FieldType: schema.FieldDropdown, Required: true, Options: []string{"Active", "Inactive"}, Order: 2},
			{Name: "employee_name", Label: "Employee Name", FieldType: schema.FieldText, Required: true, Order: 1},
			{Name: "tags", Label: "Tags", FieldType: schema.FieldMultiselect, Options: []string{"a", "b", "c"}, Order: 3},
			{Name: "remote", Label: "Remote", FieldType: schema.FieldCheckbox, Required: true, Order: 3},
		},
	}
}

func TestRenderOrdering(t *testing.T) {
	tpl := testTemplate()

	descriptors := Render(tpl, nil, nil)
	require.Len(t, descriptors, 4)

	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	// ascending order, equal orders keep insertion order
	assert.Equal(t, []string{"employee_name", "status", "tags", "remote"}, names)

	// deterministic: rendering twice yields the same sequence
	assert.Equal(t, descriptors, Render(tpl, nil, nil))
}

func TestRenderValuePrecedence(t *testing.T) {
	tpl := testTemplate()
	existing := map[string]interface{}{"employee_name": "Jane", "status": "Active"}
	draft := map[string]interface{}{"status": "Inactive"}

	descriptors := Render(tpl, existing, draft)

	byName := make(map[string]Descriptor)
	for _, d := range descriptors {
		byName[d.Name] = d
	}

	assert.Equal(t, "Jane", byName["employee_name"].Value, "saved data used when no draft edit")
	assert.Equal(t, "Inactive", byName["status"].Value, "draft edit wins over saved data")
	assert.Equal(t, []string{}, byName["tags"].Value, "untouched multiselect defaults empty")
	assert.Equal(t, false, byName["remote"].Value, "untouched checkbox defaults false")
}

func TestCollect(t *testing.T) {
	textField := model.ReportField{Name: "employee_name", FieldType: schema.FieldText}
	checkField := model.ReportField{Name: "remote", FieldType: schema.FieldCheckbox}
	multiField := model.ReportField{Name: "tags", FieldType: schema.FieldMultiselect}

	t.Run("scalar keeps string", func(t *testing.T) {
		draft := Collect(nil, textField, "Jane")
		assert.Equal(t, "Jane", draft["employee_name"])
	})

	t.Run("number kept as numeric string", func(t *testing.T) {
		numField := model.ReportField{Name: "hours", FieldType: schema.FieldNumber}
		draft := Collect(nil, numField, "168")
		assert.Equal(t, "168", draft["hours"])
	})

	t.Run("checkbox stores boolean", func(t *testing.T) {
		draft := Collect(nil, checkField, true)
		assert.Equal(t, true, draft["remote"])
	})

	t.Run("multiselect toggles membership without duplicates", func(t *testing.T) {
		draft := Collect(nil, multiField, "a")
		assert.Equal(t, []string{"a"}, draft["tags"])

		draft = Collect(draft, multiField, "b")
		assert.Equal(t, []string{"a", "b"}, draft["tags"])

		// toggling an already selected option removes it
		draft = Collect(draft, multiField, "a")
		assert.Equal(t, []string{"b"}, draft["tags"])
	})

	t.Run("does not mutate the input map", func(t *testing.T) {
		original := map[string]interface{}{"employee_name": "Jane"}
		Collect(original, textField, "John")
		assert.Equal(t, "Jane", original["employee_name"])
	})
}

func TestValidate(t *testing.T) {
	tpl := testTemplate()

	t.Run("reports missing required fields in render order", func(t *testing.T) {
		err := Validate(tpl, map[string]interface{}{})
		require.Error(t, err)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		// remote is a required checkbox and never missing
		assert.Equal(t, []string{"employee_name", "status"}, validationErr.MissingFields)
	})

	t.Run("empty string counts as missing", func(t *testing.T) {
		err := Validate(tpl, map[string]interface{}{
			"employee_name": "",
			"status":        "Active",
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"employee_name"}, validationErr.MissingFields)
	})

	t.Run("passes when required fields filled", func(t *testing.T) {
		err := Validate(tpl, map[string]interface{}{
			"employee_name": "Jane",
			"status":        "Active",
			"remote":        false,
		})
		assert.NoError(t, err)
	})

	t.Run("accepts a JSON number for a required number field", func(t *testing.T) {
		hours := &model.ReportTemplate{Fields: model.ReportFields{
			{Name: "hours", Label: "Hours", FieldType: schema.FieldNumber, Required: true, Order: 0},
		}}
		// decoded request bodies carry numbers as float64
		assert.NoError(t, Validate(hours, map[string]interface{}{"hours": float64(168)}))
	})
}
