package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefinition(t *testing.T) {
	t.Run("accepts every supported type", func(t *testing.T) {
		for _, ft := range FieldTypes {
			choices := []string(nil)
			if ft.RequiresChoices() {
				choices = []string{"a", "b"}
			}
			assert.NoError(t, ValidateDefinition(ft, choices), string(ft))
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		err := ValidateDefinition(FieldType("slider"), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidFieldDefinition)
	})

	t.Run("rejects dropdown without choices", func(t *testing.T) {
		err := ValidateDefinition(FieldDropdown, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidFieldDefinition)
	})

	t.Run("rejects multiselect without choices", func(t *testing.T) {
		err := ValidateDefinition(FieldMultiselect, []string{})
		assert.ErrorIs(t, err, ErrInvalidFieldDefinition)
	})

	t.Run("choices ignored for scalar types", func(t *testing.T) {
		assert.NoError(t, ValidateDefinition(FieldText, nil))
		assert.NoError(t, ValidateDefinition(FieldCheckbox, nil))
	})
}

func TestEmptyValue(t *testing.T) {
	assert.Equal(t, "", EmptyValue(FieldText))
	assert.Equal(t, "", EmptyValue(FieldNumber))
	assert.Equal(t, "", EmptyValue(FieldDate))
	assert.Equal(t, "", EmptyValue(FieldDropdown))
	assert.Equal(t, "", EmptyValue(FieldFile))
	assert.Equal(t, false, EmptyValue(FieldCheckbox))
	assert.Equal(t, []string{}, EmptyValue(FieldMultiselect))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(FieldText, ""))
	assert.True(t, IsEmpty(FieldText, nil))
	assert.False(t, IsEmpty(FieldText, "hello"))

	// JSON numbers decode to float64 and count as filled
	assert.False(t, IsEmpty(FieldNumber, float64(168)))
	assert.False(t, IsEmpty(FieldNumber, float64(0)))
	assert.False(t, IsEmpty(FieldNumber, "42"))
	assert.True(t, IsEmpty(FieldNumber, ""))
	assert.True(t, IsEmpty(FieldNumber, nil))

	assert.True(t, IsEmpty(FieldMultiselect, []string{}))
	assert.True(t, IsEmpty(FieldMultiselect, []interface{}{}))
	assert.False(t, IsEmpty(FieldMultiselect, []string{"a"}))

	// unchecked is a valid answer, so a checkbox never counts as empty
	assert.False(t, IsEmpty(FieldCheckbox, false))
	assert.False(t, IsEmpty(FieldCheckbox, true))
	assert.False(t, IsEmpty(FieldCheckbox, nil))
}
