package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "John", Email: "john@example.com"}))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Name: "J", Email: "nope"})
	require.Error(t, err)

	verr, ok := err.(*Error)
	require.True(t, ok)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Equal(t, "email", verr.Fields[1].Field)
	assert.Contains(t, verr.Error(), "name:")
	assert.Contains(t, verr.Error(), "email:")
}
