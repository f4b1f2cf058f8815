package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["overall"],
	"properties": {
		"overall": {"type": "number", "minimum": 0, "maximum": 1},
		"red_flags": {"type": "array", "items": {"type": "string"}}
	}
}`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_Valid(t *testing.T) {
	schemaPath := writeTempFile(t, "report.schema.json", testSchema)
	jsonPath := writeTempFile(t, "report.json", `{"overall": 0.8, "red_flags": []}`)

	assert.NoError(t, ValidateJSON(schemaPath, jsonPath))
}

func TestValidateJSON_Invalid(t *testing.T) {
	schemaPath := writeTempFile(t, "report.schema.json", testSchema)
	jsonPath := writeTempFile(t, "report.json", `{"overall": 1.7}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "overall", validationErr.Errors[0].Field)
}

func TestValidateJSON_MissingRequired(t *testing.T) {
	schemaPath := writeTempFile(t, "report.schema.json", testSchema)
	jsonPath := writeTempFile(t, "report.json", `{"red_flags": ["freshness critically low"]}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overall")
}

func TestValidateJSON_SchemaNotFound(t *testing.T) {
	jsonPath := writeTempFile(t, "report.json", `{}`)

	err := ValidateJSON("/nonexistent/schema.json", jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")
}

func TestValidateJSON_DocumentNotFound(t *testing.T) {
	schemaPath := writeTempFile(t, "report.schema.json", testSchema)

	err := ValidateJSON(schemaPath, "/nonexistent/report.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSONString_Valid(t *testing.T) {
	assert.NoError(t, ValidateJSONString(testSchema, `{"overall": 0.5}`))
}

func TestValidateJSONString_Invalid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"overall": "high"}`)
	require.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidateJSONString_BrokenSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": nonsense`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "overall", Message: "Must be less than or equal to 1"},
		{Field: "(root)", Message: "overall is required"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. overall")
	assert.Contains(t, msg, "2. (root)")
}

func TestResolveSchemaPath_NotFound(t *testing.T) {
	assert.Equal(t, "", ResolveSchemaPath("no/such/schema.json"))
}
