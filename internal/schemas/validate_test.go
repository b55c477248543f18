package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSnapshot_Valid(t *testing.T) {
	data := []byte(`{
		"profile": {"name": "Jordan"},
		"experience": [{"company": "Acme", "role": "Engineer", "startDate": "2022"}],
		"projects": [{"title": "Weather Dashboard", "featured": true}],
		"education": [{"institution": "State University", "degree": "BSc"}],
		"certificates": [{"title": "Cert", "issuer": "AWS"}]
	}`)

	assert.NoError(t, ValidateSnapshot(data))
}

func TestValidateSnapshot_EmptyDocument(t *testing.T) {
	assert.NoError(t, ValidateSnapshot([]byte(`{}`)))
}

func TestValidateSnapshot_NullProfileAllowed(t *testing.T) {
	assert.NoError(t, ValidateSnapshot([]byte(`{"profile": null}`)))
}

func TestValidateSnapshot_MissingRequiredFields(t *testing.T) {
	data := []byte(`{
		"experience": [{"company": "Acme"}],
		"projects": [{"description": "no title"}]
	}`)

	err := ValidateSnapshot(data)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.GreaterOrEqual(t, len(ve.Errors), 2)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestValidateSnapshot_WrongTypes(t *testing.T) {
	data := []byte(`{"projects": [{"title": "X", "techStack": "not-an-array"}]}`)

	err := ValidateSnapshot(data)
	require.Error(t, err)
}

func TestValidateSnapshot_MalformedJSON(t *testing.T) {
	err := ValidateSnapshot([]byte(`{not json`))
	require.Error(t, err)

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}
