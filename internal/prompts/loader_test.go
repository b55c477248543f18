package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownKeys(t *testing.T) {
	probe, err := Get("warmup_probe")
	require.NoError(t, err)
	assert.Equal(t, "Hi", probe)

	header, err := Get("context_header")
	require.NoError(t, err)
	assert.Contains(t, header, "{{.Name}}")

	guidelines, err := Get("guidelines")
	require.NoError(t, err)
	assert.Contains(t, guidelines, "IMPORTANT GUIDELINES")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestMustGet_PanicsOnMissingKey(t *testing.T) {
	assert.Panics(t, func() { MustGet("nonexistent") })
}

func TestFormat_SubstitutesPlaceholders(t *testing.T) {
	out := Format("Hello {{.Name}}, welcome to {{.Place}}!", map[string]string{
		"Name":  "Jordan",
		"Place": "the portfolio",
	})
	assert.Equal(t, "Hello Jordan, welcome to the portfolio!", out)
}

func TestFormat_LeavesUnknownPlaceholders(t *testing.T) {
	out := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", out)
}
