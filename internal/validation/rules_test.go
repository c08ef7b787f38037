package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleSet(t *testing.T) {
	rs := DefaultRuleSet()

	title, ok := rs.Rule("title")
	require.True(t, ok)
	assert.True(t, title.Required)
	assert.Equal(t, 30, title.MinLength)
	assert.Equal(t, 150, title.MaxLength)

	description, ok := rs.Rule("description")
	require.True(t, ok)
	assert.Equal(t, 90, description.MinLength)

	gtin, ok := rs.Rule("gtin")
	require.True(t, ok)
	assert.False(t, gtin.Required)

	_, ok = rs.Rule("nonexistent_field")
	assert.False(t, ok)
}

func TestNewRuleSet_Invalid(t *testing.T) {
	_, err := NewRuleSet(map[string]FieldRule{
		"title": {MinLength: 100, MaxLength: 50},
	}, nil)
	require.Error(t, err)
	var cfgErr *RuleConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewRuleSet(map[string]FieldRule{
		"title": {Validator: "no_such_validator"},
	}, nil)
	assert.Error(t, err)

	_, err = NewRuleSet(
		map[string]FieldRule{"title": {}},
		map[string]FieldRule{"title": {}},
	)
	assert.Error(t, err, "field in both groups")

	_, err = NewRuleSet(map[string]FieldRule{
		"link": {Validator: "url", Schemes: []string{"ftp"}},
	}, nil)
	assert.Error(t, err, "unsupported scheme")
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
fields:
  link:
    schemes: [https]
  title:
    min_length: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rs, err := LoadOverrides(DefaultRuleSet(), path)
	require.NoError(t, err)

	link, ok := rs.Rule("link")
	require.True(t, ok)
	assert.Equal(t, []string{"https"}, link.Schemes)

	title, ok := rs.Rule("title")
	require.True(t, ok)
	assert.Equal(t, 20, title.MinLength)
	assert.Equal(t, 150, title.MaxLength, "untouched bounds survive")

	// the override changes URL policy end to end
	assert.False(t, ValidateURL("http://example.com", link.Schemes).Valid)
	assert.True(t, ValidateURL("https://example.com", link.Schemes).Valid)
}

func TestLoadOverrides_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields:\n  bogus:\n    min_length: 1\n"), 0o644))

	_, err := LoadOverrides(DefaultRuleSet(), path)
	require.Error(t, err)
	var cfgErr *RuleConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadOverrides_BadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields:\n  brand:\n    pattern: \"[\"\n"), 0o644))

	_, err := LoadOverrides(DefaultRuleSet(), path)
	assert.Error(t, err)
}
