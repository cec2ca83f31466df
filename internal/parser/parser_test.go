package parser

import (
	"encoding/json"
	"testing"

	"github.com/pandodao/i18n-keys/internal/keys"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/i18n/en.json", []byte(`{"a": {"b": "<b>x</b>"}, "n": 1.50}`), 0644))

	tf, err := Load(fs, "/i18n/en.json")
	require.NoError(t, err)
	assert.False(t, tf.Malformed)
	assert.Equal(t, keys.Flat{"a.b": "<b>x</b>", "n": json.Number("1.50")}, keys.Flatten(tf.Document))

	tf.Path = "/out/nested/en.json"
	require.NoError(t, tf.Save(fs))

	data, err := afero.ReadFile(fs, "/out/nested/en.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": {\n    \"b\": \"<b>x</b>\"\n  },\n  \"n\": 1.50\n}\n", string(data))
}

func TestLoadMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{"a": `), 0644))
	require.NoError(t, afero.WriteFile(fs, "/array.json", []byte(`["a"]`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/null.json", []byte(`null`), 0644))

	for _, path := range []string{"/bad.json", "/array.json", "/null.json"} {
		tf, err := Load(fs, path)
		require.NoError(t, err, path)
		assert.True(t, tf.Malformed, path)
		assert.Error(t, tf.ParseErr, path)
		assert.Empty(t, tf.Document, path)
		assert.Error(t, tf.Save(fs), path)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/en.json", []byte("  \n"), 0644))

	tf, err := Load(fs, "/en.json")
	require.NoError(t, err)
	assert.False(t, tf.Malformed)
	assert.Equal(t, keys.Document{}, tf.Document)
}

func TestLoadMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "/nope.json")
	assert.Error(t, err)

	tf, err := LoadOrEmpty(fs, "/nope.json")
	require.NoError(t, err)
	assert.Equal(t, keys.Document{}, tf.Document)
	assert.Equal(t, "/nope.json", tf.Path)
}

func TestLoadExpected(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/keys.json", []byte(`{
  "__global": {"greeting": "hi"},
  "billing": {"invoice.title": "Invoice"}
}`), 0644))

	expected, err := LoadExpected(fs, "/keys.json")
	require.NoError(t, err)
	assert.Equal(t, []string{keys.GlobalScope, "billing"}, expected.Scopes())
	assert.Equal(t, keys.Flat{"invoice.title": "Invoice"}, keys.Flatten(expected["billing"]))

	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{"billing": 3}`), 0644))
	_, err = LoadExpected(fs, "/bad.json")
	assert.Error(t, err)
}
