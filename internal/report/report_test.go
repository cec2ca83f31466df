package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/pandodao/i18n-keys/internal/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func sampleReport() *Report {
	r := New()
	r.Add("en", nil)
	r.Add("billing/es", []diff.Diff{
		{Kind: diff.New, Path: "invoice.title", Value: "Invoice"},
	})
	r.Add("billing/es", []diff.Diff{
		{Kind: diff.Deleted, Path: "legacy", Value: "old"},
	})
	r.Add("de", []diff.Diff{
		{Kind: diff.New, Path: "greeting", Value: "hi"},
		{Kind: diff.New, Path: "farewell", Value: "bye"},
	})
	return r
}

func TestLanguagesDropsEmptyEntries(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, []string{"billing/es", "de"}, r.Languages())

	e, ok := r.Entry("billing/es")
	require.True(t, ok)
	assert.Len(t, e.Missing, 1)
	assert.Len(t, e.Extra, 1)

	e, ok = r.Entry("en")
	require.True(t, ok)
	assert.True(t, e.Empty())

	_, ok = r.Entry("fr")
	assert.False(t, ok)
}

func TestTotalsAndFailed(t *testing.T) {
	r := sampleReport()

	missing, extra := r.Totals()
	assert.Equal(t, 3, missing)
	assert.Equal(t, 1, extra)
	assert.True(t, r.HasExtra())
	assert.True(t, r.Failed(true))
	assert.False(t, r.Failed(false))

	clean := New()
	clean.Add("de", []diff.Diff{{Kind: diff.New, Path: "a"}})
	assert.False(t, clean.Failed(true))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteTable(&buf, true))

	out := buf.String()
	assert.Contains(t, out, "Language")
	assert.Contains(t, out, "billing/es")
	assert.Contains(t, out, "español")
	assert.Contains(t, out, "Deutsch")
	assert.Contains(t, out, "missing invoice.title")
	assert.Contains(t, out, "extra legacy")
	assert.Contains(t, out, "3 missing keys")
	assert.Contains(t, out, "1 extra keys")
	assert.NotContains(t, out, "\nen ")
}

func TestWriteTableRepaired(t *testing.T) {
	r := sampleReport()
	r.AddRepaired(3)

	var buf bytes.Buffer
	require.NoError(t, r.WriteTable(&buf, false))
	assert.Contains(t, buf.String(), "Added 3 missing keys")
	assert.NotContains(t, buf.String(), "⚠️")
	assert.NotContains(t, buf.String(), "invoice.title")
}

func TestWriteTablePartlyRepaired(t *testing.T) {
	r := sampleReport()
	r.AddRepaired(1)
	r.AddRepaired(1)
	assert.Equal(t, 2, r.Added())
	assert.True(t, r.Repaired())

	var buf bytes.Buffer
	require.NoError(t, r.WriteTable(&buf, false))
	assert.Contains(t, buf.String(), "Added 2 missing keys")
	assert.Contains(t, buf.String(), "⚠️ 1 missing keys")
	assert.NotContains(t, buf.String(), "Added 3")

	buf.Reset()
	require.NoError(t, r.WriteJSON(&buf))
	var got struct {
		Missing  int  `json:"missing"`
		Repaired bool `json:"repaired"`
		Added    int  `json:"added"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.Missing)
	assert.True(t, got.Repaired)
	assert.Equal(t, 2, got.Added)
}

func TestWriteTableClean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().WriteTable(&buf, false))
	assert.Contains(t, buf.String(), "No missing or extra keys")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteJSON(&buf))

	var got struct {
		Languages map[string]struct {
			Missing []diff.Diff `json:"missing"`
			Extra   []diff.Diff `json:"extra"`
		} `json:"languages"`
		Missing int `json:"missing"`
		Extra   int `json:"extra"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Len(t, got.Languages, 2)
	assert.Equal(t, 3, got.Missing)
	assert.Equal(t, 1, got.Extra)
	assert.Equal(t, "legacy", got.Languages["billing/es"].Extra[0].Path)
	assert.Equal(t, diff.Deleted, got.Languages["billing/es"].Extra[0].Kind)
}
