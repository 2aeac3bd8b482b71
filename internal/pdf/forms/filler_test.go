package forms

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-nencho-tools/internal/pdf/pdftest"
)

func TestFiller_Fill(t *testing.T) {
	var out bytes.Buffer
	report, err := NewFiller().Fill(bytes.NewReader(pdftest.FormPDF()), &out, Values{
		"name":         "山田 太郎",
		"agree":        true,
		"kind":         "C",
		"address.city": "Osaka",
		"locked":       "changed",
		"spouse":       "Off",
		"nickname":     "x",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"address.city", "agree", "kind", "name", "spouse"}, report.Updated)
	assert.Equal(t, []SkippedField{{Name: "locked", Reason: ErrFieldReadOnly.Error()}}, report.Skipped)
	assert.Equal(t, []string{"nickname"}, report.Unknown)

	fields, err := NewExtractor().ExtractFromReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	byName := fieldsByName(fields)

	assert.Equal(t, "山田 太郎", byName["name"].Value)
	assert.True(t, byName["agree"].Checked)
	assert.Equal(t, "Yes", byName["agree"].Value)
	assert.Equal(t, "C", byName["kind"].Value)
	assert.Equal(t, "Osaka", byName["address.city"].Value)
	assert.Equal(t, "fixed", byName["locked"].Value)
	assert.False(t, byName["spouse"].Checked)
}

func TestFiller_FillByIDAndDisplayValue(t *testing.T) {
	var out bytes.Buffer
	report, err := NewFiller().Fill(bytes.NewReader(pdftest.FormPDF()), &out, Values{
		"5":    "Hanako",
		"kind": "Bee",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"name", "kind"}, report.Updated)

	fields, err := NewExtractor().ExtractFromReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	byName := fieldsByName(fields)
	assert.Equal(t, "Hanako", byName["name"].Value)
	assert.Equal(t, "B", byName["kind"].Value)
}

func TestFiller_ClearText(t *testing.T) {
	var out bytes.Buffer
	_, err := NewFiller().Fill(bytes.NewReader(pdftest.FormPDF()), &out, Values{"name": ""})
	require.NoError(t, err)

	fields, err := NewExtractor().ExtractFromReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, fieldsByName(fields)["name"].Value)
}

func TestFiller_InvalidOption(t *testing.T) {
	var out bytes.Buffer
	_, err := NewFiller().Fill(bytes.NewReader(pdftest.FormPDF()), &out, Values{"kind": "Z"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestFiller_MaxLength(t *testing.T) {
	var out bytes.Buffer
	_, err := NewFiller().Fill(bytes.NewReader(pdftest.FormPDF()), &out, Values{"name": "012345678901234567890"})
	assert.ErrorIs(t, err, ErrValueTooLong)
	assert.Zero(t, out.Len())

	// MaxLen counts characters, not bytes
	_, err = NewFiller().Fill(bytes.NewReader(pdftest.FormPDF()), &out, Values{"name": "山田太郎山田太郎山田太郎山田太郎山田太郎"})
	assert.NoError(t, err)
}

func TestFiller_Encrypted(t *testing.T) {
	var encrypted bytes.Buffer
	conf := model.NewAESConfiguration("", "owner", 256)
	require.NoError(t, api.Encrypt(bytes.NewReader(pdftest.FormPDF()), &encrypted, conf))

	var out bytes.Buffer
	_, err := NewFiller().Fill(bytes.NewReader(encrypted.Bytes()), &out, Values{"name": "x"})
	assert.ErrorIs(t, err, ErrEncrypted)
}

func TestFiller_NoAcroForm(t *testing.T) {
	var out bytes.Buffer
	_, err := NewFiller().Fill(bytes.NewReader(pdftest.PlainPDF()), &out, Values{"name": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAcroForm))
}

func TestFiller_FillFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "form.pdf")
	out := filepath.Join(dir, "form_filled.pdf")
	require.NoError(t, os.WriteFile(in, pdftest.FormPDF(), 0o644))

	report, err := NewFiller().FillFile(in, out, Values{"agree": "yes"})
	require.NoError(t, err)
	assert.Equal(t, []string{"agree"}, report.Updated)

	fields, err := NewExtractor().ExtractFromFile(out)
	require.NoError(t, err)
	assert.True(t, fieldsByName(fields)["agree"].Checked)
}

func TestMatchOption(t *testing.T) {
	opts := []Option{{Export: "B", Display: "Bee"}}

	export, ok := matchOption(opts, "Bee")
	assert.True(t, ok)
	assert.Equal(t, "B", export)

	export, ok = matchOption(opts, "B")
	assert.True(t, ok)
	assert.Equal(t, "B", export)

	_, ok = matchOption(opts, "b")
	assert.False(t, ok)
}
