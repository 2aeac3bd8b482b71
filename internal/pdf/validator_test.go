package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-nencho-tools/internal/pdf/pdftest"
)

func TestValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	valid := pdftest.WriteFile(t, dir, "valid.pdf", pdftest.PlainPDF())
	empty := pdftest.WriteFile(t, dir, "empty.pdf", nil)
	text := pdftest.WriteFile(t, dir, "notes.txt", []byte("hello"))
	large := pdftest.WriteFile(t, dir, "large.pdf", make([]byte, 2048))
	sub := filepath.Join(dir, "sub.pdf")
	require.NoError(t, os.Mkdir(sub, 0o750))

	v := NewValidator(1024)

	tests := []struct {
		name    string
		path    string
		valid   bool
		message string
	}{
		{"valid pdf", valid, true, ""},
		{"empty path", "", false, "path cannot be empty"},
		{"missing", filepath.Join(dir, "missing.pdf"), false, "file does not exist"},
		{"directory", sub, false, "path is a directory"},
		{"wrong extension", text, false, "file is not a PDF"},
		{"empty file", empty, false, "file is empty"},
		{"too large", large, false, "file too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateFile(PDFValidateFileRequest{Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.message != "" {
				assert.Contains(t, result.Message, tt.message)
			}
		})
	}
}

func TestValidator_DocumentInfo(t *testing.T) {
	dir := t.TempDir()
	plain := pdftest.WriteFile(t, dir, "plain.pdf", pdftest.PlainPDF())
	form := pdftest.WriteFile(t, dir, "form.pdf", pdftest.FormPDF())
	radio := pdftest.WriteFile(t, dir, "radio.pdf", pdftest.RadioPDF())
	broken := pdftest.WriteFile(t, dir, "broken.pdf", []byte("%PDF-1.7 truncated"))

	v := NewValidator(1024 * 1024)

	tests := []struct {
		name    string
		path    string
		pages   int
		hasForm bool
	}{
		{"plain", plain, 1, false},
		{"form", form, 1, true},
		{"two pages", radio, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateFile(PDFValidateFileRequest{Path: tt.path})
			require.NoError(t, err)
			assert.True(t, result.Valid)
			assert.Equal(t, tt.pages, result.Pages)
			assert.Equal(t, tt.hasForm, result.HasForm)
			assert.False(t, result.Encrypted)
		})
	}

	result, err := v.ValidateFile(PDFValidateFileRequest{Path: broken})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Zero(t, result.Pages)
}
