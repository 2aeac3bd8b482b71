package forms

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-nencho-tools/internal/pdf/pdftest"
)

func fieldsByName(fields []Field) map[string]Field {
	return lo.KeyBy(fields, func(f Field) string { return f.Name })
}

func TestExtractor_ExtractFromReader(t *testing.T) {
	fields, err := NewExtractor().ExtractFromReader(bytes.NewReader(pdftest.FormPDF()))
	require.NoError(t, err)
	require.Len(t, fields, 6)

	names := lo.Map(fields, func(f Field, _ int) string { return f.Name })
	assert.Equal(t, []string{"name", "agree", "kind", "locked", "address.city", "spouse"}, names)

	byName := fieldsByName(fields)

	t.Run("text", func(t *testing.T) {
		f := byName["name"]
		assert.Equal(t, "5", f.ID)
		assert.Equal(t, FieldTypeText, f.Type)
		assert.Equal(t, "Taro", f.Value)
		assert.Equal(t, 20, f.MaxLength)
		assert.Equal(t, 1, f.Page)
		assert.False(t, f.ReadOnly)
		require.NotNil(t, f.Bounds)
		assert.InDelta(t, 200, f.Bounds.Width, 0.001)
		assert.InDelta(t, 20, f.Bounds.Height, 0.001)
		require.NotNil(t, f.Appearance)
		assert.Equal(t, "Helv", f.Appearance.FontName)
		assert.InDelta(t, 12, f.Appearance.FontSize, 0.001)
		assert.Equal(t, "rgb(0,0,255)", f.Appearance.TextColor)
	})

	t.Run("checkbox", func(t *testing.T) {
		f := byName["agree"]
		assert.Equal(t, FieldTypeCheckbox, f.Type)
		assert.Equal(t, "Yes", f.ExportValue)
		assert.False(t, f.Checked)
		assert.Equal(t, "Off", f.Value)
	})

	t.Run("shift-jis export value", func(t *testing.T) {
		f := byName["spouse"]
		assert.Equal(t, FieldTypeCheckbox, f.Type)
		assert.Equal(t, "はい", f.ExportValue)
		assert.True(t, f.Checked)
	})

	t.Run("combo box", func(t *testing.T) {
		f := byName["kind"]
		assert.Equal(t, FieldTypeSelect, f.Type)
		assert.True(t, f.Combo)
		assert.Equal(t, "B", f.Value)
		assert.Equal(t, []Option{
			{Export: "A", Display: "A"},
			{Export: "B", Display: "Bee"},
			{Export: "C", Display: "C"},
		}, f.Options)
		assert.Equal(t, []string{"A", "Bee", "C"}, f.DisplayOptions())
	})

	t.Run("read-only", func(t *testing.T) {
		f := byName["locked"]
		assert.True(t, f.ReadOnly)
		assert.Equal(t, "fixed", f.Value)
	})

	t.Run("inherited type", func(t *testing.T) {
		f := byName["address.city"]
		assert.Equal(t, "11", f.ID)
		assert.Equal(t, FieldTypeText, f.Type)
		assert.Equal(t, "Tokyo", f.Value)
		assert.Equal(t, 1, f.Page)
	})
}

func TestExtractor_NoAcroForm(t *testing.T) {
	fields, err := NewExtractor().ExtractFromReader(bytes.NewReader(pdftest.PlainPDF()))
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestExtractor_ExtractFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.FormPDF(), 0o644))

	fields, err := NewExtractor().ExtractFromFile(path)
	require.NoError(t, err)
	assert.Len(t, fields, 6)

	_, err = NewExtractor().ExtractFromFile(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestExtractor_NotAPDF(t *testing.T) {
	_, err := NewExtractor().ExtractFromReader(bytes.NewReader([]byte("hello")))
	assert.Error(t, err)
}

func TestFieldType(t *testing.T) {
	tests := []struct {
		ft    string
		flags int
		want  FieldType
	}{
		{"Tx", 0, FieldTypeText},
		{"Btn", 0, FieldTypeCheckbox},
		{"Btn", flagRadio, FieldTypeRadio},
		{"Btn", flagPushbutton, FieldTypeButton},
		{"Ch", flagCombo, FieldTypeSelect},
		{"Sig", 0, FieldTypeSignature},
		{"", 0, FieldTypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fieldType(tt.ft, tt.flags), "FT=%s Ff=%d", tt.ft, tt.flags)
	}
}

func TestParseDAString(t *testing.T) {
	fa := parseDAString("/KozMinPr6N-Regular 9 Tf 0.5 g")
	assert.Equal(t, "KozMinPr6N-Regular", fa.FontName)
	assert.InDelta(t, 9, fa.FontSize, 0.001)
	assert.Equal(t, "gray(128)", fa.TextColor)
}
