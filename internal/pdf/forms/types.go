// Package forms reads and writes AcroForm fields through the pdfcpu object
// model.
package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldType represents the type of a form field
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeSelect    FieldType = "select"
	FieldTypeButton    FieldType = "button"
	FieldTypeSignature FieldType = "signature"
	FieldTypeUnknown   FieldType = "unknown"
)

// Field flag bits (PDF 32000-1, table 221, 226, 228, 230).
const (
	flagReadOnly    = 1 << 0
	flagRequired    = 1 << 1
	flagMultiline   = 1 << 12
	flagRadio       = 1 << 15
	flagPushbutton  = 1 << 16
	flagCombo       = 1 << 17
	flagEdit        = 1 << 18
	flagMultiSelect = 1 << 21
)

var (
	// ErrNoAcroForm is returned when a document carries no interactive form.
	ErrNoAcroForm = errors.New("document has no AcroForm")
	// ErrInvalidOption is returned when a choice value is not one of the field's options.
	ErrInvalidOption = errors.New("value is not a valid option")
	// ErrFieldReadOnly marks fields that were not written because they are read-only.
	ErrFieldReadOnly = errors.New("field is read-only")
	// ErrValueTooLong is returned when a text value exceeds the field's MaxLen.
	ErrValueTooLong = errors.New("value exceeds max length")
	// ErrEncrypted is returned when filling an encrypted document.
	ErrEncrypted = errors.New("document is encrypted")
)

// Coordinate represents a point in PDF coordinate space
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox represents a widget rectangle in PDF coordinate space
type BoundingBox struct {
	LowerLeft  Coordinate `json:"lower_left"`
	UpperRight Coordinate `json:"upper_right"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
}

// FieldAppearance holds what can be read from the default appearance string
type FieldAppearance struct {
	FontName  string  `json:"font_name,omitempty"`
	FontSize  float64 `json:"font_size,omitempty"`
	TextColor string  `json:"text_color,omitempty"`
}

// Option is one entry of a choice field. Export is what gets stored in /V,
// Display is what a viewer shows.
type Option struct {
	Export  string `json:"export"`
	Display string `json:"display"`
}

// Field represents an interactive form field in a PDF
type Field struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         FieldType        `json:"type"`
	Value        string           `json:"value,omitempty"`
	Values       []string         `json:"values,omitempty"`
	DefaultValue string           `json:"default_value,omitempty"`
	Options      []Option         `json:"options,omitempty"`
	ExportValue  string           `json:"export_value,omitempty"`
	Checked      bool             `json:"checked,omitempty"`
	Combo        bool             `json:"combo,omitempty"`
	Editable     bool             `json:"editable,omitempty"`
	MultiSelect  bool             `json:"multi_select,omitempty"`
	Multiline    bool             `json:"multiline,omitempty"`
	Required     bool             `json:"required"`
	ReadOnly     bool             `json:"read_only"`
	MaxLength    int              `json:"max_length,omitempty"`
	Page         int              `json:"page"`
	Bounds       *BoundingBox     `json:"bounds,omitempty"`
	Appearance   *FieldAppearance `json:"appearance,omitempty"`
}

// DisplayOptions returns the display strings of a choice field's options.
func (f Field) DisplayOptions() []string {
	out := make([]string, len(f.Options))
	for i, o := range f.Options {
		out[i] = o.Display
	}
	return out
}

// Values maps field names (or object IDs) to new values. Text and choice
// fields take strings; checkboxes take a bool or a string where "", "Off",
// "false", "no" and "0" mean unchecked.
type Values map[string]any

// SkippedField records a requested value that was not written.
type SkippedField struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// FillReport summarises a Fill call.
type FillReport struct {
	Updated []string       `json:"updated"`
	Skipped []SkippedField `json:"skipped,omitempty"`
	Unknown []string       `json:"unknown,omitempty"`
}

func valueString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func valueBool(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "off", "false", "no", "0":
			return false
		}
		return true
	default:
		return true
	}
}
