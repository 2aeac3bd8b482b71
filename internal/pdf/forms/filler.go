package forms

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/samber/lo"
)

// Filler writes field values into a document and serializes the result
type Filler struct {
	conf *model.Configuration
}

// NewFiller creates a new form filler using pdfcpu
func NewFiller() *Filler {
	return &Filler{conf: newConfiguration()}
}

// FillFile reads inPath, applies values and writes the result to outPath.
func (f *Filler) FillFile(inPath, outPath string, values Values) (*FillReport, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer in.Close()

	var buf bytes.Buffer
	report, err := f.Fill(in, &buf, values)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output PDF: %w", err)
	}
	return report, nil
}

// Fill applies values to the form in rs and writes the updated document to
// w. Keys are matched against field names first and object IDs second.
// Unknown keys and read-only fields are reported rather than failing the
// call. A value the field cannot hold (a choice outside its options, text
// longer than MaxLen) fails the whole fill and nothing is written.
func (f *Filler) Fill(rs io.ReadSeeker, w io.Writer, values Values) (*FillReport, error) {
	ctx, err := readContext(rs, f.conf)
	if err != nil {
		return nil, err
	}
	// Encrypted documents are never rewritten.
	if ctx.Encrypt != nil {
		return nil, ErrEncrypted
	}

	acroFormDict, _, err := acroForm(ctx)
	if err != nil {
		return nil, err
	}

	nodes, err := collectFields(ctx)
	if err != nil {
		return nil, err
	}

	byName := lo.KeyBy(nodes, func(n *fieldNode) string { return n.field.Name })
	byID := lo.KeyBy(lo.Filter(nodes, func(n *fieldNode, _ int) bool { return n.field.ID != "" }),
		func(n *fieldNode) string { return n.field.ID })

	report := &FillReport{Updated: []string{}}
	keys := lo.Keys(map[string]any(values))
	slices.Sort(keys)

	for _, key := range keys {
		node, ok := byName[key]
		if !ok {
			node, ok = byID[key]
		}
		if !ok {
			report.Unknown = append(report.Unknown, key)
			continue
		}

		if node.field.ReadOnly {
			report.Skipped = append(report.Skipped, SkippedField{Name: node.field.Name, Reason: ErrFieldReadOnly.Error()})
			continue
		}

		applied, err := applyValue(node, values[key])
		if err != nil {
			return nil, err
		}
		if !applied {
			report.Skipped = append(report.Skipped, SkippedField{
				Name:   node.field.Name,
				Reason: fmt.Sprintf("unsupported field type %s", node.field.Type),
			})
			continue
		}
		report.Updated = append(report.Updated, node.field.Name)
	}

	acroFormDict["NeedAppearances"] = types.Boolean(true)

	if err := api.WriteContext(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	log.Infof("filled %d field(s), skipped %d, unknown %d",
		len(report.Updated), len(report.Skipped), len(report.Unknown))
	return report, nil
}

// applyValue stores raw into the node's dictionaries. It reports false for
// field types that carry no editable value.
func applyValue(node *fieldNode, raw any) (bool, error) {
	field := node.field

	switch field.Type {
	case FieldTypeText:
		s := valueString(raw)
		if s == "" {
			delete(node.dict, "V")
			return true, nil
		}
		if field.MaxLength > 0 && len([]rune(s)) > field.MaxLength {
			return false, fmt.Errorf("%w: field %s allows %d characters", ErrValueTooLong, field.Name, field.MaxLength)
		}
		node.dict["V"] = encodeText(s)
		return true, nil

	case FieldTypeSelect:
		s := valueString(raw)
		if s == "" {
			delete(node.dict, "V")
			return true, nil
		}
		export, ok := matchOption(field.Options, s)
		if !ok {
			// Only an editable combo box accepts free text.
			if !field.Combo || !field.Editable {
				return false, fmt.Errorf("%w: %q for field %s", ErrInvalidOption, s, field.Name)
			}
			export = s
		}
		node.dict["V"] = encodeText(export)
		return true, nil

	case FieldTypeCheckbox:
		state := "Off"
		if valueBool(raw) {
			state = node.rawExport
			if state == "" {
				state = "Yes"
			}
		}
		node.dict["V"] = types.Name(state)
		for _, wd := range node.widgets {
			wd["AS"] = types.Name(state)
		}
		return true, nil

	case FieldTypeRadio:
		s := valueString(raw)
		state := "Off"
		if s != "" && s != "Off" {
			export, ok := matchOption(field.Options, s)
			if !ok {
				return false, fmt.Errorf("%w: %q for field %s", ErrInvalidOption, s, field.Name)
			}
			state = export
		}
		node.dict["V"] = types.Name(state)
		for i, wd := range node.widgets {
			as := "Off"
			if i < len(node.widgetStates) && node.widgetStates[i] == state {
				as = state
			}
			wd["AS"] = types.Name(as)
		}
		return true, nil
	}

	return false, nil
}

// matchOption finds the export value for s, which may be an export or a
// display value.
func matchOption(options []Option, s string) (string, bool) {
	opt, ok := lo.Find(options, func(o Option) bool {
		return o.Export == s || o.Display == s
	})
	return opt.Export, ok
}
