package forms

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "forms")

// maxFieldDepth bounds recursion through Kids and the page tree.
const maxFieldDepth = 32

// Extractor lists the AcroForm fields of a document
type Extractor struct {
	conf *model.Configuration
}

// NewExtractor creates a new form extractor using pdfcpu
func NewExtractor() *Extractor {
	return &Extractor{conf: newConfiguration()}
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// ExtractFromFile extracts all form fields from a PDF file
func (e *Extractor) ExtractFromFile(filePath string) ([]Field, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()

	return e.ExtractFromReader(file)
}

// ExtractFromReader extracts all form fields from rs. A document without an
// AcroForm yields no fields and no error.
func (e *Extractor) ExtractFromReader(rs io.ReadSeeker) ([]Field, error) {
	ctx, err := readContext(rs, e.conf)
	if err != nil {
		return nil, err
	}

	nodes, err := collectFields(ctx)
	if errors.Is(err, ErrNoAcroForm) {
		log.Debug("no AcroForm dictionary found in document")
		return []Field{}, nil
	}
	if err != nil {
		return nil, err
	}

	fields := make([]Field, len(nodes))
	for i, n := range nodes {
		fields[i] = n.field
	}
	return fields, nil
}

func readContext(rs io.ReadSeeker, conf *model.Configuration) (*model.Context, error) {
	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}

// acroForm returns the AcroForm dictionary and its Fields array.
func acroForm(ctx *model.Context) (types.Dict, types.Array, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil, ErrNoAcroForm
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil, ErrNoAcroForm
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return acroFormDict, nil, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}
	return acroFormDict, fieldsArray, nil
}

// fieldNode is a terminal field together with the dictionaries a fill needs.
type fieldNode struct {
	field   Field
	dict    types.Dict
	widgets []types.Dict
	// rawExport is the checkbox on-state exactly as stored in the AP keys.
	rawExport string
	// widgetStates holds each radio widget's on-state, "" when it has none.
	widgetStates []string
}

// inherited carries the attributes a kid takes from its parent field.
type inherited struct {
	name  string
	ft    string
	flags int
}

type walker struct {
	ctx   *model.Context
	pages map[int]int
	nodes []*fieldNode
}

func collectFields(ctx *model.Context) ([]*fieldNode, error) {
	_, fieldsArray, err := acroForm(ctx)
	if err != nil {
		return nil, err
	}

	w := &walker{ctx: ctx, pages: widgetPages(ctx)}
	for i, ref := range fieldsArray {
		w.visit(ref, inherited{}, i, 0)
	}
	return w.nodes, nil
}

func (w *walker) visit(obj types.Object, parent inherited, index, depth int) {
	if depth > maxFieldDepth {
		log.Warnf("field hierarchy deeper than %d, stopping", maxFieldDepth)
		return
	}

	dict, err := w.ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		log.WithError(err).Debugf("skipping field %d", index)
		return
	}

	cur := parent
	if partial := w.text(dict, "T"); partial != "" {
		if parent.name != "" {
			cur.name = parent.name + "." + partial
		} else {
			cur.name = partial
		}
	}
	if ft := w.name(dict, "FT"); ft != "" {
		cur.ft = ft
	}
	if ff, ok := w.integer(dict, "Ff"); ok {
		cur.flags = ff
	}

	// Kids with a /T are child fields; kids without one are widgets of
	// this field.
	var childFields, widgets []types.Object
	if kidsObj, found := dict.Find("Kids"); found {
		kids, err := w.ctx.DereferenceArray(kidsObj)
		if err == nil {
			for _, kid := range kids {
				kd, err := w.ctx.DereferenceDict(kid)
				if err != nil || kd == nil {
					continue
				}
				if _, hasName := kd.Find("T"); hasName {
					childFields = append(childFields, kid)
				} else {
					widgets = append(widgets, kid)
				}
			}
		}
	}

	if len(childFields) > 0 {
		for i, kid := range childFields {
			w.visit(kid, cur, i, depth+1)
		}
		return
	}

	if len(widgets) == 0 {
		widgets = []types.Object{obj}
	}
	w.nodes = append(w.nodes, w.terminal(obj, dict, cur, widgets, index))
}

func (w *walker) terminal(obj types.Object, dict types.Dict, attrs inherited, widgetObjs []types.Object, index int) *fieldNode {
	node := &fieldNode{dict: dict}
	f := &node.field

	if nr, ok := objectNumber(obj); ok {
		f.ID = strconv.Itoa(nr)
	}
	f.Name = attrs.name
	if f.Name == "" {
		if f.ID != "" {
			f.Name = "field_" + f.ID
		} else {
			f.Name = fmt.Sprintf("field_%d", index)
		}
	}

	f.Type = fieldType(attrs.ft, attrs.flags)
	f.ReadOnly = attrs.flags&flagReadOnly != 0
	f.Required = attrs.flags&flagRequired != 0

	for _, wo := range widgetObjs {
		wd, err := w.ctx.DereferenceDict(wo)
		if err != nil || wd == nil {
			continue
		}
		node.widgets = append(node.widgets, wd)
		if f.Bounds == nil {
			f.Bounds = w.rect(wd)
		}
		if f.Page == 0 {
			if nr, ok := objectNumber(wo); ok {
				f.Page = w.pages[nr]
			}
		}
	}

	switch f.Type {
	case FieldTypeText:
		f.Value = w.text(dict, "V")
		f.DefaultValue = w.text(dict, "DV")
		f.Multiline = attrs.flags&flagMultiline != 0
		if n, ok := w.integer(dict, "MaxLen"); ok {
			f.MaxLength = n
		}
	case FieldTypeSelect:
		f.Options = w.options(dict)
		f.Combo = attrs.flags&flagCombo != 0
		f.Editable = attrs.flags&flagEdit != 0
		f.MultiSelect = attrs.flags&flagMultiSelect != 0
		f.Value, f.Values = w.choiceValue(dict, "V")
		f.DefaultValue, _ = w.choiceValue(dict, "DV")
	case FieldTypeCheckbox:
		node.rawExport = w.onState(node.widgets)
		f.ExportValue = decodeName(node.rawExport)
		state := w.name(dict, "V")
		if state == "" && len(node.widgets) > 0 {
			state = w.name(node.widgets[0], "AS")
		}
		f.Checked = state != "" && state != "Off"
		f.Value = decodeName(state)
		f.DefaultValue = decodeName(w.name(dict, "DV"))
	case FieldTypeRadio:
		f.Value = decodeName(w.name(dict, "V"))
		for _, wd := range node.widgets {
			on := w.onState([]types.Dict{wd})
			node.widgetStates = append(node.widgetStates, on)
			if on != "" {
				f.Options = append(f.Options, Option{Export: on, Display: decodeName(on)})
			}
		}
	}

	if da := w.text(dict, "DA"); da != "" {
		f.Appearance = parseDAString(da)
	}

	log.Debugf("extracted field %s (type: %s, page %d)", f.Name, f.Type, f.Page)
	return node
}

// fieldType determines the field type from the FT entry and field flags
func fieldType(ft string, flags int) FieldType {
	switch ft {
	case "Btn":
		switch {
		case flags&flagRadio != 0:
			return FieldTypeRadio
		case flags&flagPushbutton != 0:
			return FieldTypeButton
		}
		return FieldTypeCheckbox
	case "Tx":
		return FieldTypeText
	case "Ch":
		return FieldTypeSelect
	case "Sig":
		return FieldTypeSignature
	default:
		return FieldTypeUnknown
	}
}

func (w *walker) text(d types.Dict, key string) string {
	o, found := d.Find(key)
	if !found {
		return ""
	}
	s, err := w.ctx.DereferenceStringOrHexLiteral(o, model.V10, nil)
	if err != nil {
		return ""
	}
	return s
}

func (w *walker) name(d types.Dict, key string) string {
	o, found := d.Find(key)
	if !found {
		return ""
	}
	n, err := w.ctx.DereferenceName(o, model.V10, nil)
	if err != nil {
		return ""
	}
	return string(n)
}

func (w *walker) integer(d types.Dict, key string) (int, bool) {
	o, found := d.Find(key)
	if !found {
		return 0, false
	}
	i, err := w.ctx.DereferenceInteger(o)
	if err != nil || i == nil {
		return 0, false
	}
	return (*i).Value(), true
}

// choiceValue reads V or DV, which is a string or an array of strings.
func (w *walker) choiceValue(d types.Dict, key string) (string, []string) {
	o, found := d.Find(key)
	if !found {
		return "", nil
	}
	if s, err := w.ctx.DereferenceStringOrHexLiteral(o, model.V10, nil); err == nil {
		return s, nil
	}
	arr, err := w.ctx.DereferenceArray(o)
	if err != nil {
		return "", nil
	}
	var values []string
	for _, item := range arr {
		if s, err := w.ctx.DereferenceStringOrHexLiteral(item, model.V10, nil); err == nil {
			values = append(values, s)
		}
	}
	if len(values) > 0 {
		return values[0], values
	}
	return "", nil
}

// options reads Opt. Entries are strings or [export display] pairs.
func (w *walker) options(d types.Dict) []Option {
	optObj, found := d.Find("Opt")
	if !found {
		return nil
	}
	optArray, err := w.ctx.DereferenceArray(optObj)
	if err != nil {
		return nil
	}

	var options []Option
	for _, opt := range optArray {
		if s, err := w.ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			options = append(options, Option{Export: s, Display: s})
			continue
		}
		pair, err := w.ctx.DereferenceArray(opt)
		if err != nil || len(pair) < 2 {
			continue
		}
		export, err1 := w.ctx.DereferenceStringOrHexLiteral(pair[0], model.V10, nil)
		display, err2 := w.ctx.DereferenceStringOrHexLiteral(pair[1], model.V10, nil)
		if err1 == nil && err2 == nil {
			options = append(options, Option{Export: export, Display: display})
		}
	}
	return options
}

// onState returns the first non-Off key of the widgets' normal appearance
// dictionaries.
func (w *walker) onState(widgets []types.Dict) string {
	for _, wd := range widgets {
		apObj, found := wd.Find("AP")
		if !found {
			continue
		}
		ap, err := w.ctx.DereferenceDict(apObj)
		if err != nil || ap == nil {
			continue
		}
		nObj, found := ap.Find("N")
		if !found {
			continue
		}
		n, err := w.ctx.DereferenceDict(nObj)
		if err != nil || n == nil {
			continue
		}
		keys := make([]string, 0, len(n))
		for k := range n {
			if k != "Off" {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			slices.Sort(keys)
			return keys[0]
		}
	}
	return ""
}

func (w *walker) rect(d types.Dict) *BoundingBox {
	rectObj, found := d.Find("Rect")
	if !found {
		return nil
	}
	rectArray, err := w.ctx.DereferenceArray(rectObj)
	if err != nil || len(rectArray) != 4 {
		return nil
	}

	coords := make([]float64, 4)
	for i, c := range rectArray {
		if f, err := w.ctx.DereferenceNumber(c); err == nil {
			coords[i] = f
		}
	}

	return &BoundingBox{
		LowerLeft:  Coordinate{X: coords[0], Y: coords[1]},
		UpperRight: Coordinate{X: coords[2], Y: coords[3]},
		Width:      coords[2] - coords[0],
		Height:     coords[3] - coords[1],
	}
}

// widgetPages maps annotation object numbers to 1-based page numbers.
func widgetPages(ctx *model.Context) map[int]int {
	pages := make(map[int]int)

	rootDict, err := ctx.Catalog()
	if err != nil {
		return pages
	}
	pagesObj, found := rootDict.Find("Pages")
	if !found {
		return pages
	}

	pageNr := 0
	var walk func(obj types.Object, depth int)
	walk = func(obj types.Object, depth int) {
		if depth > maxFieldDepth {
			return
		}
		d, err := ctx.DereferenceDict(obj)
		if err != nil || d == nil {
			return
		}
		if kidsObj, found := d.Find("Kids"); found {
			kids, err := ctx.DereferenceArray(kidsObj)
			if err != nil {
				return
			}
			for _, kid := range kids {
				walk(kid, depth+1)
			}
			return
		}

		pageNr++
		annotsObj, found := d.Find("Annots")
		if !found {
			return
		}
		annots, err := ctx.DereferenceArray(annotsObj)
		if err != nil {
			return
		}
		for _, a := range annots {
			if nr, ok := objectNumber(a); ok {
				pages[nr] = pageNr
			}
		}
	}
	walk(pagesObj, 0)

	return pages
}

func objectNumber(o types.Object) (int, bool) {
	switch ir := o.(type) {
	case types.IndirectRef:
		return ir.ObjectNumber.Value(), true
	case *types.IndirectRef:
		if ir != nil {
			return ir.ObjectNumber.Value(), true
		}
	}
	return 0, false
}

// parseDAString parses the default appearance string
func parseDAString(da string) *FieldAppearance {
	fa := &FieldAppearance{}
	parts := strings.Fields(da)
	for i := 0; i < len(parts); i++ {
		switch parts[i] {
		case "Tf":
			if i >= 2 {
				fa.FontName = strings.TrimPrefix(parts[i-2], "/")
				if size, err := strconv.ParseFloat(parts[i-1], 64); err == nil {
					fa.FontSize = size
				}
			}
		case "rg":
			if i >= 3 {
				r, _ := strconv.ParseFloat(parts[i-3], 64)
				g, _ := strconv.ParseFloat(parts[i-2], 64)
				b, _ := strconv.ParseFloat(parts[i-1], 64)
				fa.TextColor = fmt.Sprintf("rgb(%.0f,%.0f,%.0f)", r*255, g*255, b*255)
			}
		case "g":
			if i >= 1 {
				gray, _ := strconv.ParseFloat(parts[i-1], 64)
				fa.TextColor = fmt.Sprintf("gray(%.0f)", gray*255)
			}
		}
	}
	return fa
}
