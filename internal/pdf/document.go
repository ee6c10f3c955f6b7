package pdf

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is a loaded PDF with its AcroForm fields indexed by name. Each
// instance owns an independent pdfcpu context, so concurrent fills never
// share state.
type Document struct {
	ctx    *model.Context
	fields []*formField
	byName map[string]*formField
	byFold map[string][]*formField
}

type formField struct {
	name    string
	typ     ControlType
	options []string
	dict    types.Dict
}

// LoadDocument parses documentBytes into a Document. Unloadable bytes yield
// ErrMalformedDocument. A document without an AcroForm loads fine and simply
// has zero fields.
func LoadDocument(documentBytes []byte) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(documentBytes), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	d := &Document{
		ctx:    ctx,
		byName: make(map[string]*formField),
		byFold: make(map[string][]*formField),
	}
	if err := d.indexFields(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return d, nil
}

// Fields reports every terminal form field in document order.
func (d *Document) Fields() []FormField {
	out := make([]FormField, 0, len(d.fields))
	for _, f := range d.fields {
		out = append(out, FormField{Name: f.name, Type: f.typ, Options: f.options})
	}
	return out
}

// FieldNames reports the fully qualified names of all terminal fields.
func (d *Document) FieldNames() []string {
	names := make([]string, 0, len(d.fields))
	for _, f := range d.fields {
		names = append(names, f.name)
	}
	return names
}

// MatchFold returns the actual field names equal to name under simple case
// folding. The exact name is matched first so templates mixing "Nom" and
// "nom" resolve deterministically.
func (d *Document) MatchFold(name string) []string {
	if _, ok := d.byName[name]; ok {
		return []string{name}
	}
	folded := d.byFold[foldName(name)]
	out := make([]string, 0, len(folded))
	for _, f := range folded {
		out = append(out, f.name)
	}
	return out
}

// TypeOf reports the control type of an exact field name.
func (d *Document) TypeOf(name string) (ControlType, bool) {
	f, ok := d.byName[name]
	if !ok {
		return ControlTypeUnknown, false
	}
	return f.typ, true
}

// Value reports the current value of an exact field name: the decoded text
// string for text controls, the state name for checkbox and radio controls.
// ok=false when the field does not exist or carries no value.
func (d *Document) Value(name string) (string, bool) {
	f, ok := d.byName[name]
	if !ok {
		return "", false
	}
	obj, found := f.dict.Find("V")
	if !found {
		return "", false
	}
	if n, isName := obj.(types.Name); isName {
		return string(n), true
	}
	if s, err := d.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil); err == nil {
		return s, true
	}
	return "", false
}

// SetText writes a text value into the named field. Works for text, select
// and radio controls; radio values are written as name objects matching the
// intended on-state.
func (d *Document) SetText(name, value string) error {
	f, ok := d.byName[name]
	if !ok {
		return fmt.Errorf("no form field named %q", name)
	}
	switch f.typ {
	case ControlTypeRadio:
		f.dict["V"] = types.Name(value)
	case ControlTypeText, ControlTypeSelect:
		f.dict["V"] = textString(value)
		// Drop any cached appearance so viewers regenerate it from V.
		delete(f.dict, "AP")
	default:
		return fmt.Errorf("field %q is a %s control, not writable as text", name, f.typ)
	}
	d.setNeedAppearances()
	return nil
}

// SetCheck checks or unchecks the named checkbox field.
func (d *Document) SetCheck(name string, on bool) error {
	f, ok := d.byName[name]
	if !ok {
		return fmt.Errorf("no form field named %q", name)
	}
	if f.typ != ControlTypeCheckbox {
		return fmt.Errorf("field %q is a %s control, not a checkbox", name, f.typ)
	}
	state := types.Name("Off")
	if on {
		state = types.Name(d.onStateName(f.dict))
	}
	f.dict["V"] = state
	f.dict["AS"] = state
	d.setNeedAppearances()
	return nil
}

// Flatten bakes the written values in by marking every field read-only, so
// the form is no longer editable in viewers.
func (d *Document) Flatten() error {
	acro, err := d.acroFormDict()
	if err != nil {
		return err
	}
	if acro == nil {
		return nil
	}
	for _, f := range d.fields {
		flags := 0
		if obj, found := f.dict.Find("Ff"); found {
			if n, err := d.ctx.DereferenceInteger(obj); err == nil && n != nil {
				flags = int(*n)
			}
		}
		f.dict["Ff"] = types.Integer(flags | 1) // bit 1: read-only
	}
	return nil
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF context: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) acroFormDict() (types.Dict, error) {
	rootDict, err := d.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	obj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acro, err := d.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	return acro, nil
}

func (d *Document) setNeedAppearances() {
	if acro, err := d.acroFormDict(); err == nil && acro != nil {
		acro["NeedAppearances"] = types.Boolean(true)
	}
}

// indexFields walks the AcroForm field tree and indexes every terminal field
// under its fully qualified name.
func (d *Document) indexFields() error {
	acro, err := d.acroFormDict()
	if err != nil {
		return err
	}
	if acro == nil {
		return nil
	}
	fieldsObj, found := acro.Find("Fields")
	if !found {
		return nil
	}
	fieldsArray, err := d.ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return fmt.Errorf("failed to dereference Fields array: %w", err)
	}
	for i, ref := range fieldsArray {
		if err := d.indexNode(ref, "", i); err != nil {
			continue
		}
	}
	return nil
}

func (d *Document) indexNode(obj types.Object, prefix string, index int) error {
	dict, err := d.ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		return fmt.Errorf("failed to dereference field %d", index)
	}

	name := ""
	if nameObj, found := dict.Find("T"); found {
		if s, err := d.ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			name = s
		}
	}
	if name == "" {
		name = fmt.Sprintf("field_%d", index)
	}
	if prefix != "" {
		name = prefix + "." + name
	}

	// A node whose kids carry their own names is an internal node; its kids
	// are the real fields. Nameless kids are widget annotations of this field.
	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := d.ctx.DereferenceArray(kidsObj); err == nil && len(kids) > 0 {
			named := false
			for _, kid := range kids {
				if kd, err := d.ctx.DereferenceDict(kid); err == nil && kd != nil {
					if _, hasName := kd.Find("T"); hasName {
						named = true
						break
					}
				}
			}
			if named {
				for j, kid := range kids {
					if err := d.indexNode(kid, name, j); err != nil {
						continue
					}
				}
				return nil
			}
		}
	}

	f := &formField{
		name: name,
		typ:  d.fieldType(dict),
		dict: dict,
	}
	if f.typ == ControlTypeSelect || f.typ == ControlTypeRadio {
		f.options = d.fieldOptions(dict)
	}
	d.fields = append(d.fields, f)
	if _, dup := d.byName[name]; !dup {
		d.byName[name] = f
	}
	folded := foldName(name)
	d.byFold[folded] = append(d.byFold[folded], f)
	return nil
}

// fieldType determines the control type from the FT entry, checking the
// parent chain for an inherited FT.
func (d *Document) fieldType(dict types.Dict) ControlType {
	ftObj, found := dict.Find("FT")
	if !found {
		if parentObj, found := dict.Find("Parent"); found {
			if parent, err := d.ctx.DereferenceDict(parentObj); err == nil && parent != nil {
				return d.fieldType(parent)
			}
		}
		return ControlTypeUnknown
	}
	ftName, err := d.ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return ControlTypeUnknown
	}
	switch ftName {
	case "Btn":
		if flagsObj, found := dict.Find("Ff"); found {
			if flags, err := d.ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				if (*flags & (1 << 15)) != 0 { // bit 16: radio
					return ControlTypeRadio
				}
				if (*flags & (1 << 16)) != 0 { // bit 17: pushbutton
					return ControlTypeButton
				}
			}
		}
		return ControlTypeCheckbox
	case "Tx":
		return ControlTypeText
	case "Ch":
		return ControlTypeSelect
	case "Sig":
		return ControlTypeSignature
	default:
		return ControlTypeUnknown
	}
}

func (d *Document) fieldOptions(dict types.Dict) []string {
	optObj, found := dict.Find("Opt")
	if !found {
		return nil
	}
	optArray, err := d.ctx.DereferenceArray(optObj)
	if err != nil {
		return nil
	}
	var options []string
	for _, opt := range optArray {
		// Options are strings or [export_value, display_value] pairs.
		if s, err := d.ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			options = append(options, s)
		} else if arr, err := d.ctx.DereferenceArray(opt); err == nil && len(arr) >= 2 {
			if display, err := d.ctx.DereferenceStringOrHexLiteral(arr[1], model.V10, nil); err == nil {
				options = append(options, display)
			}
		}
	}
	return options
}

// onStateName finds the checkbox on-state by inspecting the normal appearance
// dictionary; checkboxes authored with custom export values use names other
// than the conventional "Yes".
func (d *Document) onStateName(dict types.Dict) string {
	apObj, found := dict.Find("AP")
	if !found {
		return "Yes"
	}
	ap, err := d.ctx.DereferenceDict(apObj)
	if err != nil || ap == nil {
		return "Yes"
	}
	nObj, found := ap.Find("N")
	if !found {
		return "Yes"
	}
	n, err := d.ctx.DereferenceDict(nObj)
	if err != nil || n == nil {
		return "Yes"
	}
	for key := range n {
		if key != "Off" {
			return key
		}
	}
	return "Yes"
}

// textString encodes s as a UTF-16BE hex string literal, which keeps accented
// characters intact in field values.
func textString(s string) types.HexLiteral {
	b := []byte{0xFE, 0xFF}
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return types.HexLiteral(hex.EncodeToString(b))
}
