// Package mapping holds the field-mapping data model: the correspondence
// between PDF form fields and domain attributes, its durable store, the
// interactive editor model, and the adapter around the external
// classification service that proposes mappings.
package mapping

import "fmt"

// Kind determines which data source supplies a mapped field's value and
// whether the field repeats per roster entry. The string values are the wire
// values of the classification service.
type Kind string

const (
	KindGlobal Kind = "global"
	KindPlayer Kind = "joueur"
	KindCoach  Kind = "educateur"
	KindOther  Kind = "autre"
)

// Valid reports whether k is a member of the closed enum.
func (k Kind) Valid() bool {
	switch k {
	case KindGlobal, KindPlayer, KindCoach, KindOther:
		return true
	}
	return false
}

// FieldMapping is one inferred or manually declared correspondence between a
// PDF form field and a domain value. PDFFieldName may carry an index token
// (for example "joueur_nom[n]") for fields repeated per roster entry.
type FieldMapping struct {
	PDFFieldName string   `json:"pdfFieldName"`
	Kind         Kind     `json:"kind"`
	TargetPath   string   `json:"targetPath"`
	SampleValues []string `json:"sampleValues,omitempty"`
	Required     bool     `json:"required,omitempty"`
	Format       string   `json:"format,omitempty"`
}

// Validate checks the committed-entry invariant: non-empty field name, kind
// inside the closed enum, and a target path for every kind that fills. "autre"
// entries carry no fill target, so theirs may be empty.
func (m FieldMapping) Validate() error {
	if m.PDFFieldName == "" {
		return fmt.Errorf("mapping entry has empty pdf field name")
	}
	if !m.Kind.Valid() {
		return fmt.Errorf("mapping entry %q has invalid kind %q", m.PDFFieldName, m.Kind)
	}
	if m.TargetPath == "" && m.Kind != KindOther {
		return fmt.Errorf("mapping entry %q has empty target path", m.PDFFieldName)
	}
	return nil
}
