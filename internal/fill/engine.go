package fill

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/clubsuite/matchsheet/internal/mapping"
	"github.com/clubsuite/matchsheet/internal/pdf"
)

// Locale words used when coercing booleans across control types.
const (
	affirmativeWord = "Oui"
	negativeWord    = "Non"
)

// affirmativeValues are the strings that check a checkbox when a string value
// lands on one.
var affirmativeValues = map[string]struct{}{
	"oui": {}, "yes": {}, "true": {}, "on": {}, "1": {},
}

// Request is the input to one fill operation. A nil Mappings slice means no
// list was ever committed for the template and enables the convention
// fallback; a committed empty list is non-nil and fills nothing.
// ReferentIndex designates the lead coach as an index into Coaches; it must
// reference an entry and is not re-validated here. A negative index means no
// referent.
type Request struct {
	TemplateBytes []byte
	Mappings      []mapping.FieldMapping
	Tournament    Tournament
	Players       []Player
	Coaches       []Coach
	ReferentIndex int
}

// SkippedField records one mapping entry (or entity instance) that produced
// no write, and why. Skips are diagnostics, never errors.
type SkippedField struct {
	PDFField   string `json:"pdfField"`
	TargetPath string `json:"targetPath"`
	Reason     string `json:"reason"`
}

// Result is the outcome of a fill: the produced document plus enough
// diagnostics for a caller that wants strictness to inspect what was not
// written, without changing the permissive default.
type Result struct {
	Document  []byte         `json:"-"`
	Touched   int            `json:"touched"`
	Skipped   []SkippedField `json:"skipped,omitempty"`
	Flattened bool           `json:"flattened"`
}

// Engine maps a Request to a filled, flattened copy of the template. It
// never mutates the template or its mappings; each call operates on its own
// loaded document.
type Engine struct {
	clubName string
	logger   *slog.Logger
}

// NewEngine creates a fill engine. clubName is the constant written into
// "club" fields.
func NewEngine(clubName string, logger *slog.Logger) *Engine {
	return &Engine{clubName: clubName, logger: logger}
}

// Fill executes the fill algorithm. Only an unloadable template is fatal;
// every per-field failure degrades to a skipped-field diagnostic.
func (e *Engine) Fill(req Request) (*Result, error) {
	doc, err := pdf.LoadDocument(req.TemplateBytes)
	if err != nil {
		return nil, err
	}

	global := globalBucket(req.Tournament, e.clubName)
	players := make([]Bucket, len(req.Players))
	for i, p := range req.Players {
		players[i] = playerBucket(p)
	}
	educators := make([]Bucket, len(req.Coaches))
	for i, c := range req.Coaches {
		educators[i] = educatorBucket(c, i == req.ReferentIndex)
	}

	res := &Result{}
	if req.Mappings == nil {
		// No committed mapping at all: fall back to convention-based
		// auto-fill so the template is still partially usable. A committed
		// empty list is non-nil and deliberately fills nothing.
		e.conventionFill(doc, global, players, educators, res)
	} else {
		for _, entry := range req.Mappings {
			e.applyEntry(doc, entry, global, players, educators, res)
		}
	}

	if err := doc.Flatten(); err != nil {
		// The document is still returned with fields editable rather than
		// failing the whole fill.
		e.logger.Warn("fill.flatten_failed", "error", err)
	} else {
		res.Flattened = true
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serialize filled document: %w", err)
	}
	res.Document = out

	e.logger.Info("fill.done",
		"touched", res.Touched, "skipped", len(res.Skipped), "flattened", res.Flattened)
	return res, nil
}

func (e *Engine) applyEntry(doc *pdf.Document, entry mapping.FieldMapping,
	global Bucket, players, educators []Bucket, res *Result,
) {
	switch entry.Kind {
	case mapping.KindGlobal:
		value, ok := global.Resolve(entry.TargetPath)
		if !ok {
			res.skip(entry.PDFFieldName, entry.TargetPath, "target path resolves to no value")
			return
		}
		e.writeCandidates(doc, NameVariants(entry.PDFFieldName), entry, value, res)

	case mapping.KindPlayer:
		e.applyRepeated(doc, entry, players, false, res)

	case mapping.KindCoach:
		e.applyRepeated(doc, entry, educators, true, res)

	case mapping.KindOther:
		// No defined target; never auto-applied.
		res.skip(entry.PDFFieldName, entry.TargetPath, "kind has no fill target")

	default:
		res.skip(entry.PDFFieldName, entry.TargetPath, fmt.Sprintf("unknown kind %q", entry.Kind))
	}
}

// applyRepeated fills one mapping entry for every entity in the roster,
// substituting the 1-based position into the field name.
func (e *Engine) applyRepeated(doc *pdf.Document, entry mapping.FieldMapping,
	entities []Bucket, coach bool, res *Result,
) {
	attr := lastSegment(entry.TargetPath)
	referentTarget := coach && strings.Contains(strings.ToLower(entry.TargetPath), "referent")

	for i, entity := range entities {
		var value any
		var ok bool
		if referentTarget {
			value, ok = entity["referent"], true
		} else {
			value, ok = entity.Resolve(attr)
		}
		if !ok {
			res.skip(entry.PDFFieldName, entry.TargetPath, "target path resolves to no value")
			continue
		}

		candidates := newStringSet()
		for _, c := range IndexCandidates(entry.PDFFieldName, i+1) {
			for _, v := range NameVariants(c) {
				candidates.add(v)
			}
		}
		e.writeCandidates(doc, candidates.values(), entry, value, res)
	}
}

// writeCandidates intersects the candidate names with the real field set and
// writes the value into every hit. All candidates are attempted; matching is
// deliberately not short-circuited.
func (e *Engine) writeCandidates(doc *pdf.Document, candidates []string,
	entry mapping.FieldMapping, value any, res *Result,
) {
	matched := newStringSet()
	for _, candidate := range candidates {
		for _, actual := range doc.MatchFold(candidate) {
			matched.add(actual)
		}
	}
	if len(matched.values()) == 0 {
		res.skip(entry.PDFFieldName, entry.TargetPath, "no matching form field")
		return
	}
	for _, name := range matched.values() {
		if err := e.writeValue(doc, name, value); err != nil {
			e.logger.Warn("fill.field_write_failed", "field", name, "error", err)
			res.skip(name, entry.TargetPath, err.Error())
			continue
		}
		res.Touched++
	}
}

// writeValue coerces value to the control type of the named field and writes
// it. Booleans render as the locale words in text controls; strings check a
// checkbox only when they spell an affirmative.
func (e *Engine) writeValue(doc *pdf.Document, fieldName string, value any) error {
	typ, ok := doc.TypeOf(fieldName)
	if !ok {
		return fmt.Errorf("no form field named %q", fieldName)
	}
	switch typ {
	case pdf.ControlTypeCheckbox:
		switch v := value.(type) {
		case bool:
			return doc.SetCheck(fieldName, v)
		case string:
			_, affirmative := affirmativeValues[strings.ToLower(strings.TrimSpace(v))]
			return doc.SetCheck(fieldName, affirmative)
		default:
			return doc.SetCheck(fieldName, false)
		}
	case pdf.ControlTypeText, pdf.ControlTypeSelect, pdf.ControlTypeRadio:
		return doc.SetText(fieldName, stringify(value))
	default:
		return fmt.Errorf("field %q has unsupported control type %s", fieldName, typ)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return affirmativeWord
		}
		return negativeWord
	default:
		return fmt.Sprint(v)
	}
}

func (r *Result) skip(field, target, reason string) {
	r.Skipped = append(r.Skipped, SkippedField{PDFField: field, TargetPath: target, Reason: reason})
}
