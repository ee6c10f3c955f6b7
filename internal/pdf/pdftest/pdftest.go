// Package pdftest builds minimal in-memory AcroForm PDFs for tests, so test
// fixtures live in code instead of binary testdata files.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Field describes one form field of a generated document.
type Field struct {
	Name    string
	Type    string   // "text" (default), "checkbox", "radio", "select"
	OnState string   // checkbox on-state name; empty means no appearance dict
	Options []string // select options
}

// Text is a shorthand for a text field.
func Text(name string) Field {
	return Field{Name: name, Type: "text"}
}

// Checkbox is a shorthand for a checkbox field.
func Checkbox(name string) Field {
	return Field{Name: name, Type: "checkbox"}
}

// BuildForm returns a single-page PDF containing the given form fields as
// widget annotations. With no fields it still carries an empty AcroForm.
func BuildForm(fields ...Field) []byte {
	refs := make([]string, len(fields))
	for i := range fields {
		refs[i] = fmt.Sprintf("%d 0 R", 4+i)
	}
	objects := []string{
		fmt.Sprintf("<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [%s] >> >>",
			strings.Join(refs, " ")),
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [%s] >>",
			strings.Join(refs, " ")),
	}
	for i, f := range fields {
		objects = append(objects, fieldDict(f, i))
	}
	return assemble(objects)
}

func fieldDict(f Field, index int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<< /Type /Annot /Subtype /Widget /Rect [0 %d 120 %d] /F 4 /T (%s) ",
		index*24, index*24+20, f.Name)
	switch f.Type {
	case "checkbox":
		b.WriteString("/FT /Btn /V /Off /AS /Off ")
		if f.OnState != "" {
			fmt.Fprintf(&b, "/AP << /N << /%s null /Off null >> >> ", f.OnState)
		}
	case "radio":
		b.WriteString("/FT /Btn /Ff 32768 ")
	case "select":
		b.WriteString("/FT /Ch ")
		if len(f.Options) > 0 {
			b.WriteString("/Opt [")
			for _, o := range f.Options {
				fmt.Fprintf(&b, "(%s) ", o)
			}
			b.WriteString("] ")
		}
	default:
		b.WriteString("/FT /Tx ")
	}
	b.WriteString(">>")
	return b.String()
}

// assemble lays the objects out sequentially and writes a byte-exact xref
// table, so strict parsers accept the result without offset repair.
func assemble(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xref)
	return buf.Bytes()
}
