package pdf

import "strings"

// Inspector enumerates the interactive form fields of a PDF document.
type Inspector struct{}

// NewInspector creates a new form inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect reports the name and control type of every form field in
// documentBytes. It never mutates the input; unloadable bytes fail with
// ErrMalformedDocument.
func (i *Inspector) Inspect(documentBytes []byte) ([]FormField, error) {
	doc, err := LoadDocument(documentBytes)
	if err != nil {
		return nil, err
	}
	return doc.Fields(), nil
}

func foldName(name string) string {
	return strings.ToLower(name)
}
