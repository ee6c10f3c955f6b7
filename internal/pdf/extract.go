package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of a PDF, used as input to the mapping
// classification call.
type Extractor struct {
	maxTextSize int
}

// NewExtractor creates a text extractor with a cap on extracted text size.
func NewExtractor() *Extractor {
	return &Extractor{
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ExtractText returns the concatenated plain text of every page. Pages that
// fail to decode are skipped so a partially damaged template still yields
// usable text.
func (e *Extractor) ExtractText(documentBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(documentBytes), int64(len(documentBytes)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	var builder strings.Builder
	totalLength := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if totalLength+len(content) > e.maxTextSize {
			content = content[:e.maxTextSize-totalLength]
		}
		builder.WriteString(content)
		builder.WriteString("\n")
		totalLength += len(content) + 1
		if totalLength >= e.maxTextSize {
			break
		}
	}
	return builder.String(), nil
}
