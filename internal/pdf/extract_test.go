package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsuite/matchsheet/internal/pdf/pdftest"
)

func TestExtractor_ExtractText(t *testing.T) {
	extractor := NewExtractor()

	// A form-only document has no text content; extraction still succeeds
	// with empty output instead of failing.
	text, err := extractor.ExtractText(pdftest.BuildForm(pdftest.Text("nom")))
	require.NoError(t, err)
	assert.Equal(t, "", strings.TrimSpace(text))
}

func TestExtractor_ExtractTextMalformed(t *testing.T) {
	extractor := NewExtractor()

	_, err := extractor.ExtractText([]byte("definitely not a pdf"))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
