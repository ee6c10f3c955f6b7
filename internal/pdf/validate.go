package pdf

import (
	"bytes"
	"fmt"
)

// Validator performs cheap sanity checks on uploaded template bytes before
// they are stored or parsed.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the specified size constraint.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateBytes checks the size and header of an uploaded document. Failures
// wrap ErrMalformedDocument so callers classify them like parse failures.
func (v *Validator) ValidateBytes(documentBytes []byte) error {
	if len(documentBytes) == 0 {
		return fmt.Errorf("%w: document is empty", ErrMalformedDocument)
	}
	if int64(len(documentBytes)) > v.maxFileSize {
		return fmt.Errorf("%w: document too large: %d bytes (max: %d bytes)",
			ErrMalformedDocument, len(documentBytes), v.maxFileSize)
	}
	if !bytes.HasPrefix(documentBytes, []byte("%PDF-")) {
		return fmt.Errorf("%w: document does not start with a PDF header", ErrMalformedDocument)
	}
	return nil
}

// IsValidPDF reports whether the bytes load as a PDF document.
func (v *Validator) IsValidPDF(documentBytes []byte) bool {
	if err := v.ValidateBytes(documentBytes); err != nil {
		return false
	}
	_, err := LoadDocument(documentBytes)
	return err == nil
}
