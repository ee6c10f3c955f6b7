package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubsuite/matchsheet/internal/pdf/pdftest"
)

func TestValidator_ValidateBytes(t *testing.T) {
	validator := NewValidator(1024)

	tests := []struct {
		name        string
		input       []byte
		expectError bool
	}{
		{
			name:        "empty",
			input:       nil,
			expectError: true,
		},
		{
			name:        "too_large",
			input:       append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("x"), 2048)...),
			expectError: true,
		},
		{
			name:        "wrong_header",
			input:       []byte("GIF89a not a pdf"),
			expectError: true,
		},
		{
			name:        "valid_header",
			input:       []byte("%PDF-1.7\nrest"),
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateBytes(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_IsValidPDF(t *testing.T) {
	validator := NewValidator(1024 * 1024)

	assert.True(t, validator.IsValidPDF(pdftest.BuildForm(pdftest.Text("nom"))))
	assert.False(t, validator.IsValidPDF([]byte("%PDF-1.7\nbut truncated")))
	assert.False(t, validator.IsValidPDF(nil))
}
