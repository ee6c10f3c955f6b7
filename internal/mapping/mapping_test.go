package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Valid(t *testing.T) {
	for _, k := range []Kind{KindGlobal, KindPlayer, KindCoach, KindOther} {
		assert.True(t, k.Valid(), string(k))
	}
	for _, k := range []Kind{"", "player", "GLOBAL", "staff"} {
		assert.False(t, k.Valid(), string(k))
	}
}

func TestFieldMapping_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mapping     FieldMapping
		expectError bool
	}{
		{
			name:    "valid",
			mapping: FieldMapping{PDFFieldName: "joueur_nom[n]", Kind: KindPlayer, TargetPath: "player.nom"},
		},
		{
			name:        "empty_field_name",
			mapping:     FieldMapping{Kind: KindGlobal, TargetPath: "club"},
			expectError: true,
		},
		{
			name:        "invalid_kind",
			mapping:     FieldMapping{PDFFieldName: "club", Kind: "equipe", TargetPath: "club"},
			expectError: true,
		},
		{
			name:        "empty_target_path",
			mapping:     FieldMapping{PDFFieldName: "club", Kind: KindGlobal},
			expectError: true,
		},
		{
			name:    "autre_needs_no_target",
			mapping: FieldMapping{PDFFieldName: "signature", Kind: KindOther},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mapping.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
