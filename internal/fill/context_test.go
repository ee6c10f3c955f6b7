package fill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucket_Resolve(t *testing.T) {
	b := Bucket{
		"club": "USM",
		"tournament": Bucket{
			"lieu": "Lyon",
		},
	}

	tests := []struct {
		name      string
		path      string
		wantValue any
		wantOK    bool
	}{
		{name: "top_level", path: "club", wantValue: "USM", wantOK: true},
		{name: "nested", path: "tournament.lieu", wantValue: "Lyon", wantOK: true},
		{name: "missing_top", path: "nope", wantOK: false},
		{name: "missing_nested", path: "tournament.nope", wantOK: false},
		{name: "descend_into_leaf", path: "club.x", wantOK: false},
		{name: "ends_on_bucket", path: "tournament", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := b.Resolve(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestGlobalBucket_Aliases(t *testing.T) {
	b := globalBucket(Tournament{
		Location: "Lyon",
		Date:     time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC),
		Category: "U11",
	}, "USM")

	for path, want := range map[string]any{
		"tournament.location":     "Lyon",
		"tournament.lieu":         "Lyon",
		"manifestation.lieu":      "Lyon",
		"tournament.date":         "14/06/2026",
		"tournament.category":     "U11",
		"manifestation.categorie": "U11",
		"club":                    "USM",
	} {
		value, ok := b.Resolve(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, value, path)
	}
}

func TestPlayerBucket_Aliases(t *testing.T) {
	b := playerBucket(Player{
		LastName:       "Martin",
		FirstName:      "Léa",
		LicenseNumber:  "12345",
		CanPlayForward: true,
	})

	for path, want := range map[string]any{
		"nom":      "Martin",
		"lastName": "Martin",
		"prenom":   "Léa",
		"licence":  "12345",
		"avant":    true,
		"arbitre":  false,
	} {
		value, ok := b.Resolve(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, value, path)
	}
}

func TestEducatorBucket_Referent(t *testing.T) {
	referent, ok := educatorBucket(Coach{LastName: "Durand"}, true).Resolve("referent")
	assert.True(t, ok)
	assert.Equal(t, true, referent)

	other, ok := educatorBucket(Coach{LastName: "Petit"}, false).Resolve("referent")
	assert.True(t, ok)
	assert.Equal(t, false, other)
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "nom", lastSegment("player.nom"))
	assert.Equal(t, "nom", lastSegment("nom"))
	assert.Equal(t, "lieu", lastSegment("a.b.lieu"))
}
