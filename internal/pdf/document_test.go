package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsuite/matchsheet/internal/pdf/pdftest"
)

func TestLoadDocument_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: nil},
		{name: "garbage", input: []byte("this is not a pdf at all")},
		{name: "truncated_header", input: []byte("%PDF-1.7\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDocument(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestLoadDocument_NoFields(t *testing.T) {
	doc, err := LoadDocument(pdftest.BuildForm())
	require.NoError(t, err)
	assert.Empty(t, doc.Fields())
	assert.Empty(t, doc.FieldNames())
}

func TestLoadDocument_IndexesFieldTypes(t *testing.T) {
	doc, err := LoadDocument(pdftest.BuildForm(
		pdftest.Text("nom_manifestation"),
		pdftest.Checkbox("joueur1_arbitre"),
		pdftest.Field{Name: "taille", Type: "select", Options: []string{"S", "M", "L"}},
		pdftest.Field{Name: "equipe", Type: "radio"},
	))
	require.NoError(t, err)
	require.Len(t, doc.Fields(), 4)

	typ, ok := doc.TypeOf("nom_manifestation")
	require.True(t, ok)
	assert.Equal(t, ControlTypeText, typ)

	typ, ok = doc.TypeOf("joueur1_arbitre")
	require.True(t, ok)
	assert.Equal(t, ControlTypeCheckbox, typ)

	typ, ok = doc.TypeOf("taille")
	require.True(t, ok)
	assert.Equal(t, ControlTypeSelect, typ)

	typ, ok = doc.TypeOf("equipe")
	require.True(t, ok)
	assert.Equal(t, ControlTypeRadio, typ)

	for _, f := range doc.Fields() {
		if f.Name == "taille" {
			assert.Equal(t, []string{"S", "M", "L"}, f.Options)
		}
	}

	_, ok = doc.TypeOf("absent")
	assert.False(t, ok)
}

func TestMatchFold(t *testing.T) {
	doc, err := LoadDocument(pdftest.BuildForm(
		pdftest.Text("Nom"),
		pdftest.Text("nom"),
		pdftest.Text("club"),
	))
	require.NoError(t, err)

	// Exact names win over folded matches.
	assert.Equal(t, []string{"nom"}, doc.MatchFold("nom"))
	assert.Equal(t, []string{"Nom"}, doc.MatchFold("Nom"))

	// A fold-only query reaches every spelling.
	assert.ElementsMatch(t, []string{"Nom", "nom"}, doc.MatchFold("NOM"))

	assert.Empty(t, doc.MatchFold("prenom"))
}

func TestSetText(t *testing.T) {
	doc, err := LoadDocument(pdftest.BuildForm(
		pdftest.Text("lieu"),
		pdftest.Checkbox("avant"),
	))
	require.NoError(t, err)

	require.NoError(t, doc.SetText("lieu", "Saint-Étienne"))
	value, ok := doc.Value("lieu")
	require.True(t, ok)
	assert.Equal(t, "Saint-Étienne", value)

	assert.Error(t, doc.SetText("absent", "x"))
	assert.Error(t, doc.SetText("avant", "x"), "checkbox is not writable as text")
}

func TestSetCheck(t *testing.T) {
	doc, err := LoadDocument(pdftest.BuildForm(
		pdftest.Checkbox("arbitre"),
		pdftest.Field{Name: "avant", Type: "checkbox", OnState: "Oui"},
		pdftest.Text("lieu"),
	))
	require.NoError(t, err)

	require.NoError(t, doc.SetCheck("arbitre", true))
	value, _ := doc.Value("arbitre")
	assert.Equal(t, "Yes", value)

	require.NoError(t, doc.SetCheck("arbitre", false))
	value, _ = doc.Value("arbitre")
	assert.Equal(t, "Off", value)

	// The on-state comes from the appearance dictionary when present.
	require.NoError(t, doc.SetCheck("avant", true))
	value, _ = doc.Value("avant")
	assert.Equal(t, "Oui", value)

	assert.Error(t, doc.SetCheck("lieu", true))
	assert.Error(t, doc.SetCheck("absent", true))
}

func TestBytes_RoundTrip(t *testing.T) {
	doc, err := LoadDocument(pdftest.BuildForm(pdftest.Text("club")))
	require.NoError(t, err)
	require.NoError(t, doc.SetText("club", "USM"))
	require.NoError(t, doc.Flatten())

	out, err := doc.Bytes()
	require.NoError(t, err)
	require.NotEmpty(t, out)

	reloaded, err := LoadDocument(out)
	require.NoError(t, err)
	require.Equal(t, []string{"club"}, reloaded.FieldNames())
	value, ok := reloaded.Value("club")
	require.True(t, ok)
	assert.Equal(t, "USM", value)
}
