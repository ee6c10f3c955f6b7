package fill

import (
	"github.com/clubsuite/matchsheet/internal/mapping"
	"github.com/clubsuite/matchsheet/internal/pdf"
)

// Convention-based auto-fill, used when no mapping list was ever committed
// for a template. The guesses below cover the field names club templates use
// in practice; unmatched guesses are skipped exactly like unmatched mapping
// entries, so a template matching none of them still fills to an intact,
// blank-looking document.

var conventionGlobals = []mapping.FieldMapping{
	{PDFFieldName: "nom_manifestation", Kind: mapping.KindGlobal, TargetPath: "tournament.location"},
	{PDFFieldName: "lieu_manifestation", Kind: mapping.KindGlobal, TargetPath: "tournament.location"},
	{PDFFieldName: "date_manifestation", Kind: mapping.KindGlobal, TargetPath: "tournament.date"},
	{PDFFieldName: "categorie", Kind: mapping.KindGlobal, TargetPath: "tournament.category"},
	{PDFFieldName: "club", Kind: mapping.KindGlobal, TargetPath: "club"},
}

var conventionPlayerAttrs = []string{"nom", "prenom", "licence", "avant", "arbitre"}

var conventionCoachAttrs = []string{"nom", "prenom", "licence", "diplome", "referent"}

var playerPrefixes = []string{"joueur", "player"}

var coachPrefixes = []string{"educateur", "coach"}

// conventionFill applies the guessed mappings through the same matching and
// coercion paths as committed entries.
func (e *Engine) conventionFill(doc *pdf.Document, global Bucket, players, educators []Bucket, res *Result) {
	for _, entry := range conventionGlobals {
		e.applyEntry(doc, entry, global, players, educators, res)
	}
	for _, prefix := range playerPrefixes {
		for _, attr := range conventionPlayerAttrs {
			entry := mapping.FieldMapping{
				PDFFieldName: prefix + "{n}_" + attr,
				Kind:         mapping.KindPlayer,
				TargetPath:   "player." + attr,
			}
			e.applyRepeated(doc, entry, players, false, res)
		}
	}
	for _, prefix := range coachPrefixes {
		for _, attr := range conventionCoachAttrs {
			entry := mapping.FieldMapping{
				PDFFieldName: prefix + "{n}_" + attr,
				Kind:         mapping.KindCoach,
				TargetPath:   "educator." + attr,
			}
			e.applyRepeated(doc, entry, educators, true, res)
		}
	}
}
