package sheet

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsuite/matchsheet/internal/blob"
	"github.com/clubsuite/matchsheet/internal/export"
	"github.com/clubsuite/matchsheet/internal/fill"
	"github.com/clubsuite/matchsheet/internal/mapping"
	"github.com/clubsuite/matchsheet/internal/pdf"
	"github.com/clubsuite/matchsheet/internal/pdf/pdftest"
	"github.com/clubsuite/matchsheet/internal/records"
)

type fixture struct {
	service *Service
	blobs   *blob.Store

	players     records.PlayerRepository
	coaches     records.CoachRepository
	tournaments records.TournamentRepository
	templates   records.TemplateRepository
	categories  records.AgeCategoryRepository
	sheets      records.MatchSheetRepository

	classifierHits *int
}

// newFixture wires the full service over a temp database, an in-memory blob
// store, and a stubbed classification endpoint.
func newFixture(t *testing.T, classifierBody string) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := records.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	require.NoError(t, records.InitSchema(ctx, db))

	mappings := mapping.NewSQLStore(db, logger)
	require.NoError(t, mappings.InitSchema(ctx))

	blobs, err := blob.NewStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	hits := 0
	classifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, classifierBody)
	}))
	t.Cleanup(classifier.Close)

	proposer, err := mapping.NewProposer(mapping.ProposerConfig{
		BaseURL: classifier.URL,
		Timeout: 5 * time.Second,
	}, logger)
	require.NoError(t, err)

	f := &fixture{
		players:        records.NewPlayerRepository(db, logger),
		coaches:        records.NewCoachRepository(db, logger),
		tournaments:    records.NewTournamentRepository(db, logger),
		templates:      records.NewTemplateRepository(db, logger),
		categories:     records.NewAgeCategoryRepository(db, logger),
		sheets:         records.NewMatchSheetRepository(db, logger),
		blobs:          blobs,
		classifierHits: &hits,
	}
	f.service = NewService(Deps{
		Inspector:   pdf.NewInspector(),
		Extractor:   pdf.NewExtractor(),
		Validator:   pdf.NewValidator(10 * 1024 * 1024),
		Engine:      fill.NewEngine("USM", logger),
		Proposer:    proposer,
		Mappings:    mappings,
		Blobs:       blobs,
		Exporter:    export.NewExporter(blobs, logger),
		Players:     f.players,
		Coaches:     f.coaches,
		Tournaments: f.tournaments,
		Templates:   f.templates,
		Categories:  f.categories,
		Sheets:      f.sheets,
		Logger:      logger,
	})
	return f
}

func testTemplateBytes() []byte {
	return pdftest.BuildForm(
		pdftest.Text("nom_manifestation"),
		pdftest.Text("joueur1_nom"),
		pdftest.Text("joueur2_nom"),
	)
}

func TestService_UploadTemplate(t *testing.T) {
	f := newFixture(t, `[]`)
	ctx := context.Background()

	res, err := f.service.UploadTemplate(ctx, UploadTemplateRequest{
		Name:     "Feuille U11",
		Filename: "feuille_u11.pdf",
		Data:     testTemplateBytes(),
	})
	require.NoError(t, err)
	assert.Equal(t, "templates/feuille_u11.pdf", res.Template.FileLocation)

	data, ok, err := f.blobs.Get(res.Template.FileLocation)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testTemplateBytes(), data)
}

func TestService_UploadTemplateRejectsNonPDF(t *testing.T) {
	f := newFixture(t, `[]`)

	_, err := f.service.UploadTemplate(context.Background(), UploadTemplateRequest{
		Name:     "Mauvais fichier",
		Filename: "notes.txt",
		Data:     []byte("plain text"),
	})
	assert.Error(t, err)
}

func TestService_AnalyzeTemplate(t *testing.T) {
	f := newFixture(t, `[]`)
	ctx := context.Background()

	uploaded, err := f.service.UploadTemplate(ctx, UploadTemplateRequest{
		Name:     "Feuille",
		Filename: "feuille.pdf",
		Data:     testTemplateBytes(),
	})
	require.NoError(t, err)
	id := uploaded.Template.ID

	// First analysis: the form-only template has no extractable text, so the
	// classification call is skipped and an empty list is stored.
	res, err := f.service.AnalyzeTemplate(ctx, AnalyzeTemplateRequest{TemplateID: id})
	require.NoError(t, err)
	assert.False(t, res.Reused)
	assert.Len(t, res.Fields, 3)
	assert.Empty(t, res.Mappings)
	assert.Equal(t, 0, *f.classifierHits)

	// A second analysis reuses the stored list instead of re-analyzing.
	res, err = f.service.AnalyzeTemplate(ctx, AnalyzeTemplateRequest{TemplateID: id})
	require.NoError(t, err)
	assert.True(t, res.Reused)
	assert.Len(t, res.Fields, 3)

	// After a manual commit the committed entries are what reuse returns.
	entries := []mapping.FieldMapping{
		{PDFFieldName: "joueur_nom[n]", Kind: mapping.KindPlayer, TargetPath: "player.nom"},
	}
	require.NoError(t, f.service.CommitMapping(ctx, CommitMappingRequest{TemplateID: id, Entries: entries}))
	res, err = f.service.AnalyzeTemplate(ctx, AnalyzeTemplateRequest{TemplateID: id})
	require.NoError(t, err)
	assert.True(t, res.Reused)
	assert.Equal(t, entries, res.Mappings)

	// Force discards the stored list and re-runs the analysis.
	res, err = f.service.AnalyzeTemplate(ctx, AnalyzeTemplateRequest{TemplateID: id, Force: true})
	require.NoError(t, err)
	assert.False(t, res.Reused)
	assert.Empty(t, res.Mappings)
}

func TestService_AnalyzeTemplateMissingFile(t *testing.T) {
	f := newFixture(t, `[]`)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, &records.Template{
		Name:         "Orpheline",
		FileLocation: "templates/absente.pdf",
	})
	require.NoError(t, err)

	_, err = f.service.AnalyzeTemplate(ctx, AnalyzeTemplateRequest{TemplateID: tpl.ID})
	assert.ErrorIs(t, err, ErrTemplateFileMissing)
}

func TestService_CommitAndGetMapping(t *testing.T) {
	f := newFixture(t, `[]`)
	ctx := context.Background()

	uploaded, err := f.service.UploadTemplate(ctx, UploadTemplateRequest{
		Name:     "Feuille",
		Filename: "feuille.pdf",
		Data:     testTemplateBytes(),
	})
	require.NoError(t, err)
	id := uploaded.Template.ID

	_, ok, err := f.service.GetMapping(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	entries := []mapping.FieldMapping{
		{PDFFieldName: "nom_manifestation", Kind: mapping.KindGlobal, TargetPath: "manifestation.lieu"},
		{PDFFieldName: "joueur_nom[n]", Kind: mapping.KindPlayer, TargetPath: "player.nom"},
	}
	require.NoError(t, f.service.CommitMapping(ctx, CommitMappingRequest{TemplateID: id, Entries: entries}))

	got, ok, err := f.service.GetMapping(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entries, got)
}

func TestService_GenerateSheet(t *testing.T) {
	f := newFixture(t, `[]`)
	ctx := context.Background()

	uploaded, err := f.service.UploadTemplate(ctx, UploadTemplateRequest{
		Name:     "Feuille",
		Filename: "feuille.pdf",
		Data:     testTemplateBytes(),
	})
	require.NoError(t, err)
	templateID := uploaded.Template.ID

	require.NoError(t, f.service.CommitMapping(ctx, CommitMappingRequest{
		TemplateID: templateID,
		Entries: []mapping.FieldMapping{
			{PDFFieldName: "nom_manifestation", Kind: mapping.KindGlobal, TargetPath: "manifestation.lieu"},
			{PDFFieldName: "joueur_nom[n]", Kind: mapping.KindPlayer, TargetPath: "player.nom"},
		},
	}))

	tournament, err := f.tournaments.Create(ctx, &records.Tournament{
		Location: "Lyon",
		Date:     time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	p1, err := f.players.Create(ctx, &records.Player{LastName: "Martin", FirstName: "A"})
	require.NoError(t, err)
	p2, err := f.players.Create(ctx, &records.Player{LastName: "Dupont", FirstName: "B"})
	require.NoError(t, err)
	coach, err := f.coaches.Create(ctx, &records.Coach{LastName: "Durand", FirstName: "C"})
	require.NoError(t, err)

	res, err := f.service.GenerateSheet(ctx, GenerateSheetRequest{
		TournamentID:    tournament.ID,
		TemplateID:      templateID,
		PlayerIDs:       []int64{p1.ID, p2.ID},
		CoachIDs:        []int64{coach.ID},
		ReferentCoachID: coach.ID,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Artifact.Filename, "feuille_match_Lyon_2026-06-14_"))
	assert.Equal(t, 3, res.Fill.Touched)

	// The artifact is retrievable and is a valid filled document.
	data, ok, err := f.blobs.Get(blob.GeneratedPrefix + "/" + res.Artifact.Filename)
	require.NoError(t, err)
	require.True(t, ok)
	doc, err := pdf.LoadDocument(data)
	require.NoError(t, err)
	value, _ := doc.Value("joueur1_nom")
	assert.Equal(t, "Martin", value)
	value, _ = doc.Value("joueur2_nom")
	assert.Equal(t, "Dupont", value)
	value, _ = doc.Value("nom_manifestation")
	assert.Equal(t, "Lyon", value)

	// The sheet record persists the roster.
	sheet, err := f.sheets.GetByID(ctx, res.Sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{p1.ID, p2.ID}, sheet.PlayerIDs)
	assert.Equal(t, res.Artifact.Filename, sheet.Filename)
}

func TestService_GenerateSheetUnknownTournament(t *testing.T) {
	f := newFixture(t, `[]`)

	_, err := f.service.GenerateSheet(context.Background(), GenerateSheetRequest{
		TournamentID: 404,
		TemplateID:   1,
	})
	assert.ErrorIs(t, err, records.ErrNotFound)
}
