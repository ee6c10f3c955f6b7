package records

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) (*sql.DB, *slog.Logger) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(filepath.Join(t.TempDir(), "records.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(context.Background(), db))
	return db, logger
}

func TestPlayerRepository_CRUD(t *testing.T) {
	db, logger := testDB(t)
	repo := NewPlayerRepository(db, logger)
	ctx := context.Background()

	created, err := repo.Create(ctx, &Player{
		LastName:       "Martin",
		FirstName:      "Léa",
		LicenseNumber:  "12345",
		CanPlayForward: true,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	created.CanReferee = true
	require.NoError(t, repo.Update(ctx, created))
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.CanReferee)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlayerRepository_GetByIDsPreservesOrder(t *testing.T) {
	db, logger := testDB(t)
	repo := NewPlayerRepository(db, logger)
	ctx := context.Background()

	a, err := repo.Create(ctx, &Player{LastName: "Albert", FirstName: "A"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &Player{LastName: "Benoit", FirstName: "B"})
	require.NoError(t, err)

	players, err := repo.GetByIDs(ctx, []int64{b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Benoit", players[0].LastName, "roster order follows the id list")
	assert.Equal(t, "Albert", players[1].LastName)

	_, err = repo.GetByIDs(ctx, []int64{a.ID, 9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlayerRepository_UpdateMissing(t *testing.T) {
	db, logger := testDB(t)
	repo := NewPlayerRepository(db, logger)

	err := repo.Update(context.Background(), &Player{ID: 404, LastName: "X", FirstName: "Y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCoachRepository_CategoryLinks(t *testing.T) {
	db, logger := testDB(t)
	coaches := NewCoachRepository(db, logger)
	categories := NewAgeCategoryRepository(db, logger)
	ctx := context.Background()

	u11, err := categories.Create(ctx, &AgeCategory{Name: "U11"})
	require.NoError(t, err)
	u13, err := categories.Create(ctx, &AgeCategory{Name: "U13"})
	require.NoError(t, err)

	coach, err := coaches.Create(ctx, &Coach{
		LastName:    "Durand",
		FirstName:   "Paul",
		Diploma:     "BF1",
		CategoryIDs: []int64{u11.ID, u13.ID},
	})
	require.NoError(t, err)

	got, err := coaches.GetByID(ctx, coach.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{u11.ID, u13.ID}, got.CategoryIDs)

	// Update replaces the link set wholesale.
	coach.CategoryIDs = []int64{u13.ID}
	require.NoError(t, coaches.Update(ctx, coach))
	got, err = coaches.GetByID(ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{u13.ID}, got.CategoryIDs)
}

func TestTournamentRepository_CRUD(t *testing.T) {
	db, logger := testDB(t)
	tournaments := NewTournamentRepository(db, logger)
	categories := NewAgeCategoryRepository(db, logger)
	ctx := context.Background()

	u11, err := categories.Create(ctx, &AgeCategory{Name: "U11"})
	require.NoError(t, err)

	date := time.Date(2026, 6, 14, 9, 0, 0, 0, time.UTC)
	created, err := tournaments.Create(ctx, &Tournament{
		Location:    "Lyon",
		Date:        date,
		CategoryIDs: []int64{u11.ID},
	})
	require.NoError(t, err)

	got, err := tournaments.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", got.Location)
	assert.True(t, got.Date.Equal(date))
	assert.Equal(t, []int64{u11.ID}, got.CategoryIDs)

	_, err = tournaments.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateRepository_CRUD(t *testing.T) {
	db, logger := testDB(t)
	templates := NewTemplateRepository(db, logger)
	ctx := context.Background()

	created, err := templates.Create(ctx, &Template{
		Name:         "Feuille U11",
		Description:  "Plateau à 3 équipes",
		FileLocation: "templates/feuille_u11.pdf",
	})
	require.NoError(t, err)

	got, err := templates.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feuille U11", got.Name)
	assert.Equal(t, "templates/feuille_u11.pdf", got.FileLocation)

	created.Description = "corrigée"
	require.NoError(t, templates.Update(ctx, created))

	list, err := templates.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "corrigée", list[0].Description)

	require.NoError(t, templates.Delete(ctx, created.ID))
	_, err = templates.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAgeCategoryRepository_UniqueName(t *testing.T) {
	db, logger := testDB(t)
	categories := NewAgeCategoryRepository(db, logger)
	ctx := context.Background()

	_, err := categories.Create(ctx, &AgeCategory{Name: "U11"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, &AgeCategory{Name: "U11"})
	assert.Error(t, err)
}

func TestMatchSheetRepository_RosterOrder(t *testing.T) {
	db, logger := testDB(t)
	ctx := context.Background()

	players := NewPlayerRepository(db, logger)
	coaches := NewCoachRepository(db, logger)
	tournaments := NewTournamentRepository(db, logger)
	templates := NewTemplateRepository(db, logger)
	sheets := NewMatchSheetRepository(db, logger)

	p1, err := players.Create(ctx, &Player{LastName: "Martin", FirstName: "A"})
	require.NoError(t, err)
	p2, err := players.Create(ctx, &Player{LastName: "Dupont", FirstName: "B"})
	require.NoError(t, err)
	coach, err := coaches.Create(ctx, &Coach{LastName: "Durand", FirstName: "C"})
	require.NoError(t, err)
	tournament, err := tournaments.Create(ctx, &Tournament{Location: "Lyon", Date: time.Now().UTC()})
	require.NoError(t, err)
	template, err := templates.Create(ctx, &Template{Name: "F", FileLocation: "templates/f.pdf"})
	require.NoError(t, err)

	created, err := sheets.Create(ctx, &MatchSheet{
		TournamentID:    tournament.ID,
		TemplateID:      template.ID,
		ReferentCoachID: coach.ID,
		Filename:        "feuille_match_Lyon_2026-06-14_1.pdf",
		PlayerIDs:       []int64{p2.ID, p1.ID},
		CoachIDs:        []int64{coach.ID},
	})
	require.NoError(t, err)

	got, err := sheets.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{p2.ID, p1.ID}, got.PlayerIDs, "player order is the stored roster order")
	assert.Equal(t, []int64{coach.ID}, got.CoachIDs)
	assert.False(t, got.CreatedAt.IsZero())

	list, err := sheets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, sheets.Delete(ctx, created.ID))
	_, err = sheets.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
