// Package sheet orchestrates the match-sheet workflows: template analysis
// (inspect, extract, propose, commit), mapping editing, and sheet generation
// (records + template + mapping through the fill engine to a stored
// artifact).
package sheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/clubsuite/matchsheet/internal/blob"
	"github.com/clubsuite/matchsheet/internal/export"
	"github.com/clubsuite/matchsheet/internal/fill"
	"github.com/clubsuite/matchsheet/internal/mapping"
	"github.com/clubsuite/matchsheet/internal/pdf"
	"github.com/clubsuite/matchsheet/internal/records"
)

// ErrTemplateFileMissing is returned when a template record points at a blob
// that no longer exists.
var ErrTemplateFileMissing = errors.New("template file missing from blob store")

// Service wires the PDF components, the mapping subsystem, and the record
// store into the operations the HTTP surface exposes.
type Service struct {
	inspector *pdf.Inspector
	extractor *pdf.Extractor
	validator *pdf.Validator
	engine    *fill.Engine
	proposer  *mapping.Proposer
	mappings  mapping.Store
	blobs     *blob.Store
	exporter  *export.Exporter

	players     records.PlayerRepository
	coaches     records.CoachRepository
	tournaments records.TournamentRepository
	templates   records.TemplateRepository
	categories  records.AgeCategoryRepository
	sheets      records.MatchSheetRepository

	logger *slog.Logger
}

// Deps collects the collaborators of the service.
type Deps struct {
	Inspector *pdf.Inspector
	Extractor *pdf.Extractor
	Validator *pdf.Validator
	Engine    *fill.Engine
	Proposer  *mapping.Proposer
	Mappings  mapping.Store
	Blobs     *blob.Store
	Exporter  *export.Exporter

	Players     records.PlayerRepository
	Coaches     records.CoachRepository
	Tournaments records.TournamentRepository
	Templates   records.TemplateRepository
	Categories  records.AgeCategoryRepository
	Sheets      records.MatchSheetRepository

	Logger *slog.Logger
}

// NewService creates the orchestration service.
func NewService(d Deps) *Service {
	return &Service{
		inspector:   d.Inspector,
		extractor:   d.Extractor,
		validator:   d.Validator,
		engine:      d.Engine,
		proposer:    d.Proposer,
		mappings:    d.Mappings,
		blobs:       d.Blobs,
		exporter:    d.Exporter,
		players:     d.Players,
		coaches:     d.Coaches,
		tournaments: d.Tournaments,
		templates:   d.Templates,
		categories:  d.Categories,
		sheets:      d.Sheets,
		logger:      d.Logger,
	}
}

// templateKey derives the mapping-store key from a template's file location.
// Keys are filenames, not content hashes: re-uploading a template under the
// same filename shares (and overwrites) mapping state.
func templateKey(t *records.Template) string {
	return path.Base(t.FileLocation)
}

// UploadTemplateRequest registers a new template PDF.
type UploadTemplateRequest struct {
	Name        string
	Description string
	CategoryIDs []int64
	Filename    string
	Data        []byte
}

// UploadTemplateResult reports the created template record.
type UploadTemplateResult struct {
	Template *records.Template `json:"template"`
}

// UploadTemplate validates and stores the PDF bytes and creates the template
// record pointing at them.
func (s *Service) UploadTemplate(ctx context.Context, req UploadTemplateRequest) (*UploadTemplateResult, error) {
	if err := s.validator.ValidateBytes(req.Data); err != nil {
		return nil, fmt.Errorf("invalid template upload: %w", err)
	}
	location := path.Join(blob.TemplatePrefix, path.Base(req.Filename))
	if err := s.blobs.Put(location, req.Data); err != nil {
		return nil, err
	}
	tpl, err := s.templates.Create(ctx, &records.Template{
		Name:         req.Name,
		Description:  req.Description,
		FileLocation: location,
		CategoryIDs:  req.CategoryIDs,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("template.uploaded", "template_id", tpl.ID, "file", location)
	return &UploadTemplateResult{Template: tpl}, nil
}

// AnalyzeTemplateRequest asks for a mapping analysis of a template. Force
// re-runs the classification even when a committed mapping already exists.
type AnalyzeTemplateRequest struct {
	TemplateID int64
	Force      bool
}

// AnalyzeTemplateResult carries the template's live form fields and its
// mapping entries, with Reused set when a stored analysis was returned
// instead of calling the classification service.
type AnalyzeTemplateResult struct {
	Fields   []pdf.FormField        `json:"fields"`
	Mappings []mapping.FieldMapping `json:"mappings"`
	Reused   bool                   `json:"reused"`
}

// AnalyzeTemplate inspects the template's form fields and ensures a mapping
// list exists for it: a stored analysis is reused unless forced, otherwise
// the extracted text goes through the classification service and the
// proposals are committed in a single Put after both inspection and proposal
// succeed.
func (s *Service) AnalyzeTemplate(ctx context.Context, req AnalyzeTemplateRequest) (*AnalyzeTemplateResult, error) {
	tpl, data, err := s.templateBytes(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	fields, err := s.inspector.Inspect(data)
	if err != nil {
		return nil, err
	}

	key := templateKey(tpl)
	if !req.Force {
		if entries, ok, err := s.mappings.Get(ctx, key); err != nil {
			return nil, err
		} else if ok {
			s.logger.Info("template.analyze.reused", "template_id", tpl.ID, "key", key)
			return &AnalyzeTemplateResult{Fields: fields, Mappings: entries, Reused: true}, nil
		}
	}

	text, err := s.extractor.ExtractText(data)
	if err != nil {
		return nil, err
	}
	proposals, err := s.proposer.Propose(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := s.mappings.Put(ctx, key, proposals); err != nil {
		return nil, err
	}
	return &AnalyzeTemplateResult{Fields: fields, Mappings: proposals}, nil
}

// GetMapping returns the committed mapping list for a template, if any.
func (s *Service) GetMapping(ctx context.Context, templateID int64) ([]mapping.FieldMapping, bool, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, false, err
	}
	return s.mappings.Get(ctx, templateKey(tpl))
}

// CommitMappingRequest overwrites a template's mapping list with the edited
// entries.
type CommitMappingRequest struct {
	TemplateID int64
	Entries    []mapping.FieldMapping
}

// CommitMapping writes the edited list to the mapping store as one full
// overwrite.
func (s *Service) CommitMapping(ctx context.Context, req CommitMappingRequest) error {
	tpl, err := s.templates.GetByID(ctx, req.TemplateID)
	if err != nil {
		return err
	}
	editor := mapping.NewEditor(req.Entries)
	return s.mappings.Put(ctx, templateKey(tpl), editor.Entries())
}

// GenerateSheetRequest asks for a filled match sheet. PlayerIDs and CoachIDs
// are roster-ordered; ReferentCoachID must reference an entry of CoachIDs.
type GenerateSheetRequest struct {
	TournamentID    int64   `json:"tournamentId"`
	TemplateID      int64   `json:"templateId"`
	PlayerIDs       []int64 `json:"playerIds"`
	CoachIDs        []int64 `json:"coachIds"`
	ReferentCoachID int64   `json:"referentCoachId"`
}

// GenerateSheetResult reports the stored artifact, the saved sheet record,
// and the fill diagnostics.
type GenerateSheetResult struct {
	Sheet    *records.MatchSheet `json:"sheet"`
	Artifact *export.Artifact    `json:"artifact"`
	Fill     *fill.Result        `json:"fill"`
}

// GenerateSheet loads the domain records and the template, runs the fill
// engine, stores the artifact, and saves the match-sheet record.
func (s *Service) GenerateSheet(ctx context.Context, req GenerateSheetRequest) (*GenerateSheetResult, error) {
	tournament, err := s.tournaments.GetByID(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	tpl, data, err := s.templateBytes(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	playerRecs, err := s.players.GetByIDs(ctx, req.PlayerIDs)
	if err != nil {
		return nil, err
	}
	coachRecs, err := s.coaches.GetByIDs(ctx, req.CoachIDs)
	if err != nil {
		return nil, err
	}

	entries, committed, err := s.mappings.Get(ctx, templateKey(tpl))
	if err != nil {
		return nil, err
	}
	if committed && entries == nil {
		// The fill engine treats nil as "never committed", so a committed
		// empty list must stay non-nil to suppress the convention fallback.
		entries = []mapping.FieldMapping{}
	}

	fillReq := fill.Request{
		TemplateBytes: data,
		Mappings:      entries,
		Tournament: fill.Tournament{
			Location: tournament.Location,
			Date:     tournament.Date,
			Category: s.categoryName(ctx, tournament.CategoryIDs),
		},
		ReferentIndex: -1,
	}
	for _, p := range playerRecs {
		fillReq.Players = append(fillReq.Players, fill.Player{
			LastName:       p.LastName,
			FirstName:      p.FirstName,
			LicenseNumber:  p.LicenseNumber,
			CanPlayForward: p.CanPlayForward,
			CanReferee:     p.CanReferee,
		})
	}
	for i, c := range coachRecs {
		fillReq.Coaches = append(fillReq.Coaches, fill.Coach{
			LastName:      c.LastName,
			FirstName:     c.FirstName,
			LicenseNumber: c.LicenseNumber,
			Diploma:       c.Diploma,
		})
		if c.ID == req.ReferentCoachID {
			fillReq.ReferentIndex = i
		}
	}

	res, err := s.engine.Fill(fillReq)
	if err != nil {
		return nil, err
	}
	artifact, err := s.exporter.Export(res.Document, tournament.Location, tournament.Date)
	if err != nil {
		return nil, err
	}
	sheetRec, err := s.sheets.Create(ctx, &records.MatchSheet{
		TournamentID:    req.TournamentID,
		TemplateID:      req.TemplateID,
		ReferentCoachID: req.ReferentCoachID,
		Filename:        artifact.Filename,
		PlayerIDs:       req.PlayerIDs,
		CoachIDs:        req.CoachIDs,
	})
	if err != nil {
		return nil, err
	}
	return &GenerateSheetResult{Sheet: sheetRec, Artifact: artifact, Fill: res}, nil
}

// categoryName resolves the display name of the tournament's first linked
// age category; tournaments without one fill an empty category.
func (s *Service) categoryName(ctx context.Context, categoryIDs []int64) string {
	if len(categoryIDs) == 0 {
		return ""
	}
	cat, err := s.categories.GetByID(ctx, categoryIDs[0])
	if err != nil {
		s.logger.Warn("sheet.category_lookup_failed", "category_id", categoryIDs[0], "error", err)
		return ""
	}
	return cat.Name
}

func (s *Service) templateBytes(ctx context.Context, templateID int64) (*records.Template, []byte, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}
	data, ok, err := s.blobs.Get(tpl.FileLocation)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("template %d: %w", templateID, ErrTemplateFileMissing)
	}
	return tpl, data, nil
}
