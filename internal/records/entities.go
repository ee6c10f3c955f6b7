// Package records is the persistent record store for club entities: players,
// coaches, tournaments, templates, age categories, and saved match sheets,
// including the many-to-many category links.
package records

import "time"

type Player struct {
	ID             int64  `json:"id"`
	LastName       string `json:"lastName"`
	FirstName      string `json:"firstName"`
	LicenseNumber  string `json:"licenseNumber"`
	CanPlayForward bool   `json:"canPlayForward"`
	CanReferee     bool   `json:"canReferee"`
}

type Coach struct {
	ID            int64   `json:"id"`
	LastName      string  `json:"lastName"`
	FirstName     string  `json:"firstName"`
	LicenseNumber string  `json:"licenseNumber"`
	Diploma       string  `json:"diploma"`
	CategoryIDs   []int64 `json:"ageCategoryIds,omitempty"`
}

type AgeCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Tournament struct {
	ID          int64     `json:"id"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	CategoryIDs []int64   `json:"ageCategoryIds,omitempty"`
}

// Template is a named PDF document associated with one or more age
// categories. FileLocation is the blob-store name of the uploaded PDF; its
// base filename is also the mapping-store key.
type Template struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	FileLocation string  `json:"fileLocation"`
	CategoryIDs  []int64 `json:"ageCategoryIds,omitempty"`
}

// MatchSheet is a saved fill outcome: which tournament, template and roster
// produced which generated artifact.
type MatchSheet struct {
	ID              int64     `json:"id"`
	TournamentID    int64     `json:"tournamentId"`
	TemplateID      int64     `json:"templateId"`
	ReferentCoachID int64     `json:"referentCoachId"`
	Filename        string    `json:"filename"`
	CreatedAt       time.Time `json:"createdAt"`
	PlayerIDs       []int64   `json:"playerIds,omitempty"`
	CoachIDs        []int64   `json:"coachIds,omitempty"`
}
