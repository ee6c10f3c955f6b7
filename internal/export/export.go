// Package export turns a filled document into a stored, downloadable
// artifact under the generated_pdfs prefix of the blob store.
package export

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/clubsuite/matchsheet/internal/blob"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// Filename builds the artifact name for a fill output:
// feuille_match_<location-with-spaces-as-underscores>_<ISO-date>_<timestamp>.pdf.
// The timestamp is the uniqueness token; two fills of the same request yield
// distinct artifacts.
func Filename(location string, date time.Time, now time.Time) string {
	loc := strings.ReplaceAll(strings.TrimSpace(location), " ", "_")
	loc = unsafeFilenameChars.ReplaceAllString(loc, "")
	if loc == "" {
		loc = "match"
	}
	return fmt.Sprintf("feuille_match_%s_%s_%d.pdf", loc, date.Format("2006-01-02"), now.UnixMilli())
}

// Exporter stores filled documents in the blob store.
type Exporter struct {
	blobs  *blob.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter creates an exporter writing into blobs.
func NewExporter(blobs *blob.Store, logger *slog.Logger) *Exporter {
	return &Exporter{blobs: blobs, logger: logger, now: time.Now}
}

// Artifact is a stored fill output.
type Artifact struct {
	Filename     string `json:"filename"`
	DownloadPath string `json:"downloadPath"`
	Size         int    `json:"size"`
}

// Export stores the document bytes under a generated filename and returns
// the artifact reference.
func (e *Exporter) Export(document []byte, location string, date time.Time) (*Artifact, error) {
	filename := Filename(location, date, e.now())
	name := path.Join(blob.GeneratedPrefix, filename)
	if err := e.blobs.Put(name, document); err != nil {
		return nil, fmt.Errorf("store generated document: %w", err)
	}
	e.logger.Info("export.stored", "filename", filename, "size", len(document))
	return &Artifact{
		Filename:     filename,
		DownloadPath: "/" + name,
		Size:         len(document),
	}, nil
}
