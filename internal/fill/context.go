// Package fill implements the form-fill engine: matching committed field
// mappings (or convention-based guesses) against a template's real form
// fields and writing roster and tournament data into them.
package fill

import (
	"strings"
	"time"
)

// dateLayout is how dates are rendered into text fields.
const dateLayout = "02/01/2006"

// Tournament carries the event attributes written into global fields.
type Tournament struct {
	Location string
	Date     time.Time
	Category string
}

// Player is one roster entry.
type Player struct {
	LastName       string
	FirstName      string
	LicenseNumber  string
	CanPlayForward bool
	CanReferee     bool
}

// Coach is one staff entry.
type Coach struct {
	LastName      string
	FirstName     string
	LicenseNumber string
	Diploma       string
}

// Bucket is a plain data record traversed by dotted target paths. Values are
// strings, bools, or nested Buckets.
type Bucket map[string]any

// Resolve walks a dotted path into the bucket. A missing segment or a path
// ending on a nested bucket yields ok=false; it never panics.
func (b Bucket) Resolve(path string) (any, bool) {
	var cur any = b
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(Bucket)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	if _, nested := cur.(Bucket); nested {
		return nil, false
	}
	return cur, true
}

// globalBucket builds the global data context: tournament attributes plus the
// club name. French and English attribute names both resolve, since proposed
// target paths come back in either.
func globalBucket(t Tournament, clubName string) Bucket {
	event := Bucket{
		"location":  t.Location,
		"lieu":      t.Location,
		"date":      t.Date.Format(dateLayout),
		"category":  t.Category,
		"categorie": t.Category,
	}
	return Bucket{
		"tournament":    event,
		"manifestation": event,
		"club":          clubName,
	}
}

func playerBucket(p Player) Bucket {
	return Bucket{
		"lastName":       p.LastName,
		"nom":            p.LastName,
		"firstName":      p.FirstName,
		"prenom":         p.FirstName,
		"licenseNumber":  p.LicenseNumber,
		"licence":        p.LicenseNumber,
		"canPlayForward": p.CanPlayForward,
		"avant":          p.CanPlayForward,
		"canReferee":     p.CanReferee,
		"arbitre":        p.CanReferee,
	}
}

// educatorBucket builds a coach record; referent marks the designated lead
// coach of the sheet.
func educatorBucket(c Coach, referent bool) Bucket {
	return Bucket{
		"lastName":      c.LastName,
		"nom":           c.LastName,
		"firstName":     c.FirstName,
		"prenom":        c.FirstName,
		"licenseNumber": c.LicenseNumber,
		"licence":       c.LicenseNumber,
		"diploma":       c.Diploma,
		"diplome":       c.Diploma,
		"referent":      referent,
	}
}

// lastSegment returns the final segment of a dotted path.
func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}
