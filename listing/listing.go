// Package listing defines the unit of record for the tracker: one normalized
// job posting as returned by a listing source and persisted by a store.
package listing

import (
	"strings"
	"time"

	"github.com/aaz50/ByteIntern/errors"
)

// Listing is one normalized job posting record.
//
// ID is globally unique per source and acts as the primary key everywhere.
// FirstSeen is assigned by the store at insertion time and never changes.
// Notified is monotonic: once true it is never reset by the core.
type Listing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	PostedAt    string   `json:"posted_at,omitempty"` // source-native ISO 8601 UTC string
	SalaryMin   *float64 `json:"salary_min,omitempty"`
	SalaryMax   *float64 `json:"salary_max,omitempty"`

	FirstSeen time.Time `json:"first_seen,omitempty"`
	Notified  bool      `json:"notified"`
}

// HasSalaryRange reports whether both salary bounds are present.
// The digest renders a salary line only when this is true.
func (l Listing) HasSalaryRange() bool {
	return l.SalaryMin != nil && l.SalaryMax != nil
}

// PostedTime parses PostedAt as an RFC 3339 UTC timestamp.
// Returns the zero time and false when the field is empty or unparseable.
func (l Listing) PostedTime() (time.Time, bool) {
	if l.PostedAt == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, l.PostedAt); err == nil {
		return t, true
	}
	// Adzuna sometimes omits the zone designator
	if t, err := time.Parse("2006-01-02T15:04:05", l.PostedAt); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Validate checks the required fields of a listing.
// Returns an error naming every missing field, or nil.
func (l Listing) Validate() error {
	var missing []string
	if l.ID == "" {
		missing = append(missing, "id")
	}
	if l.Title == "" {
		missing = append(missing, "title")
	}
	if l.Company == "" {
		missing = append(missing, "company")
	}
	if l.URL == "" {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return errors.Newf("listing missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
