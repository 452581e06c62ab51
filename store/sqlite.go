package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/listing"
)

// firstSeenLayout is the canonical storage format for first_seen: RFC 3339
// in UTC with a fixed-width nanosecond fraction. The fixed width keeps the
// strings lexicographically ordered, which the first_seen index relies on;
// RFC3339Nano would trim trailing zeros and break the ordering for
// timestamps landing on an exact second.
const firstSeenLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store on an embedded SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewSQLiteStore creates a SQLiteStore over an opened, migrated database.
func NewSQLiteStore(db *sql.DB, log *zap.SugaredLogger) *SQLiteStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SQLiteStore{db: db, log: log}
}

// Exists reports whether a listing with this ID has ever been inserted.
func (s *SQLiteStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM jobs WHERE job_id = ?)", id).Scan(&exists)
	if err != nil {
		return false, errors.Wrapf(err, "check existence of %s", id)
	}
	return exists, nil
}

// Insert stores the listing if absent. INSERT OR IGNORE gives the
// duplicate-ID no-op semantics without using constraint violations for
// control flow.
func (s *SQLiteStore) Insert(ctx context.Context, l listing.Listing) error {
	firstSeen := l.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO jobs
		(job_id, title, company, location, url, description, posted_at, salary_min, salary_max, first_seen, notified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID,
		l.Title,
		l.Company,
		l.Location,
		l.URL,
		l.Description,
		l.PostedAt,
		nullableFloat(l.SalaryMin),
		nullableFloat(l.SalaryMax),
		firstSeen.UTC().Format(firstSeenLayout),
		boolToInt(l.Notified),
	)
	if err != nil {
		return errors.Wrapf(err, "insert listing %s", l.ID)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		s.log.Debugw("Listing already stored", "id", l.ID)
	}
	return nil
}

// MarkNotified sets the notified flag. Unknown IDs affect zero rows, which
// is the contract's no-op.
func (s *SQLiteStore) MarkNotified(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE jobs SET notified = 1 WHERE job_id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "mark %s notified", id)
	}
	return nil
}

// All returns every stored listing ordered by first_seen descending.
func (s *SQLiteStore) All(ctx context.Context) ([]listing.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, title, company, location, url, description, posted_at,
		       salary_min, salary_max, first_seen, notified
		FROM jobs
		ORDER BY first_seen DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query listings")
	}
	defer rows.Close()

	var listings []listing.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate listings")
	}
	return listings, nil
}

// Count returns the total number of stored listings.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count listings")
	}
	return count, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanListing(rows *sql.Rows) (listing.Listing, error) {
	var (
		l           listing.Listing
		location    sql.NullString
		description sql.NullString
		postedAt    sql.NullString
		salaryMin   sql.NullFloat64
		salaryMax   sql.NullFloat64
		firstSeen   string
		notified    int
	)
	err := rows.Scan(&l.ID, &l.Title, &l.Company, &location, &l.URL,
		&description, &postedAt, &salaryMin, &salaryMax, &firstSeen, &notified)
	if err != nil {
		return listing.Listing{}, errors.Wrap(err, "scan listing")
	}

	l.Location = location.String
	l.Description = description.String
	l.PostedAt = postedAt.String
	if salaryMin.Valid {
		v := salaryMin.Float64
		l.SalaryMin = &v
	}
	if salaryMax.Valid {
		v := salaryMax.Float64
		l.SalaryMax = &v
	}
	l.FirstSeen = parseFirstSeen(firstSeen)
	l.Notified = notified != 0
	return l, nil
}

// parseFirstSeen accepts the canonical layout plus the formats earlier
// versions and SQLite's CURRENT_TIMESTAMP default produce, so existing
// databases still scan. RFC3339 parsing tolerates variable-width fractions.
func parseFirstSeen(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
