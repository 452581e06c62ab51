package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bitest "github.com/aaz50/ByteIntern/internal/testing"
	"github.com/aaz50/ByteIntern/listing"
)

func testListing(id string) listing.Listing {
	return listing.Listing{
		ID:       id,
		Title:    "Software Engineer Intern",
		Company:  "Acme",
		Location: "Remote",
		URL:      "https://example.com/jobs/" + id,
		PostedAt: "2026-08-28T09:30:00Z",
	}
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	return NewSQLiteStore(bitest.CreateTestDB(t), nil)
}

func TestSQLiteStore_InsertAndExists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	exists, err := s.Exists(ctx, "adz-1")
	require.NoError(t, err)
	assert.False(t, exists, "empty store should not contain adz-1")

	require.NoError(t, s.Insert(ctx, testListing("adz-1")))

	exists, err = s.Exists(ctx, "adz-1")
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStore_InsertDuplicateIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := testListing("adz-1")
	first.FirstSeen = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Insert(ctx, first))
	require.NoError(t, s.MarkNotified(ctx, "adz-1"))

	// Re-inserting the same ID with different fields must not overwrite
	// the original row or reset the notified flag
	dup := testListing("adz-1")
	dup.Title = "Totally Different Title"
	dup.FirstSeen = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Insert(ctx, dup))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Software Engineer Intern", all[0].Title)
	assert.True(t, all[0].FirstSeen.Equal(first.FirstSeen), "first_seen should be preserved")
	assert.True(t, all[0].Notified, "notified flag should be preserved")
}

func TestSQLiteStore_MarkNotified(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Insert(ctx, testListing("adz-1")))

	require.NoError(t, s.MarkNotified(ctx, "adz-1"))
	// Marking twice or marking an unknown ID is a no-op, not an error
	require.NoError(t, s.MarkNotified(ctx, "adz-1"))
	require.NoError(t, s.MarkNotified(ctx, "no-such-id"))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Notified)
}

func TestSQLiteStore_AllOrdersByFirstSeenDesc(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"oldest", "middle", "newest"} {
		l := testListing(id)
		l.FirstSeen = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Insert(ctx, l))
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].ID)
	assert.Equal(t, "middle", all[1].ID)
	assert.Equal(t, "oldest", all[2].ID)
}

func TestSQLiteStore_AllOrdersWithinSameSecond(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// An exact-second timestamp and a mid-second one must still order by
	// time; the stored strings compare lexicographically, so the layout
	// has to be fixed-width
	onSecond := testListing("on-second")
	onSecond.FirstSeen = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	midSecond := testListing("mid-second")
	midSecond.FirstSeen = time.Date(2026, 8, 1, 12, 0, 0, 500000000, time.UTC)

	require.NoError(t, s.Insert(ctx, onSecond))
	require.NoError(t, s.Insert(ctx, midSecond))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "mid-second", all[0].ID)
	assert.Equal(t, "on-second", all[1].ID)
	assert.True(t, all[0].FirstSeen.Equal(midSecond.FirstSeen))
	assert.True(t, all[1].FirstSeen.Equal(onSecond.FirstSeen))
}

func TestSQLiteStore_SalaryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	withSalary := testListing("with-salary")
	min, max := 85000.0, 120000.0
	withSalary.SalaryMin = &min
	withSalary.SalaryMax = &max
	require.NoError(t, s.Insert(ctx, withSalary))
	require.NoError(t, s.Insert(ctx, testListing("without-salary")))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byID := map[string]listing.Listing{}
	for _, l := range all {
		byID[l.ID] = l
	}

	got := byID["with-salary"]
	require.NotNil(t, got.SalaryMin)
	require.NotNil(t, got.SalaryMax)
	assert.Equal(t, 85000.0, *got.SalaryMin)
	assert.Equal(t, 120000.0, *got.SalaryMax)

	none := byID["without-salary"]
	assert.Nil(t, none.SalaryMin)
	assert.Nil(t, none.SalaryMax)
}

func TestSQLiteStore_ExistsQueryError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("adz-1").
		WillReturnError(assert.AnError)

	s := NewSQLiteStore(mockDB, nil)
	_, err = s.Exists(context.Background(), "adz-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check existence of adz-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
