package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/aaz50/ByteIntern/config"
)

func newTestSource(serverURL string) *AdzunaSource {
	s := New(config.AdzunaConfig{
		AppID:   "test-app-id",
		AppKey:  "test-app-key",
		Country: "us",
	}, nil)
	s.BaseURL = serverURL
	s.limiter = rate.NewLimiter(rate.Inf, 1)
	return s
}

func resultJSON(id, title, company string) string {
	return fmt.Sprintf(`{
		"id": %s,
		"title": "%s",
		"description": "desc",
		"company": {"display_name": "%s"},
		"location": {"display_name": "Remote"},
		"redirect_url": "https://example.com/jobs/%s",
		"created": "2026-08-28T09:30:00Z",
		"salary_min": 85000,
		"salary_max": 120000
	}`, id, title, company, id)
}

func TestSearch_QueryParameters(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		fmt.Fprint(w, `{"results": [], "count": 0}`)
	}))
	defer srv.Close()

	s := newTestSource(srv.URL)
	s.Search(context.Background(), "software engineer intern", []string{"New York"}, 7)

	assert.Equal(t, "/us/search/1", gotPath)
	assert.Equal(t, "test-app-id", gotQuery["app_id"])
	assert.Equal(t, "test-app-key", gotQuery["app_key"])
	assert.Equal(t, "software engineer intern", gotQuery["what"])
	assert.Equal(t, "New York", gotQuery["where"])
	assert.Equal(t, "50", gotQuery["results_per_page"])
	assert.Equal(t, "7", gotQuery["max_days_old"])
	assert.Equal(t, "application/json", gotQuery["content-type"])
}

func TestSearch_DeduplicatesAcrossLocations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("where") {
		case "New York":
			fmt.Fprintf(w, `{"results": [%s, %s], "count": 2}`,
				resultJSON("1", "NY First", "Acme"),
				resultJSON("2", "NY Only", "Acme"))
		case "Remote":
			fmt.Fprintf(w, `{"results": [%s, %s], "count": 2}`,
				resultJSON("1", "Remote Duplicate", "Acme"),
				resultJSON("3", "Remote Only", "Acme"))
		default:
			t.Errorf("unexpected location %q", r.URL.Query().Get("where"))
		}
	}))
	defer srv.Close()

	s := newTestSource(srv.URL)
	got := s.Search(context.Background(), "intern", []string{"New York", "Remote"}, 7)

	require.Len(t, got, 3)
	// The first occurrence in location-list order wins
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "NY First", got[0].Title)
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "3", got[2].ID)
}

func TestSearch_LocationFailureDoesNotAbort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("where") == "Broken" {
			http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
			return
		}
		fmt.Fprintf(w, `{"results": [%s], "count": 1}`, resultJSON("10", "Healthy", "Acme"))
	}))
	defer srv.Close()

	s := newTestSource(srv.URL)
	got := s.Search(context.Background(), "intern", []string{"Broken", "Healthy Town"}, 7)

	require.Len(t, got, 1)
	assert.Equal(t, "10", got[0].ID)
	assert.Equal(t, "Healthy", got[0].Title)
}

func TestSearch_DropsListingsMissingRequiredFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Second result has no title and no redirect_url
		fmt.Fprintf(w, `{"results": [%s, {"id": 99, "company": {"display_name": "Acme"}}], "count": 2}`,
			resultJSON("1", "Valid", "Acme"))
	}))
	defer srv.Close()

	s := newTestSource(srv.URL)
	got := s.Search(context.Background(), "intern", []string{"Remote"}, 7)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestSearch_MapsListingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [%s], "count": 1}`, resultJSON("42", "Software Engineer Intern", "Acme"))
	}))
	defer srv.Close()

	s := newTestSource(srv.URL)
	got := s.Search(context.Background(), "intern", []string{"Remote"}, 7)

	require.Len(t, got, 1)
	l := got[0]
	assert.Equal(t, "42", l.ID)
	assert.Equal(t, "Software Engineer Intern", l.Title)
	assert.Equal(t, "Acme", l.Company)
	assert.Equal(t, "Remote", l.Location)
	assert.Equal(t, "https://example.com/jobs/42", l.URL)
	assert.Equal(t, "2026-08-28T09:30:00Z", l.PostedAt)
	require.NotNil(t, l.SalaryMin)
	require.NotNil(t, l.SalaryMax)
	assert.Equal(t, 85000.0, *l.SalaryMin)
	assert.Equal(t, 120000.0, *l.SalaryMax)
	assert.False(t, l.Notified)
	assert.True(t, l.FirstSeen.IsZero(), "FirstSeen is assigned by the store, not the source")
}

func TestSearch_CancelledContextStops(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"results": [], "count": 0}`)
	}))
	defer srv.Close()

	s := newTestSource(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := s.Search(ctx, "intern", []string{"A", "B", "C"}, 7)
	assert.Empty(t, got)
	assert.Zero(t, calls, "no queries should be issued after cancellation")
}
