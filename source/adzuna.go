// Package source wraps the Adzuna job-search API as the tracker's listing
// source.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aaz50/ByteIntern/config"
	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/listing"
)

const (
	defaultBaseURL = "https://api.adzuna.com/v1/api/jobs"
	pageSize       = 50
	requestTimeout = 10 * time.Second

	// One query every two seconds keeps well inside Adzuna's free-tier
	// rate limit.
	queryInterval = 2 * time.Second
)

// AdzunaSource fetches job postings from the Adzuna public API. The API
// filters by a single location per call, so a multi-location search issues
// one query per location, sequentially, behind a rate limiter.
type AdzunaSource struct {
	// BaseURL is the API root; tests point it at a local httptest server.
	BaseURL string

	appID   string
	appKey  string
	country string
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// New constructs an AdzunaSource from configuration.
func New(cfg config.AdzunaConfig, log *zap.SugaredLogger) *AdzunaSource {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AdzunaSource{
		BaseURL: defaultBaseURL,
		appID:   cfg.AppID,
		appKey:  cfg.AppKey,
		country: cfg.Country,
		client:  &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Every(queryInterval), 1),
		log:     log.Named("source"),
	}
}

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID          json.Number    `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   *float64       `json:"salary_min"`
	SalaryMax   *float64       `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Search queries every configured location and returns the combined,
// deduplicated candidate set.
//
// Each location query fails independently: a transport, HTTP, or parse
// failure is logged and contributes zero listings while the remaining
// locations are still queried. Duplicates across locations keep the first
// occurrence in location-list order. Result ordering beyond that is not
// guaranteed stable across calls.
func (s *AdzunaSource) Search(ctx context.Context, keywords string, locations []string, maxDaysOld int) []listing.Listing {
	var combined []listing.Listing
	seen := make(map[string]bool)

	for _, location := range locations {
		if err := s.limiter.Wait(ctx); err != nil {
			// Context cancelled; no point querying further locations
			s.log.Warnw("Search cancelled", "location", location, "error", err)
			break
		}

		results, err := s.fetchLocation(ctx, keywords, location, maxDaysOld)
		if err != nil {
			s.log.Warnw("Location query failed, continuing with remaining locations",
				"location", location,
				"error", err,
			)
			continue
		}
		s.log.Infow("Fetched listings", "location", location, "count", len(results))

		for _, l := range results {
			if seen[l.ID] {
				continue
			}
			seen[l.ID] = true
			combined = append(combined, l)
		}
	}

	s.log.Infow("Search complete", "unique_listings", len(combined), "locations", len(locations))
	return combined
}

// fetchLocation issues one search query constrained to a single location.
func (s *AdzunaSource) fetchLocation(ctx context.Context, keywords, location string, maxDaysOld int) ([]listing.Listing, error) {
	endpoint := fmt.Sprintf("%s/%s/search/1", s.BaseURL, s.country)

	params := url.Values{}
	params.Set("app_id", s.appID)
	params.Set("app_key", s.appKey)
	params.Set("what", keywords)
	params.Set("results_per_page", strconv.Itoa(pageSize))
	params.Set("content-type", "application/json")
	params.Set("max_days_old", strconv.Itoa(maxDaysOld))
	if location != "" {
		params.Set("where", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "http GET")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("adzuna returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, errors.Wrap(err, "json unmarshal")
	}

	results := make([]listing.Listing, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		l := listing.Listing{
			ID:          r.ID.String(),
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			URL:         r.RedirectURL,
			Description: r.Description,
			PostedAt:    r.Created,
			SalaryMin:   r.SalaryMin,
			SalaryMax:   r.SalaryMax,
		}
		if err := l.Validate(); err != nil {
			s.log.Debugw("Dropping malformed listing", "id", l.ID, "error", err)
			continue
		}
		results = append(results, l)
	}
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
