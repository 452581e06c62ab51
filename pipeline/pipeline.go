// Package pipeline orchestrates one tracking run: fetch candidates from the
// listing source, filter out everything already stored, persist the new
// listings, and notify in a single batch.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aaz50/ByteIntern/config"
	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/listing"
	"github.com/aaz50/ByteIntern/store"
)

// Source yields the candidate set for one run. Failed location queries
// contribute zero listings rather than an error, so Search never fails.
type Source interface {
	Search(ctx context.Context, keywords string, locations []string, maxDaysOld int) []listing.Listing
}

// Notifier delivers one digest covering a batch of new listings and reports
// whether delivery succeeded.
type Notifier interface {
	Send(listings []listing.Listing) bool
}

// Options modify a single run.
type Options struct {
	// DryRun persists new listings but skips notification entirely.
	DryRun bool
}

// Summary reports the outcome of one run.
type Summary struct {
	RunID      string
	Candidates int               // unique listings returned by the source
	New        []listing.Listing // listings inserted this run
	Total      int               // listings ever tracked, after this run
	Notified   bool              // true when the digest for this run was delivered
	DryRun     bool
	Duration   time.Duration
}

// Tracker runs the fetch -> deduplicate -> persist -> notify pipeline.
//
// A run is strictly sequential and holds no state between invocations beyond
// what lives in the Store. The caller is responsible for non-overlapping
// scheduling; the Tracker takes no run-level lock.
type Tracker struct {
	source   Source
	store    store.Store
	notifier Notifier
	search   config.SearchConfig
	log      *zap.SugaredLogger
}

// New constructs a Tracker from its collaborators.
func New(src Source, st store.Store, n Notifier, search config.SearchConfig, log *zap.SugaredLogger) *Tracker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Tracker{
		source:   src,
		store:    st,
		notifier: n,
		search:   search,
		log:      log.Named("pipeline"),
	}
}

// Run executes one complete pipeline pass.
//
// An empty candidate set is a normal zero-new outcome, not an error. Store
// failures abort the run; every store operation is independently atomic, so
// an aborted run never leaves the store partially corrupted.
//
// When the digest fails to send, the new listings remain persisted with
// notified=false and are NOT offered to the notifier again on later runs:
// a later run sees them in the store and no longer considers them new. This
// at-most-one-attempt behavior is deliberate (it can never double-email a
// posting) and matches the reference tracker.
func (t *Tracker) Run(ctx context.Context, opts Options) (summary Summary, err error) {
	summary = Summary{
		RunID:  uuid.NewString(),
		DryRun: opts.DryRun,
	}
	start := time.Now()
	defer func() { summary.Duration = time.Since(start) }()

	log := t.log.With("run_id", summary.RunID)
	log.Infow("Starting run",
		"keywords", t.search.Keywords,
		"locations", t.search.Locations,
		"max_days_old", t.search.MaxDaysOld,
		"dry_run", opts.DryRun,
	)

	candidates := t.source.Search(ctx, t.search.Keywords, t.search.Locations, t.search.MaxDaysOld)
	summary.Candidates = len(candidates)

	if len(candidates) == 0 {
		log.Infow("No listings returned by source")
		total, err := t.store.Count(ctx)
		if err != nil {
			return summary, errors.Wrap(err, "count tracked listings")
		}
		summary.Total = total
		return summary, nil
	}

	for _, candidate := range candidates {
		exists, err := t.store.Exists(ctx, candidate.ID)
		if err != nil {
			return summary, errors.Wrapf(err, "check listing %s", candidate.ID)
		}
		if exists {
			continue
		}
		if err := t.store.Insert(ctx, candidate); err != nil {
			return summary, errors.Wrapf(err, "insert listing %s", candidate.ID)
		}
		log.Infow("New listing",
			"id", candidate.ID,
			"title", candidate.Title,
			"company", candidate.Company,
		)
		summary.New = append(summary.New, candidate)
	}

	if len(summary.New) > 0 && !opts.DryRun {
		if t.notifier.Send(summary.New) {
			summary.Notified = true
			for _, l := range summary.New {
				if err := t.store.MarkNotified(ctx, l.ID); err != nil {
					// The digest went out; a failed flag update only risks
					// this listing staying unnotified in stats
					log.Errorw("Failed to mark listing notified", "id", l.ID, "error", err)
				}
			}
		} else {
			log.Warnw("Digest not delivered; listings stay unnotified and will not be re-offered",
				"listings", len(summary.New),
			)
		}
	}

	total, err := t.store.Count(ctx)
	if err != nil {
		return summary, errors.Wrap(err, "count tracked listings")
	}
	summary.Total = total

	log.Infow("Run complete",
		"candidates", summary.Candidates,
		"new", len(summary.New),
		"total", summary.Total,
		"notified", summary.Notified,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return summary, nil
}
