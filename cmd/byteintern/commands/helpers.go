// Package commands implements the byteintern CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/aaz50/ByteIntern/config"
	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/logger"
	"github.com/aaz50/ByteIntern/notify"
	"github.com/aaz50/ByteIntern/pipeline"
	"github.com/aaz50/ByteIntern/source"
	"github.com/aaz50/ByteIntern/store"
)

// loadValidatedConfig loads and validates the configuration. Missing
// credentials are reported with the complete key list before any network or
// storage activity happens.
func loadValidatedConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		if errors.IsMissingConfig(err) {
			fmt.Fprintln(os.Stderr, "Configuration error: missing required values:")
			for _, key := range cfg.MissingCredentials() {
				fmt.Fprintf(os.Stderr, "  - %s\n", key)
			}
			fmt.Fprintln(os.Stderr, "\nSet these as environment variables or in a .env file.")
		}
		return nil, err
	}
	return cfg, nil
}

// executeRun performs one full pipeline pass with freshly constructed
// collaborators and prints the run summary.
func executeRun(ctx context.Context, cfg *config.Config, dryRun bool) error {
	st, err := store.Open(ctx, cfg.Storage, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to open listing store")
	}
	defer st.Close()

	tracker := pipeline.New(
		source.New(cfg.Adzuna, logger.Logger),
		st,
		notify.New(cfg, logger.Logger),
		cfg.Search,
		logger.Logger,
	)

	summary, err := tracker.Run(ctx, pipeline.Options{DryRun: dryRun})
	if err != nil {
		return errors.Wrap(err, "run failed")
	}

	printSummary(summary)
	return nil
}

// printSummary writes the operator-facing run report to stdout.
func printSummary(s pipeline.Summary) {
	fmt.Println()
	fmt.Println("Job check complete")
	fmt.Printf("  Candidates fetched: %d\n", s.Candidates)
	fmt.Printf("  New this run:       %d\n", len(s.New))
	fmt.Printf("  Total tracked:      %d\n", s.Total)

	switch {
	case s.DryRun && len(s.New) > 0:
		fmt.Println("\nNew listings (check mode, no email sent):")
		for _, l := range s.New {
			fmt.Printf("  - %s at %s\n    %s\n", l.Title, l.Company, l.URL)
		}
	case len(s.New) > 0 && !s.Notified:
		fmt.Println("\nDigest could not be delivered; the new listings are recorded and will not be re-sent.")
	case len(s.New) > 0:
		fmt.Println("\nDigest delivered.")
	}
}
