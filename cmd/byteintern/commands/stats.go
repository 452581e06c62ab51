package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/logger"
	"github.com/aaz50/ByteIntern/store"
)

const statsRecentLimit = 5

// StatsCmd summarizes the tracked listings in the configured store.
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts and the most recently recorded listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadValidatedConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Storage, logger.Logger)
		if err != nil {
			return errors.Wrap(err, "failed to open listing store")
		}
		defer st.Close()

		total, err := st.Count(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "failed to count listings")
		}

		listings, err := st.All(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "failed to load listings")
		}

		notified := 0
		for _, l := range listings {
			if l.Notified {
				notified++
			}
		}

		pterm.DefaultSection.Println("Tracked Listings")
		pterm.Info.Printfln("Total: %d", total)
		pterm.Info.Printfln("Included in a digest: %d", notified)
		pterm.Info.Printfln("Pending (never emailed): %d", total-notified)

		if len(listings) == 0 {
			return nil
		}

		pterm.DefaultSection.Println("Most Recent")
		rows := pterm.TableData{{"Title", "Company", "Location", "First Seen"}}
		for i, l := range listings {
			if i >= statsRecentLimit {
				break
			}
			rows = append(rows, []string{
				l.Title,
				l.Company,
				l.Location,
				l.FirstSeen.Format("2006-01-02 15:04"),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return errors.Wrap(err, "failed to render table")
		}
		return nil
	},
}
