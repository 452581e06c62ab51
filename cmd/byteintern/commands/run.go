package commands

import (
	"github.com/spf13/cobra"
)

// RunCmd fetches listings, records the new ones, and emails a digest.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch listings, record new ones, and email a digest",
	Long: `Run queries the job search API for every configured location, records
listings that have not been seen before, and emails a digest of the new ones.
Listings already recorded are skipped.`,
	RunE: RunPipeline,
}

// RunPipeline is the default action when byteintern is invoked with no
// subcommand.
func RunPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidatedConfig()
	if err != nil {
		return err
	}
	return executeRun(cmd.Context(), cfg, false)
}
