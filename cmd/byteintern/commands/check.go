package commands

import (
	"github.com/spf13/cobra"
)

// CheckCmd runs the pipeline without sending email.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch and record new listings without sending email",
	Long: `Check performs a full fetch-and-record pass but never sends a digest.
New listings are recorded and printed to the terminal, which makes it useful
for verifying filters and credentials before scheduling real runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadValidatedConfig()
		if err != nil {
			return err
		}
		return executeRun(cmd.Context(), cfg, true)
	},
}
