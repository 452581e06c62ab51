package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aaz50/ByteIntern/cmd/byteintern/commands"
	"github.com/aaz50/ByteIntern/logger"
)

var rootCmd = &cobra.Command{
	Use:   "byteintern",
	Short: "ByteIntern - job posting tracker and digest notifier",
	Long: `ByteIntern - track job postings and email a digest of new ones.

ByteIntern periodically queries the Adzuna job-search API for postings
matching a configured keyword/location search, records every posting it has
ever seen, and emails a digest covering the postings that are new.

Available commands:
  run    - Fetch, persist, and notify (also the default when no command is given)
  check  - Fetch and persist without sending email
  stats  - Show aggregate tracker statistics
  email  - Email delivery utilities (send a test message)
  watch  - Run the pipeline on an in-process schedule

Examples:
  byteintern                  # one full pipeline run
  byteintern check            # see what is new without emailing
  byteintern stats            # how many postings are tracked
  byteintern email test       # verify SMTP credentials
  byteintern watch            # keep running, one pipeline pass per interval`,
	SilenceUsage:      true,
	RunE:              commands.RunPipeline,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	// A .env file is optional; real environment variables win when both
	// are present
	_ = godotenv.Load()

	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs instead of console output")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.EmailCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
