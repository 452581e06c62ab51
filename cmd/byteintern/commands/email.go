package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/logger"
	"github.com/aaz50/ByteIntern/notify"
)

// EmailCmd groups email-related subcommands.
var EmailCmd = &cobra.Command{
	Use:   "email",
	Short: "Email delivery utilities",
}

var emailTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test email to the configured recipient",
	Long: `Test sends a short message to the configured recipient using the same
SMTP settings real digests use. Run it once after setup to confirm the sender
credentials and recipient address work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadValidatedConfig()
		if err != nil {
			return err
		}

		notifier := notify.New(cfg, logger.Logger)
		if !notifier.SendTest() {
			return errors.New("test email could not be delivered, check the SMTP credentials")
		}

		fmt.Printf("Test email sent to %s\n", cfg.Email.Recipient)
		return nil
	},
}

func init() {
	EmailCmd.AddCommand(emailTestCmd)
}
