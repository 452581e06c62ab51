// Package notify formats batches of new listings into a plain-text digest
// and delivers it through a mail transport.
package notify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aaz50/ByteIntern/config"
	"github.com/aaz50/ByteIntern/listing"
)

// Notifier turns a batch of new listings into one digest email.
type Notifier struct {
	mailer    Mailer
	recipient string
	log       *zap.SugaredLogger
}

// New constructs a Notifier with the SMTP mail transport from configuration.
func New(cfg *config.Config, log *zap.SugaredLogger) *Notifier {
	return NewWithMailer(NewSMTPMailer(cfg.SMTP, cfg.Email), cfg.Email.Recipient, log)
}

// NewWithMailer constructs a Notifier over an injected transport.
func NewWithMailer(mailer Mailer, recipient string, log *zap.SugaredLogger) *Notifier {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Notifier{
		mailer:    mailer,
		recipient: recipient,
		log:       log.Named("notify"),
	}
}

// Format renders the digest body for a batch of listings.
func (n *Notifier) Format(listings []listing.Listing) string {
	return Format(listings)
}

// Send delivers one digest covering the whole batch and reports success.
//
// An empty batch is a no-op returning false without touching the transport.
// Delivery failures are logged and reported as false; they never propagate
// as a crash.
func (n *Notifier) Send(listings []listing.Listing) bool {
	if len(listings) == 0 {
		n.log.Debugw("No new listings to notify about")
		return false
	}

	subject := fmt.Sprintf("%d New Job Posting(s) Found!", len(listings))
	if err := n.mailer.Send(subject, Format(listings)); err != nil {
		n.log.Errorw("Failed to send digest",
			"recipient", n.recipient,
			"listings", len(listings),
			"error", err,
		)
		return false
	}

	n.log.Infow("Digest sent",
		"recipient", n.recipient,
		"listings", len(listings),
	)
	return true
}

// SendTest delivers a configuration smoke-test message and reports success.
func (n *Notifier) SendTest() bool {
	body := "Hello!\n\n" +
		"This is a test email from your ByteIntern job tracker.\n\n" +
		"If you're receiving this, your email configuration is working correctly.\n\n" +
		"The tracker will now send you a digest whenever new postings matching\n" +
		"your search are found.\n\n" +
		"Happy job hunting!"

	if err := n.mailer.Send("Job Tracker Setup Complete", body); err != nil {
		n.log.Errorw("Failed to send test email",
			"recipient", n.recipient,
			"error", err,
		)
		return false
	}

	n.log.Infow("Test email sent", "recipient", n.recipient)
	return true
}
