package notify

import (
	"crypto/tls"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/aaz50/ByteIntern/config"
	"github.com/aaz50/ByteIntern/errors"
)

// Mailer is the outbound mail transport collaborator. Implementations send
// one plain-text message and return an error on any delivery failure.
type Mailer interface {
	Send(subject, body string) error
}

// SMTPMailer delivers mail over an implicit-TLS SMTP session (SMTPS,
// conventionally port 465) authenticated with the sender credentials.
type SMTPMailer struct {
	host      string
	port      int
	sender    string
	password  string
	recipient string
}

// NewSMTPMailer constructs an SMTPMailer from configuration.
func NewSMTPMailer(smtpCfg config.SMTPConfig, emailCfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:      smtpCfg.Host,
		port:      smtpCfg.Port,
		sender:    emailCfg.Sender,
		password:  emailCfg.Password,
		recipient: emailCfg.Recipient,
	}
}

// Send opens a TLS connection, authenticates, and delivers one message.
func (m *SMTPMailer) Send(subject, body string) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return errors.Wrapf(err, "dial %s", addr)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "smtp handshake")
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.sender, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return errors.Wrap(err, "smtp auth")
	}
	if err := client.Mail(m.sender); err != nil {
		return errors.Wrap(err, "smtp MAIL FROM")
	}
	if err := client.Rcpt(m.recipient); err != nil {
		return errors.Wrap(err, "smtp RCPT TO")
	}

	w, err := client.Data()
	if err != nil {
		return errors.Wrap(err, "smtp DATA")
	}
	if _, err := w.Write([]byte(m.compose(subject, body))); err != nil {
		w.Close()
		return errors.Wrap(err, "write message")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "finish message")
	}

	return client.Quit()
}

// compose builds the RFC 5322 message with headers and a plain-text body.
func (m *SMTPMailer) compose(subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + m.sender + "\r\n")
	b.WriteString("To: " + m.recipient + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
