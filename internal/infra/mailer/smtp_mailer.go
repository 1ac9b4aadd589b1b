package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"passport/config"
	"passport/internal/domain/service"
	"passport/internal/errors"
)

// smtpMailer delivers activation emails over SMTP. Plain-text only.
type smtpMailer struct {
	cfg    *config.SMTPConfig
	logger *slog.Logger
}

func newSMTPMailer(cfg *config.SMTPConfig, logger *slog.Logger) service.ActivationNotifier {
	return &smtpMailer{cfg: cfg, logger: logger}
}

// SendActivationEmail sends the activation link to the given address.
func (m *smtpMailer) SendActivationEmail(ctx context.Context, email, link string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "send activation email")
	}

	port := m.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, port)

	subject := "Activate your account"
	body := fmt.Sprintf(
		"Welcome!\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nThe link expires in one hour. If you did not register, ignore this message.\n",
		link,
	)
	msg := buildMessage(m.cfg.From, m.cfg.FromName, email, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var err error
	if m.cfg.UseTLS {
		err = m.sendImplicitTLS(addr, auth, email, msg)
	} else {
		err = smtp.SendMail(addr, auth, m.cfg.From, []string{email}, []byte(msg))
	}
	if err != nil {
		return errors.Wrap(err, "send activation email")
	}

	m.logger.Info("Activation email sent", slog.String("email", email))

	return nil
}

// sendImplicitTLS dials a TLS connection first, for relays on port 465
// that do not speak STARTTLS.
func (m *smtpMailer) sendImplicitTLS(addr string, auth smtp.Auth, email, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(email); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		_ = writer.Close()

		return err
	}

	return writer.Close()
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
