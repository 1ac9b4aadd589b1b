package mailer

import (
	"context"
	"log/slog"

	"passport/internal/domain/service"
)

// logMailer writes activation links to the log instead of sending mail.
// Default when no mailer is configured.
type logMailer struct {
	logger *slog.Logger
}

func newLogMailer(logger *slog.Logger) service.ActivationNotifier {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendActivationEmail(_ context.Context, email, link string) error {
	m.logger.Info("[LogMailer] Activation email",
		slog.String("email", email),
		slog.String("link", link),
	)

	return nil
}
