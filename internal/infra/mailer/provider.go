// Package mailer provides implementations of the ActivationNotifier domain service.
package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"passport/config"
	"passport/internal/domain/service"
	"passport/internal/errors"
)

const (
	providerSMTP = "smtp"
	providerLog  = "log"
)

// Params holds dependencies for the activation notifier, injected by Fx
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewActivationNotifier creates an ActivationNotifier based on configuration.
// Without a configured provider, activation links are only logged; that keeps
// development environments working without an SMTP relay.
func NewActivationNotifier(params Params) (service.ActivationNotifier, error) {
	cfg := params.Config.Mailer
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" {
		logger.Info("Mailer not configured, using log notifier")

		return newLogMailer(logger), nil
	}

	switch cfg.Provider {
	case providerLog:
		logger.Info("Using log notifier for activation emails")

		return newLogMailer(logger), nil

	case providerSMTP:
		if cfg.SMTP == nil || cfg.SMTP.Host == "" {
			return nil, errors.New("smtp host is required for smtp provider")
		}
		if cfg.SMTP.From == "" {
			return nil, errors.New("smtp from address is required for smtp provider")
		}
		logger.Info("Using SMTP notifier for activation emails",
			slog.String("host", cfg.SMTP.Host),
			slog.Int("port", cfg.SMTP.Port),
		)

		return newSMTPMailer(cfg.SMTP, logger), nil

	default:
		return nil, errors.Errorf("unknown mailer provider: %s", cfg.Provider)
	}
}

// Module provides the mailer FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewActivationNotifier),
)
