package email

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shelfwise/shelfwise-backend/internal/email/providers"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	emailtypes "github.com/shelfwise/shelfwise-backend/pkg/email"
)

// Service sends library notification emails through the configured provider.
// When no provider is configured the service is disabled and sends become
// no-ops, so email is an optional capability rather than a boot requirement.
type Service struct {
	provider providers.Provider
	enabled  bool
}

// NewServiceFromEnv builds the email service from environment configuration.
//
// EMAIL_PROVIDER selects the provider ("mailgun" or "sendgrid"); when unset
// the service is disabled. Provider settings come from EMAIL_API_KEY,
// EMAIL_DOMAIN (Mailgun), EMAIL_FROM_ADDRESS and EMAIL_FROM_NAME.
func NewServiceFromEnv() (*Service, error) {
	providerType := emailtypes.ProviderType(os.Getenv("EMAIL_PROVIDER"))
	if providerType == "" {
		debug.Info("EMAIL_PROVIDER not set, email notifications disabled")
		return &Service{enabled: false}, nil
	}

	cfg := &emailtypes.Config{
		ProviderType: providerType,
		APIKey:       os.Getenv("EMAIL_API_KEY"),
		Domain:       os.Getenv("EMAIL_DOMAIN"),
		FromEmail:    os.Getenv("EMAIL_FROM_ADDRESS"),
		FromName:     os.Getenv("EMAIL_FROM_NAME"),
	}
	if cfg.FromName == "" {
		cfg.FromName = "Shelfwise Library"
	}

	provider, err := providers.New(providerType)
	if err != nil {
		return nil, fmt.Errorf("failed to create email provider: %w", err)
	}

	if err := provider.Initialize(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize email provider: %w", err)
	}

	debug.Info("email service initialized with provider: %s", providerType)
	return &Service{provider: provider, enabled: true}, nil
}

// Enabled reports whether a provider is configured
func (s *Service) Enabled() bool {
	return s.enabled
}

// SendOverdueNotice emails a borrower that a loan is past its due date
func (s *Service) SendOverdueNotice(ctx context.Context, to, firstName, bookTitle string, dueDate time.Time) error {
	if !s.enabled {
		debug.Debug("email service disabled, skipping overdue notice to %s", to)
		return nil
	}

	msg := &emailtypes.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Overdue book: %s", bookTitle),
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nThe book %q was due back on %s. Please return it at your earliest convenience.\n\nShelfwise Library",
			firstName, bookTitle, dueDate.Format("January 2, 2006")),
		HTMLBody: fmt.Sprintf(
			"<p>Hello %s,</p><p>The book <strong>%s</strong> was due back on %s. Please return it at your earliest convenience.</p><p>Shelfwise Library</p>",
			firstName, bookTitle, dueDate.Format("January 2, 2006")),
	}

	return s.provider.Send(ctx, msg)
}
