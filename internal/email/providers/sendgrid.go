package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	emailtypes "github.com/shelfwise/shelfwise-backend/pkg/email"
)

// sendgridProvider implements the Provider interface for SendGrid
type sendgridProvider struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// init registers the SendGrid provider
func init() {
	Register(emailtypes.ProviderSendGrid, func() Provider {
		return &sendgridProvider{}
	})
}

// Initialize sets up the SendGrid client
func (p *sendgridProvider) Initialize(cfg *emailtypes.Config) error {
	if err := p.ValidateConfig(cfg); err != nil {
		return err
	}

	p.client = sendgrid.NewSendClient(cfg.APIKey)
	p.fromEmail = cfg.FromEmail
	p.fromName = cfg.FromName

	debug.Info("initialized sendgrid client with from: %s <%s>", p.fromName, p.fromEmail)
	return nil
}

// ValidateConfig validates the SendGrid configuration
func (p *sendgridProvider) ValidateConfig(cfg *emailtypes.Config) error {
	if cfg.APIKey == "" {
		debug.Error("sendgrid API key not provided")
		return ErrProviderNotConfigured
	}
	if cfg.FromEmail == "" {
		debug.Error("sendgrid from_email not provided")
		return errors.New("sendgrid from_email is required")
	}
	return nil
}

// Send sends an email using SendGrid
func (p *sendgridProvider) Send(ctx context.Context, msg *emailtypes.Message) error {
	if p.client == nil {
		debug.Error("sendgrid client not initialized")
		return ErrProviderNotConfigured
	}

	from := mail.NewEmail(p.fromName, p.fromEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = msg.Subject

	personalization := mail.NewPersonalization()
	for _, to := range msg.To {
		personalization.AddTos(mail.NewEmail("", to))
	}
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", msg.TextBody))
	if msg.HTMLBody != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTMLBody))
	}

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		debug.Error("failed to send email: %v", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		debug.Error("sendgrid API error: %d - %s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid API error: %d - %s", response.StatusCode, response.Body)
	}

	debug.Info("successfully sent email with status code: %d", response.StatusCode)
	return nil
}
