package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	emailtypes "github.com/shelfwise/shelfwise-backend/pkg/email"
)

// mailgunProvider implements the Provider interface for Mailgun
type mailgunProvider struct {
	mg        *mailgun.MailgunImpl
	domain    string
	fromName  string
	fromEmail string
}

// init registers the Mailgun provider
func init() {
	Register(emailtypes.ProviderMailgun, func() Provider {
		return &mailgunProvider{}
	})
}

// Initialize sets up the Mailgun client
func (p *mailgunProvider) Initialize(cfg *emailtypes.Config) error {
	if err := p.ValidateConfig(cfg); err != nil {
		return err
	}

	p.mg = mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	p.domain = cfg.Domain
	p.fromName = cfg.FromName
	p.fromEmail = cfg.FromEmail
	debug.Info("initialized mailgun client for domain: %s with sender: %s <%s>", cfg.Domain, cfg.FromName, cfg.FromEmail)
	return nil
}

// ValidateConfig validates the Mailgun configuration
func (p *mailgunProvider) ValidateConfig(cfg *emailtypes.Config) error {
	if cfg.APIKey == "" {
		debug.Error("mailgun API key not provided")
		return ErrProviderNotConfigured
	}
	if cfg.Domain == "" {
		debug.Error("mailgun domain not provided")
		return errors.New("mailgun domain is required")
	}
	if cfg.FromEmail == "" {
		debug.Error("mailgun from_email not provided")
		return errors.New("mailgun from_email is required")
	}
	return nil
}

// Send sends an email using Mailgun
func (p *mailgunProvider) Send(ctx context.Context, msg *emailtypes.Message) error {
	if p.mg == nil {
		debug.Error("mailgun client not initialized")
		return ErrProviderNotConfigured
	}

	from := fmt.Sprintf("%s <%s>", p.fromName, p.fromEmail)
	message := p.mg.NewMessage(
		from,
		msg.Subject,
		msg.TextBody,
		msg.To...,
	)

	if msg.HTMLBody != "" {
		message.SetHtml(msg.HTMLBody)
	}

	debug.Info("sending email from %s to %v", from, msg.To)

	_, id, err := p.mg.Send(ctx, message)
	if err != nil {
		debug.Error("failed to send email: %v", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	debug.Info("successfully sent email with ID: %s", id)
	return nil
}
