package email

// ProviderType represents supported email providers
type ProviderType string

const (
	ProviderMailgun  ProviderType = "mailgun"
	ProviderSendGrid ProviderType = "sendgrid"
)

// Config represents email provider configuration, sourced from the
// environment at startup.
type Config struct {
	ProviderType ProviderType
	APIKey       string
	Domain       string // Mailgun only
	FromEmail    string
	FromName     string
}

// Message represents a single outbound email
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}
