package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the
// given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// VerificationEmailData holds data for the verification-link email. VerifyURL
// is the simulated link the recipient follows to confirm the email.
type VerificationEmailData struct {
	Email     string
	Code      string
	VerifyURL string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendVerificationLink(ctx context.Context, data *VerificationEmailData) error
}
