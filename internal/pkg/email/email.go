package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"
)

// Message is a single outgoing email
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers email messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures a Sender
type Config struct {
	// Provider is one of smtp, sendgrid or log
	Provider       string
	FromEmail      string
	FromName       string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SendGridAPIKey string
}

// NewSender builds the Sender for config.Provider
func NewSender(config Config, logger zerolog.Logger) (Sender, error) {
	switch config.Provider {
	case "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:      config.SMTPHost,
			Port:      config.SMTPPort,
			Username:  config.SMTPUser,
			Password:  config.SMTPPassword,
			FromName:  config.FromName,
			FromEmail: config.FromEmail,
			UseTLS:    config.SMTPPort == 465,
		}, logger), nil
	case "sendgrid":
		return NewSendGridSender(config.SendGridAPIKey, config.FromName, config.FromEmail, logger), nil
	case "log", "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", config.Provider)
	}
}

// PasswordResetMessage builds the reset email pointing at resetURL
func PasswordResetMessage(toEmail, toName, resetURL string) Message {
	name := toName
	if strings.TrimSpace(name) == "" {
		name = "there"
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Reset your password</h2>
				<p>Hello %s,</p>
				<p>We received a request to reset the password of your Placement Portal account. Click the button below to choose a new one:</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>

				<p>This link expires in 30 minutes.</p>

				<p>If you did not request a password reset, you can ignore this email.</p>

				<p>Best regards,<br>The Placement Portal Team</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(name), html.EscapeString(resetURL))

	text := fmt.Sprintf("Hello %s,\n\nReset your Placement Portal password here: %s\n\nThis link expires in 30 minutes. If you did not request it, ignore this email.\n", name, resetURL)

	return Message{
		To:      toEmail,
		ToName:  toName,
		Subject: "Reset your password",
		HTML:    body,
		Text:    text,
	}
}
