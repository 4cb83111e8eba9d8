package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// SMTPConfig holds the SMTP server settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPClient sends email through an SMTP server
type SMTPClient struct {
	config SMTPConfig
	logger *zap.Logger
}

// NewSMTPClient creates a new SMTP client
func NewSMTPClient(cfg SMTPConfig, logger *zap.Logger) *SMTPClient {
	return &SMTPClient{
		config: cfg,
		logger: logger,
	}
}

// SendMail sends an HTML email
func (m *SMTPClient) SendMail(ctx context.Context, to, subject, body string) error {
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	headers := make(map[string]string)
	headers["From"] = m.config.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=\"utf-8\""

	var message string
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(message))
	if err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	return nil
}
