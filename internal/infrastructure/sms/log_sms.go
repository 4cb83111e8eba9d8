package sms

import (
	"context"

	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	"go.uber.org/zap"
)

type logSMSClient struct {
	logger *zap.Logger
}

// NewLogSMSClient creates an SMS client that writes codes to the log
// instead of dispatching them. Used in development environments where no
// SMS gateway is configured.
func NewLogSMSClient(logger *zap.Logger) repository.SMSRepository {
	return &logSMSClient{
		logger: logger,
	}
}

func (c *logSMSClient) SendCode(ctx context.Context, phone, code string) error {
	c.logger.Info("SMS verification code (dev mode, not sent)",
		zap.String("phone", phone),
		zap.String("code", code))
	return nil
}
