package repository

import (
	"context"

	"github.com/huddlehq/huddle-backend/internal/domain/model"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *model.OTP) error
	GetByPhone(ctx context.Context, phone string) (*model.OTP, error)
	DeleteByPhone(ctx context.Context, phone string) error
	Delete(ctx context.Context, id int64) error
	MarkUsed(ctx context.Context, id int64) error
}
