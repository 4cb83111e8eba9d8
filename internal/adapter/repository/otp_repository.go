package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type otpRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB, logger *zap.Logger) repository.OTPRepository {
	return &otpRepository{
		db:     db,
		logger: logger,
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *model.OTP) error {
	if err := r.db.WithContext(ctx).Create(otp).Error; err != nil {
		r.logger.Error("Failed to create OTP", zap.Error(err))
		return fmt.Errorf("failed to create OTP: %w", err)
	}
	return nil
}

func (r *otpRepository) GetByPhone(ctx context.Context, phone string) (*model.OTP, error) {
	var otp model.OTP

	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get OTP by phone", zap.Error(err))
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}

	return &otp, nil
}

func (r *otpRepository) DeleteByPhone(ctx context.Context, phone string) error {
	err := r.db.WithContext(ctx).Where("phone = ?", phone).Delete(&model.OTP{}).Error
	if err != nil {
		r.logger.Error("Failed to delete OTPs for phone", zap.Error(err))
		return fmt.Errorf("failed to delete OTPs: %w", err)
	}
	return nil
}

func (r *otpRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.OTP{}).Error
	if err != nil {
		r.logger.Error("Failed to delete OTP", zap.Int64("otp_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete OTP: %w", err)
	}
	return nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&model.OTP{}).
		Where("id = ?", id).
		Update("used", true).Error
	if err != nil {
		r.logger.Error("Failed to mark OTP used", zap.Int64("otp_id", id), zap.Error(err))
		return fmt.Errorf("failed to mark OTP used: %w", err)
	}
	return nil
}
