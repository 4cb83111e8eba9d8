package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
	"go.uber.org/zap"
)

var phonePattern = regexp.MustCompile(`^\+[0-9]{7,15}$`)

// VerifyResult is returned on successful OTP verification.
type VerifyResult struct {
	User         *model.User `json:"user"`
	SessionToken string      `json:"session_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// OTPUseCase issues and checks one-time phone verification codes and
// bootstraps user identities on first verification.
type OTPUseCase struct {
	otpRepo     repository.OTPRepository
	userRepo    repository.UserRepository
	smsRepo     repository.SMSRepository
	sessions    *SessionUseCase
	development bool
	logger      *zap.Logger
}

func NewOTPUseCase(
	otpRepo repository.OTPRepository,
	userRepo repository.UserRepository,
	smsRepo repository.SMSRepository,
	sessions *SessionUseCase,
	development bool,
	logger *zap.Logger,
) *OTPUseCase {
	return &OTPUseCase{
		otpRepo:     otpRepo,
		userRepo:    userRepo,
		smsRepo:     smsRepo,
		sessions:    sessions,
		development: development,
		logger:      logger,
	}
}

// Request issues a fresh code for the phone, replacing any live one. The
// code travels through the SMS collaborator; in development mode it is also
// returned to the caller so local clients can complete the flow without a
// gateway.
func (u *OTPUseCase) Request(ctx context.Context, phone string) (string, error) {
	if !phonePattern.MatchString(phone) {
		return "", apperrors.NewAppError(apperrors.ErrInvalidArgument, "phone must be in E.164 format", nil)
	}

	if err := u.otpRepo.DeleteByPhone(ctx, phone); err != nil {
		return "", fmt.Errorf("failed to delete prior codes: %w", err)
	}

	code, err := newOTPCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	otp := &model.OTP{
		Phone:     phone,
		Code:      code,
		ExpiresAt: time.Now().Add(OTPTTL),
	}
	if err := u.otpRepo.Create(ctx, otp); err != nil {
		return "", err
	}

	if err := u.smsRepo.SendCode(ctx, phone, code); err != nil {
		return "", fmt.Errorf("failed to deliver verification code: %w", err)
	}

	if u.development {
		return code, nil
	}
	return "", nil
}

// Verify consumes the code and signs the user in, creating the user row on
// first sight.
func (u *OTPUseCase) Verify(ctx context.Context, phone, code string) (*VerifyResult, error) {
	otp, err := u.otpRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "no verification code requested for this phone", nil)
	}

	if otp.IsExpired(time.Now()) {
		if err := u.otpRepo.Delete(ctx, otp.ID); err != nil {
			u.logger.Warn("Failed to delete expired code", zap.String("phone", phone), zap.Error(err))
		}
		return nil, apperrors.NewAppError(apperrors.ErrExpired, "verification code expired", nil)
	}

	if otp.Used {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "verification code already used", nil)
	}

	if otp.Code != code {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "verification code mismatch", nil)
	}

	if err := u.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &model.User{
			ID:     uuid.New(),
			Phone:  phone,
			Status: model.UserStatusOnline,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		u.logger.Info("Created user on first verification", zap.String("user_id", user.ID.String()))
	} else {
		if err := u.userRepo.UpdateStatus(ctx, user.ID, model.UserStatusOnline); err != nil {
			u.logger.Warn("Failed to mark user online", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		user.Status = model.UserStatusOnline
	}

	session, err := u.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		User:         user,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}
