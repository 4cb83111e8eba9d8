package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token into the calling user. Every other
// usecase runs its token through this before touching any state.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// SessionUseCase owns the bearer-session lifecycle. A user holds at most
// one active session; issuing a new one purges the old rows.
type SessionUseCase struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

func NewSessionUseCase(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Issue creates a fresh session for the user, invalidating any prior one.
func (u *SessionUseCase) Issue(ctx context.Context, userID uuid.UUID) (*model.Session, error) {
	if err := u.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to purge prior sessions: %w", err)
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Resolve maps a token to its user. It fails closed: an empty, unknown or
// expired token yields (nil, nil), never an error. Expired rows are deleted
// on sight.
func (u *SessionUseCase) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := u.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if session.IsExpired(time.Now()) {
		if err := u.sessionRepo.DeleteByToken(ctx, token); err != nil {
			u.logger.Warn("Failed to delete expired session", zap.Error(err))
		}
		return nil, nil
	}

	return u.userRepo.GetByID(ctx, session.UserID)
}

// Authenticate resolves the token and turns a failed resolution into an
// UNAUTHENTICATED error for callers that require an identity.
func (u *SessionUseCase) Authenticate(ctx context.Context, token string) (*model.User, error) {
	user, err := u.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", nil)
	}
	return user, nil
}

type UpdateProfileRequest struct {
	Name      *string           `json:"name,omitempty"`
	Email     *string           `json:"email,omitempty"`
	AvatarURL *string           `json:"avatar_url,omitempty"`
	Status    *model.UserStatus `json:"status,omitempty"`
}

// UpdateProfile completes or edits the caller's profile. Nil fields are
// left untouched. Organization invitations are addressed by email, so a
// user must set one here before accepting any.
func (u *SessionUseCase) UpdateProfile(ctx context.Context, token string, req UpdateProfileRequest) (*model.User, error) {
	caller, err := u.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		caller.Name = strings.TrimSpace(*req.Name)
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailPattern.MatchString(email) {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid email address", nil)
		}
		if email != caller.Email {
			other, err := u.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != caller.ID {
				return nil, apperrors.NewAppError(apperrors.ErrConflict, "email already belongs to another user", nil)
			}
		}
		caller.Email = email
	}

	if req.AvatarURL != nil {
		caller.AvatarURL = *req.AvatarURL
	}

	if req.Status != nil {
		switch *req.Status {
		case model.UserStatusOnline, model.UserStatusOffline, model.UserStatusAway, model.UserStatusInMeeting:
		default:
			return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "unknown presence status", nil)
		}
		caller.Status = *req.Status
	}

	if err := u.userRepo.Update(ctx, caller); err != nil {
		return nil, err
	}

	u.logger.Info("User profile updated", zap.String("user_id", caller.ID.String()))

	return caller, nil
}

// Revoke signs the session out and marks the user offline. Revoking an
// unknown token is a no-op.
func (u *SessionUseCase) Revoke(ctx context.Context, token string) error {
	session, err := u.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := u.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return err
	}

	if err := u.userRepo.UpdateStatus(ctx, session.UserID, model.UserStatusOffline); err != nil {
		u.logger.Warn("Failed to mark user offline on sign-out",
			zap.String("user_id", session.UserID.String()),
			zap.Error(err))
	}

	return nil
}

// SweepExpired deletes all expired session rows. Optional hygiene; resolve
// already treats expired rows as absent.
func (u *SessionUseCase) SweepExpired(ctx context.Context) (int64, error) {
	deleted, err := u.sessionRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		u.logger.Info("Swept expired sessions", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}
