package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
	"go.uber.org/zap"
)

type SendMessageRequest struct {
	WorkspaceID     uuid.UUID   `json:"workspace_id"`
	Text            string      `json:"text"`
	ParentMessageID *uuid.UUID  `json:"parent_message_id,omitempty"`
	AttachmentID    *uuid.UUID  `json:"attachment_id,omitempty"`
	Mentions        []uuid.UUID `json:"mentions,omitempty"`
}

type EditMessageRequest struct {
	MessageID uuid.UUID `json:"message_id"`
	Text      string    `json:"text"`
}

type ReactionRequest struct {
	MessageID uuid.UUID `json:"message_id"`
	Emoji     string    `json:"emoji"`
}

// AuthorSnapshot is the displayable author profile attached to message
// reads. It reflects the author's current profile, not a historical copy.
type AuthorSnapshot struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	AvatarURL string           `json:"avatar_url,omitempty"`
	Status    model.UserStatus `json:"status"`
}

// MessageView is a message enriched with its author snapshot.
type MessageView struct {
	model.Message
	Author *AuthorSnapshot `json:"author,omitempty"`
}

// MessageUseCase owns the message lifecycle inside a workspace: send, edit
// within the author window, soft delete, pin, reactions and read receipts.
type MessageUseCase struct {
	auth         Authenticator
	messageRepo  repository.MessageRepository
	reactionRepo repository.ReactionRepository
	readRepo     repository.MessageReadRepository
	wsRepo       repository.WorkspaceRepository
	wsMemberRepo repository.WorkspaceMemberRepository
	userRepo     repository.UserRepository
	events       repository.EventPublisher
	logger       *zap.Logger
}

func NewMessageUseCase(
	auth Authenticator,
	messageRepo repository.MessageRepository,
	reactionRepo repository.ReactionRepository,
	readRepo repository.MessageReadRepository,
	wsRepo repository.WorkspaceRepository,
	wsMemberRepo repository.WorkspaceMemberRepository,
	userRepo repository.UserRepository,
	events repository.EventPublisher,
	logger *zap.Logger,
) *MessageUseCase {
	return &MessageUseCase{
		auth:         auth,
		messageRepo:  messageRepo,
		reactionRepo: reactionRepo,
		readRepo:     readRepo,
		wsRepo:       wsRepo,
		wsMemberRepo: wsMemberRepo,
		userRepo:     userRepo,
		events:       events,
		logger:       logger,
	}
}

// requireMembership loads the workspace and verifies the caller belongs to it.
func (u *MessageUseCase) requireMembership(ctx context.Context, workspaceID, userID uuid.UUID) (*model.Workspace, *model.WorkspaceMember, error) {
	ws, err := u.wsRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, nil, err
	}
	if ws == nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrNotFound, "workspace not found", nil)
	}

	member, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, nil, err
	}
	if member == nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "not a workspace member", nil)
	}

	return ws, member, nil
}

func (u *MessageUseCase) publish(ctx context.Context, event *repository.WorkspaceEvent) {
	if err := u.events.PublishWorkspaceEvent(ctx, event); err != nil {
		u.logger.Warn("Failed to publish workspace event",
			zap.String("kind", event.Kind),
			zap.String("workspace_id", event.WorkspaceID.String()),
			zap.Error(err))
	}
}

// Send posts a message into a workspace. Replying to a parent in another
// workspace is rejected; the parent's reply counter is bumped atomically.
func (u *MessageUseCase) Send(ctx context.Context, token string, req SendMessageRequest) (*MessageView, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	ws, _, err := u.requireMembership(ctx, req.WorkspaceID, caller.ID)
	if err != nil {
		return nil, err
	}
	if ws.IsArchived {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "workspace is archived", nil)
	}

	if req.Text == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "message text is required", nil)
	}

	if req.ParentMessageID != nil {
		if !ws.AllowThreads {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "threads are disabled in this workspace", nil)
		}
		parent, err := u.messageRepo.GetByID(ctx, *req.ParentMessageID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.WorkspaceID != req.WorkspaceID {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "parent message does not belong to this workspace", nil)
		}
	}

	msgType := model.MessageTypeText
	if req.AttachmentID != nil {
		if !ws.AllowFileUploads {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "file uploads are disabled in this workspace", nil)
		}
		msgType = model.MessageTypeFile
	}

	message := &model.Message{
		ID:              uuid.New(),
		WorkspaceID:     req.WorkspaceID,
		OrganizationID:  ws.OrganizationID,
		AuthorID:        caller.ID,
		Text:            req.Text,
		Type:            msgType,
		ParentMessageID: req.ParentMessageID,
		AttachmentID:    req.AttachmentID,
		Mentions:        req.Mentions,
	}
	if err := u.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if req.ParentMessageID != nil {
		if err := u.messageRepo.IncrementThreadCount(ctx, *req.ParentMessageID); err != nil {
			return nil, err
		}
	}

	u.publish(ctx, &repository.WorkspaceEvent{
		Kind:        repository.EventMessageSent,
		WorkspaceID: req.WorkspaceID,
		MessageID:   message.ID,
		ActorID:     caller.ID,
		ParentID:    req.ParentMessageID,
	})

	return &MessageView{
		Message: *message,
		Author:  snapshotOf(caller),
	}, nil
}

// Edit rewrites the message text. Author only, within the edit window.
func (u *MessageUseCase) Edit(ctx context.Context, token string, req EditMessageRequest) (*model.Message, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	message, err := u.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		return nil, err
	}
	if message == nil || message.IsDeleted {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "message not found", nil)
	}

	if message.AuthorID != caller.ID {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "only the author may edit a message", nil)
	}
	if time.Since(message.CreatedAt) > MessageEditWindow {
		return nil, apperrors.NewAppError(apperrors.ErrExpired, "edit window has closed", nil)
	}
	if req.Text == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "message text is required", nil)
	}

	now := time.Now()
	message.Text = req.Text
	message.IsEdited = true
	message.EditedAt = &now
	if err := u.messageRepo.Update(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// Remove soft-deletes the message. Author or workspace admin. Reactions and
// receipts are retained; removing an already-deleted message is a no-op.
func (u *MessageUseCase) Remove(ctx context.Context, token string, messageID uuid.UUID) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	message, err := u.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "message not found", nil)
	}
	if message.IsDeleted {
		return nil
	}

	if message.AuthorID != caller.ID {
		_, member, err := u.requireMembership(ctx, message.WorkspaceID, caller.ID)
		if err != nil {
			return err
		}
		if !member.IsAdmin() {
			return apperrors.NewAppError(apperrors.ErrUnauthorized, "only the author or a workspace admin may delete", nil)
		}
	}

	now := time.Now()
	message.IsDeleted = true
	message.DeletedAt = &now
	message.DeletedBy = &caller.ID
	if err := u.messageRepo.Update(ctx, message); err != nil {
		return err
	}

	u.publish(ctx, &repository.WorkspaceEvent{
		Kind:        repository.EventMessageDeleted,
		WorkspaceID: message.WorkspaceID,
		MessageID:   message.ID,
		ActorID:     caller.ID,
	})

	return nil
}

// Pin marks the message pinned. Workspace admin only.
func (u *MessageUseCase) Pin(ctx context.Context, token string, messageID uuid.UUID) error {
	return u.setPinned(ctx, token, messageID, true)
}

// Unpin clears the pin flag. Workspace admin only.
func (u *MessageUseCase) Unpin(ctx context.Context, token string, messageID uuid.UUID) error {
	return u.setPinned(ctx, token, messageID, false)
}

func (u *MessageUseCase) setPinned(ctx context.Context, token string, messageID uuid.UUID, pinned bool) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	message, err := u.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message == nil || message.IsDeleted {
		return apperrors.NewAppError(apperrors.ErrNotFound, "message not found", nil)
	}

	_, member, err := u.requireMembership(ctx, message.WorkspaceID, caller.ID)
	if err != nil {
		return err
	}
	if !member.IsAdmin() {
		return apperrors.NewAppError(apperrors.ErrUnauthorized, "workspace admin required", nil)
	}

	message.IsPinned = pinned
	if err := u.messageRepo.Update(ctx, message); err != nil {
		return err
	}

	kind := repository.EventMessagePinned
	if !pinned {
		kind = repository.EventMessageUnpinned
	}
	u.publish(ctx, &repository.WorkspaceEvent{
		Kind:        kind,
		WorkspaceID: message.WorkspaceID,
		MessageID:   message.ID,
		ActorID:     caller.ID,
	})

	return nil
}

// AddReaction records a (message, user, emoji) reaction. Duplicates conflict.
func (u *MessageUseCase) AddReaction(ctx context.Context, token string, req ReactionRequest) (*model.Reaction, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if req.Emoji == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "emoji is required", nil)
	}

	message, err := u.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "message not found", nil)
	}

	if _, _, err := u.requireMembership(ctx, message.WorkspaceID, caller.ID); err != nil {
		return nil, err
	}

	existing, err := u.reactionRepo.Get(ctx, req.MessageID, caller.ID, req.Emoji)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "reaction already exists", nil)
	}

	reaction := &model.Reaction{
		MessageID: req.MessageID,
		UserID:    caller.ID,
		Emoji:     req.Emoji,
	}
	if err := u.reactionRepo.Create(ctx, reaction); err != nil {
		return nil, err
	}

	u.publish(ctx, &repository.WorkspaceEvent{
		Kind:        repository.EventReactionAdded,
		WorkspaceID: message.WorkspaceID,
		MessageID:   message.ID,
		ActorID:     caller.ID,
		Emoji:       req.Emoji,
	})

	return reaction, nil
}

// RemoveReaction deletes the caller's reaction. Absent reactions are NotFound.
func (u *MessageUseCase) RemoveReaction(ctx context.Context, token string, req ReactionRequest) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	existing, err := u.reactionRepo.Get(ctx, req.MessageID, caller.ID, req.Emoji)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "reaction not found", nil)
	}

	if err := u.reactionRepo.Delete(ctx, existing.ID); err != nil {
		return err
	}

	message, err := u.messageRepo.GetByID(ctx, req.MessageID)
	if err == nil && message != nil {
		u.publish(ctx, &repository.WorkspaceEvent{
			Kind:        repository.EventReactionRemoved,
			WorkspaceID: message.WorkspaceID,
			MessageID:   message.ID,
			ActorID:     caller.ID,
			Emoji:       req.Emoji,
		})
	}

	return nil
}

// ListReactions lists a message's reactions. Workspace members only.
func (u *MessageUseCase) ListReactions(ctx context.Context, token string, messageID uuid.UUID) ([]model.Reaction, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	message, err := u.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "message not found", nil)
	}

	if _, _, err := u.requireMembership(ctx, message.WorkspaceID, caller.ID); err != nil {
		return nil, err
	}

	return u.reactionRepo.ListByMessage(ctx, messageID)
}

// MarkRead records a read receipt for the message. Idempotent.
func (u *MessageUseCase) MarkRead(ctx context.Context, token string, messageID uuid.UUID) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	message, err := u.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "message not found", nil)
	}

	if _, _, err := u.requireMembership(ctx, message.WorkspaceID, caller.ID); err != nil {
		return err
	}

	return u.readRepo.Upsert(ctx, &model.MessageRead{
		MessageID: messageID,
		UserID:    caller.ID,
		ReadAt:    time.Now(),
	})
}

// MarkWorkspaceRead inserts receipts for every unread message in the
// workspace. Linear in the unread count.
func (u *MessageUseCase) MarkWorkspaceRead(ctx context.Context, token string, workspaceID uuid.UUID) (int, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return 0, err
	}

	if _, _, err := u.requireMembership(ctx, workspaceID, caller.ID); err != nil {
		return 0, err
	}

	ids, err := u.readRepo.ListUnreadMessageIDs(ctx, workspaceID, caller.ID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for _, id := range ids {
		if err := u.readRepo.Upsert(ctx, &model.MessageRead{
			MessageID: id,
			UserID:    caller.ID,
			ReadAt:    now,
		}); err != nil {
			return 0, err
		}
	}

	return len(ids), nil
}

// ListReads lists a message's read receipts. Workspace members only.
func (u *MessageUseCase) ListReads(ctx context.Context, token string, messageID uuid.UUID) ([]model.MessageRead, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	message, err := u.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "message not found", nil)
	}

	if _, _, err := u.requireMembership(ctx, message.WorkspaceID, caller.ID); err != nil {
		return nil, err
	}

	return u.readRepo.ListByMessage(ctx, messageID)
}

// List returns the workspace's non-deleted messages, oldest first, each
// enriched with its author's current profile snapshot.
func (u *MessageUseCase) List(ctx context.Context, token string, workspaceID uuid.UUID) ([]MessageView, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, _, err := u.requireMembership(ctx, workspaceID, caller.ID); err != nil {
		return nil, err
	}

	messages, err := u.messageRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	return u.enrich(ctx, messages)
}

// Get resolves a single message directly, soft-deleted or not. Workspace
// members only.
func (u *MessageUseCase) Get(ctx context.Context, token string, messageID uuid.UUID) (*MessageView, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	message, err := u.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "message not found", nil)
	}

	if _, _, err := u.requireMembership(ctx, message.WorkspaceID, caller.ID); err != nil {
		return nil, err
	}

	views, err := u.enrich(ctx, []model.Message{*message})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (u *MessageUseCase) enrich(ctx context.Context, messages []model.Message) ([]MessageView, error) {
	authorIDs := make([]uuid.UUID, 0, len(messages))
	seen := make(map[uuid.UUID]bool, len(messages))
	for _, m := range messages {
		if !seen[m.AuthorID] {
			seen[m.AuthorID] = true
			authorIDs = append(authorIDs, m.AuthorID)
		}
	}

	authors := make(map[uuid.UUID]*AuthorSnapshot, len(authorIDs))
	if len(authorIDs) > 0 {
		users, err := u.userRepo.GetByIDs(ctx, authorIDs)
		if err != nil {
			return nil, err
		}
		for i := range users {
			authors[users[i].ID] = snapshotOf(&users[i])
		}
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{
			Message: m,
			Author:  authors[m.AuthorID],
		})
	}
	return views, nil
}

func snapshotOf(user *model.User) *AuthorSnapshot {
	if user == nil {
		return nil
	}
	return &AuthorSnapshot{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Status:    user.Status,
	}
}
