package database

import (
	"github.com/huddlehq/huddle-backend/internal/adapter/repository"
	domainRepo "github.com/huddlehq/huddle-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User                domainRepo.UserRepository
	Session             domainRepo.SessionRepository
	OTP                 domainRepo.OTPRepository
	Organization        domainRepo.OrganizationRepository
	OrgMember           domainRepo.OrgMemberRepository
	OrgInvitation       domainRepo.OrgInvitationRepository
	Workspace           domainRepo.WorkspaceRepository
	WorkspaceMember     domainRepo.WorkspaceMemberRepository
	WorkspaceInvitation domainRepo.WorkspaceInvitationRepository
	Message             domainRepo.MessageRepository
	Reaction            domainRepo.ReactionRepository
	MessageRead         domainRepo.MessageReadRepository
	File                domainRepo.FileRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		User:                repository.NewUserRepository(db, logger),
		Session:             repository.NewSessionRepository(db, logger),
		OTP:                 repository.NewOTPRepository(db, logger),
		Organization:        repository.NewOrganizationRepository(db, logger),
		OrgMember:           repository.NewOrgMemberRepository(db, logger),
		OrgInvitation:       repository.NewOrgInvitationRepository(db, logger),
		Workspace:           repository.NewWorkspaceRepository(db, logger),
		WorkspaceMember:     repository.NewWorkspaceMemberRepository(db, logger),
		WorkspaceInvitation: repository.NewWorkspaceInvitationRepository(db, logger),
		Message:             repository.NewMessageRepository(db, logger),
		Reaction:            repository.NewReactionRepository(db, logger),
		MessageRead:         repository.NewMessageReadRepository(db, logger),
		File:                repository.NewFileRepository(db, logger),
	}
}
