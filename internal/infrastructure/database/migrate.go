package database

import (
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.OTP{},
		&model.Organization{},
		&model.OrganizationMember{},
		&model.OrganizationInvitation{},
		&model.Workspace{},
		&model.WorkspaceMember{},
		&model.WorkspaceInvitation{},
		&model.Message{},
		&model.Reaction{},
		&model.MessageRead{},
		&model.File{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}

// createCustomIndexes creates partial unique indexes that GORM does not
// handle through struct tags.
func createCustomIndexes(db *gorm.DB) error {
	// At most one pending invitation per (organization, email).
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_pending_org_invitation
		ON organization_invitations (organization_id, email) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	// At most one pending invitation per (workspace, user).
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_pending_workspace_invitation
		ON workspace_invitations (workspace_id, user_id) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	// Single live file per slot. Profile pictures are keyed by uploader,
	// workspace logos by workspace, organization logos by organization.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_active_profile_picture
		ON files (organization_id, uploaded_by) WHERE context = 'profile_picture' AND is_deleted = false`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_active_workspace_logo
		ON files (workspace_id) WHERE context = 'workspace_logo' AND is_deleted = false`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_active_organization_logo
		ON files (organization_id) WHERE context = 'organization_logo' AND is_deleted = false`).Error; err != nil {
		return err
	}

	// Unread lookups scan by workspace and reader.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_messages_workspace_active
		ON messages (workspace_id, created_at) WHERE is_deleted = false`).Error; err != nil {
		return err
	}

	return nil
}
