package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileContext is the upload category a file belongs to. It determines the
// validation rules and the derived access level.
type FileContext string

const (
	FileContextProfilePicture FileContext = "profile_picture"
	FileContextWorkspaceLogo  FileContext = "workspace_logo"
	FileContextOrgLogo        FileContext = "organization_logo"
	FileContextChatAttachment FileContext = "chat_attachment"
	FileContextDocument       FileContext = "document"
)

// IsSingleSlot reports whether only one active file may exist per owning
// scope for this context (replace-on-upload semantics).
func (c FileContext) IsSingleSlot() bool {
	switch c {
	case FileContextProfilePicture, FileContextWorkspaceLogo, FileContextOrgLogo:
		return true
	}
	return false
}

// IsValid reports whether the context is one of the known categories.
func (c FileContext) IsValid() bool {
	switch c {
	case FileContextProfilePicture, FileContextWorkspaceLogo, FileContextOrgLogo,
		FileContextChatAttachment, FileContextDocument:
		return true
	}
	return false
}

// FileAccessLevel scopes who may fetch a file URL.
type FileAccessLevel string

const (
	FileAccessOrganization FileAccessLevel = "organization"
	FileAccessWorkspace    FileAccessLevel = "workspace"
	FileAccessPrivate      FileAccessLevel = "private"
)

// MaxFileSize returns the per-context upload size cap in bytes.
func MaxFileSize(c FileContext) int64 {
	switch c {
	case FileContextProfilePicture, FileContextWorkspaceLogo, FileContextOrgLogo:
		return 5 << 20 // 5 MiB
	case FileContextDocument:
		return 50 << 20 // 50 MiB
	default:
		return 100 << 20 // 100 MiB, chat attachments
	}
}

// AllowedFileTypes returns the per-context content-type allow-list. An
// empty list means any type is accepted.
func AllowedFileTypes(c FileContext) []string {
	switch c {
	case FileContextProfilePicture, FileContextWorkspaceLogo, FileContextOrgLogo:
		return []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	case FileContextDocument:
		return []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"text/plain",
			"text/csv",
		}
	default:
		return nil
	}
}

// FileCategory derives a coarse category from a content type.
func FileCategory(fileType string) string {
	switch {
	case strings.HasPrefix(fileType, "image/"):
		return "image"
	case strings.HasPrefix(fileType, "video/"):
		return "video"
	case strings.HasPrefix(fileType, "audio/"):
		return "audio"
	case fileType == "application/pdf", strings.HasPrefix(fileType, "text/"),
		strings.Contains(fileType, "document"), strings.Contains(fileType, "sheet"),
		strings.Contains(fileType, "msword"), strings.Contains(fileType, "ms-excel"):
		return "document"
	default:
		return "other"
	}
}

// File is the metadata row for an uploaded blob. The blob itself lives in
// the external store under StorageID; deleting a file soft-deletes this row
// but hard-deletes the blob.
type File struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StorageID      string          `gorm:"not null;size:255;index" json:"storage_id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	WorkspaceID    *uuid.UUID      `gorm:"type:uuid;index" json:"workspace_id,omitempty"`
	Context        FileContext     `gorm:"type:varchar(30);not null" json:"context"`
	FileName       string          `gorm:"not null;size:255" json:"file_name"`
	FileType       string          `gorm:"not null;size:100" json:"file_type"`
	FileSize       int64           `gorm:"not null" json:"file_size"`
	Category       string          `gorm:"not null;size:20" json:"category"`
	AccessLevel    FileAccessLevel `gorm:"type:varchar(20);not null" json:"access_level"`
	UploadedBy     uuid.UUID       `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	MessageID      *uuid.UUID      `gorm:"type:uuid" json:"message_id,omitempty"`
	IsDeleted      bool            `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt      time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (File) TableName() string {
	return "files"
}
