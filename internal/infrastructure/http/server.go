package http

import (
	"context"
	"fmt"
	"net/http"

	handlers "github.com/huddlehq/huddle-backend/internal/adapter/handler/http"
	"github.com/huddlehq/huddle-backend/internal/config"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	"github.com/huddlehq/huddle-backend/internal/infrastructure/database"
	"github.com/huddlehq/huddle-backend/internal/usecase"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Collaborators are the external-system adapters the usecases depend on.
type Collaborators struct {
	Blob   repository.BlobRepository
	Mail   repository.MailRepository
	SMS    repository.SMSRepository
	Events repository.EventPublisher
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
	collab Collaborators
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories, collab Collaborators) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
	}))

	return &Server{
		config: cfg,
		logger: logger,
		echo:   e,
		repos:  repos,
		collab: collab,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Usecases
	sessions := usecase.NewSessionUseCase(s.repos.Session, s.repos.User, s.logger)
	otps := usecase.NewOTPUseCase(s.repos.OTP, s.repos.User, s.collab.SMS, sessions, s.config.IsDevelopment(), s.logger)
	memberships := usecase.NewMembershipUseCase(sessions, s.repos.Organization, s.repos.OrgMember,
		s.repos.Workspace, s.repos.WorkspaceMember, s.repos.WorkspaceInvitation, s.repos.User, s.logger)
	invitations := usecase.NewInvitationUseCase(sessions, s.repos.Organization, s.repos.OrgMember,
		s.repos.OrgInvitation, s.repos.Workspace, s.repos.WorkspaceMember, s.repos.WorkspaceInvitation,
		s.repos.User, s.collab.Mail, s.config.Service.InviteURL, s.logger)
	messages := usecase.NewMessageUseCase(sessions, s.repos.Message, s.repos.Reaction, s.repos.MessageRead,
		s.repos.Workspace, s.repos.WorkspaceMember, s.repos.User, s.collab.Events, s.logger)
	files := usecase.NewFileUseCase(sessions, s.repos.File, s.collab.Blob, s.repos.Organization,
		s.repos.OrgMember, s.repos.Workspace, s.repos.WorkspaceMember, s.logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(otps, sessions, s.logger)
	orgHandler := handlers.NewOrganizationHandler(memberships, invitations, s.logger)
	workspaceHandler := handlers.NewWorkspaceHandler(memberships, invitations, s.logger)
	messageHandler := handlers.NewMessageHandler(messages, s.logger)
	fileHandler := handlers.NewFileHandler(files, s.logger)

	v1 := s.echo.Group("/api/v1")

	// Auth
	v1.POST("/auth/request-otp", authHandler.RequestOTP)
	v1.POST("/auth/verify-otp", authHandler.VerifyOTP)
	v1.POST("/auth/sign-out", authHandler.SignOut)
	v1.GET("/auth/me", authHandler.Me)
	v1.PUT("/auth/me", authHandler.UpdateMe)

	// Organizations
	orgs := v1.Group("/organizations")
	orgs.POST("", orgHandler.Create)
	orgs.GET("/:id", orgHandler.Get)
	orgs.GET("/:id/members", orgHandler.ListMembers)
	orgs.POST("/:id/members", orgHandler.AddMember)
	orgs.PUT("/:id/members/:userId/role", orgHandler.UpdateMemberRole)
	orgs.PUT("/:id/members/:userId/capabilities", orgHandler.UpdateMemberCapabilities)
	orgs.DELETE("/:id/members/:userId", orgHandler.RemoveMember)
	orgs.POST("/:id/invitations", orgHandler.CreateInvitation)
	orgs.GET("/:id/invitations", orgHandler.ListInvitations)
	orgs.DELETE("/:id/invitations/:invitationId", orgHandler.RevokeInvitation)

	// Organization invitation redemption (token addressed)
	v1.GET("/invitations/:token", orgHandler.GetInvitation)
	v1.POST("/invitations/:token/accept", orgHandler.AcceptInvitation)
	v1.POST("/invitations/:token/decline", orgHandler.DeclineInvitation)

	// Workspaces
	workspaces := v1.Group("/workspaces")
	workspaces.POST("", workspaceHandler.Create)
	workspaces.GET("/:id", workspaceHandler.Get)
	workspaces.PUT("/:id", workspaceHandler.Update)
	workspaces.POST("/:id/archive", workspaceHandler.Archive)
	workspaces.GET("/:id/members", workspaceHandler.ListMembers)
	workspaces.POST("/:id/members", workspaceHandler.AddMember)
	workspaces.PUT("/:id/members/:userId/role", workspaceHandler.UpdateMemberRole)
	workspaces.DELETE("/:id/members/:userId", workspaceHandler.RemoveMember)
	workspaces.POST("/:id/invitations", workspaceHandler.CreateInvitation)
	workspaces.POST("/:id/invitations/:invitationId/respond", workspaceHandler.RespondInvitation)
	workspaces.DELETE("/:id/invitations/:invitationId", workspaceHandler.RevokeInvitation)

	// Messages
	workspaces.POST("/:workspaceId/messages", messageHandler.Send)
	workspaces.GET("/:workspaceId/messages", messageHandler.List)
	workspaces.POST("/:workspaceId/messages/read-all", messageHandler.MarkWorkspaceRead)
	msgs := v1.Group("/messages")
	msgs.GET("/:id", messageHandler.Get)
	msgs.PUT("/:id", messageHandler.Edit)
	msgs.DELETE("/:id", messageHandler.Remove)
	msgs.POST("/:id/pin", messageHandler.Pin)
	msgs.DELETE("/:id/pin", messageHandler.Unpin)
	msgs.POST("/:id/reactions", messageHandler.AddReaction)
	msgs.DELETE("/:id/reactions", messageHandler.RemoveReaction)
	msgs.GET("/:id/reactions", messageHandler.ListReactions)
	msgs.POST("/:id/read", messageHandler.MarkRead)
	msgs.GET("/:id/reads", messageHandler.ListReads)

	// Files
	files2 := v1.Group("/files")
	files2.POST("/upload-url", fileHandler.GenerateUploadURL)
	files2.POST("", fileHandler.StoreMetadata)
	files2.GET("/:id/url", fileHandler.GetURL)
	files2.DELETE("/:id", fileHandler.Delete)
}
