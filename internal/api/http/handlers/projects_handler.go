package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-hub/internal/api/dto"
	"github.com/spec-kit/project-hub/internal/auth"
	"github.com/spec-kit/project-hub/internal/service"
	apperrors "github.com/spec-kit/project-hub/pkg/util"
)

// ProjectsHandler exposes the invitation endpoints.
type ProjectsHandler struct {
	invitations *service.InvitationService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(invitations *service.InvitationService) *ProjectsHandler {
	return &ProjectsHandler{invitations: invitations}
}

// Invite handles POST /api/projects/invite.
func (h *ProjectsHandler) Invite(c *fiber.Ctx) error {
	var req dto.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.invitations.Invite(c.UserContext(), req.Email, req.ProjectID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "user invited to the project successfully"})
}

// AcceptInvitation handles GET /api/projects/accept_invitation?token=.
func (h *ProjectsHandler) AcceptInvitation(c *fiber.Ctx) error {
	tokenValue := c.Query("token")
	if tokenValue == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	projectID, err := h.invitations.Accept(c.UserContext(), tokenValue, principal.SubjectID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{
			"project_id": projectID,
			"user_id":    principal.SubjectID,
		},
	})
}
