package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/middleware"
	"github.com/squadhub/backend/internal/services"
)

type GroupHandler struct {
	groupService  *services.GroupService
	memberService *services.MembershipService
}

func NewGroupHandler(groupService *services.GroupService, memberService *services.MembershipService) *GroupHandler {
	return &GroupHandler{groupService: groupService, memberService: memberService}
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	group, err := h.groupService.Create(&req)
	if err != nil {
		return groupError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.GroupResponse{
		Message: "Group created successfully!",
		Group:   *group,
	})
}

func (h *GroupHandler) List(c *fiber.Ctx) error {
	groups, err := h.groupService.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list groups",
		})
	}

	return c.JSON(dto.GroupListResponse{Success: true, Data: groups})
}

func (h *GroupHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid group id",
		})
	}

	var req dto.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	group, err := h.groupService.Update(id, &req)
	if err != nil {
		return groupError(c, err)
	}

	return c.JSON(dto.GroupResponse{
		Message: "Group updated successfully!",
		Group:   *group,
	})
}

func (h *GroupHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid group id",
		})
	}

	var req dto.GroupStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.groupService.SetStatus(id, req.Status); err != nil {
		return groupError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Group status updated to " + req.Status,
		"status":  req.Status,
	})
}

func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid group id",
		})
	}

	if err := h.groupService.Delete(id); err != nil {
		return groupError(c, err)
	}

	actor, _ := middleware.UserID(c)
	slog.Info("group deleted", "group_id", id.String(), "user_id", actor.String())

	return c.JSON(dto.MessageResponse{Message: "Group deleted successfully!"})
}

// UpdateTask changes one member's task text or status inside a group.
func (h *GroupHandler) UpdateTask(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid group id",
		})
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.memberService.UpdateTask(groupID, userID, req.Task, req.TaskStatus); err != nil {
		if errors.Is(err, services.ErrMembershipNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update task",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Task updated successfully"})
}

func (h *GroupHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.groupService.Analytics()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load analytics",
		})
	}

	return c.JSON(dto.AnalyticsResponse{Success: true, Data: *analytics})
}

func groupError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: ve.Error(),
		})
	case errors.Is(err, services.ErrNoEmployees), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrGroupNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
