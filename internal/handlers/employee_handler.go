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

type EmployeeHandler struct {
	authService *services.AuthService
}

func NewEmployeeHandler(authService *services.AuthService) *EmployeeHandler {
	return &EmployeeHandler{authService: authService}
}

func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	// Image part is optional.
	image, err := c.FormFile("profile_image")
	if err != nil {
		image = nil
	}

	user, err := h.authService.CreateEmployee(&req, image)
	if err != nil {
		return employeeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.EmployeeResponse{
		Message: "Employee created successfully",
		User:    *user,
	})
}

func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	users, err := h.authService.SearchEmployees(c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list employees",
		})
	}

	return c.JSON(dto.EmployeeListResponse{Success: true, Data: users})
}

func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid employee id",
		})
	}

	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	image, err := c.FormFile("profile_image")
	if err != nil {
		image = nil
	}

	user, err := h.authService.UpdateEmployee(id, &req, image)
	if err != nil {
		return employeeError(c, err)
	}

	return c.JSON(dto.EmployeeResponse{
		Message: "Employee updated successfully",
		User:    *user,
	})
}

func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid employee id",
		})
	}

	if err := h.authService.DeleteEmployee(id); err != nil {
		return employeeError(c, err)
	}

	actor, _ := middleware.UserID(c)
	slog.Info("employee deleted", "employee_id", id.String(), "user_id", actor.String())

	return c.JSON(dto.MessageResponse{Message: "Employee deleted successfully"})
}

func employeeError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: ve.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrEmployeeNoTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
