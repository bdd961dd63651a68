package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/services"
)

type ImportHandler struct {
	importService *services.ImportService
}

func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportGroups ingests group-oriented row records (the SPA parses the CSV
// client-side and posts the rows as JSON).
func (h *ImportHandler) ImportGroups(c *fiber.Ctx) error {
	var req dto.GroupImportRequest
	if err := c.BodyParser(&req); err != nil || len(req.Data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "data must be a non-empty array of rows",
		})
	}

	result, err := h.importService.ImportGroupRows(req.Data)
	if err != nil {
		// The batch rolled back; surface the underlying message to the admin.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(dto.ImportResponse{
		Message:  fmt.Sprintf("Import successful! Processed %d records.", result.Imported),
		Imported: result.Imported,
		Errors:   result.Errors,
	})
}

// ImportEmployees ingests an uploaded CSV of employee rows.
func (h *ImportHandler) ImportEmployees(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "CSV file is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to open uploaded file",
		})
	}
	defer src.Close()

	rows, err := services.ParseEmployeeCSV(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	result := h.importService.ImportEmployees(rows)

	return c.JSON(dto.ImportResponse{
		Message:  fmt.Sprintf("Imported %d employees.", result.Imported),
		Imported: result.Imported,
		Errors:   result.Errors,
	})
}
