package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/models"
	"gorm.io/gorm"
)

// RoleRequired is the second gate of the access guard: the authenticated
// identity must carry the required role. The role claim is confirmed
// against the database so a stale token loses access when the account's
// role changes.
func RoleRequired(db *gorm.DB, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthenticated",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthenticated",
			})
		}

		claimed, _ := claims["role"].(string)
		if claimed == role {
			if sub, _ := claims["sub"].(string); sub != "" {
				var user models.User
				if err := db.Select("role").First(&user, "id = ?", sub).Error; err == nil && user.Role == role {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
}
