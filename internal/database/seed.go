package database

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/config"
	"github.com/squadhub/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin upserts the bootstrap admin account so a fresh deployment has
// a login. Keyed by email; an existing account is left untouched.
func SeedAdmin(cfg *config.Config) error {
	var existing models.User
	if err := DB.Where("email = ?", cfg.AdminEmail).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	employeeNo := "ADM001"
	admin := models.User{
		ID:         uuid.New(),
		Name:       "Admin",
		Email:      cfg.AdminEmail,
		Password:   string(hash),
		Role:       models.RoleAdmin,
		Phone:      "0000000000",
		EmployeeNo: &employeeNo,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	slog.Info("bootstrap admin seeded", "email", cfg.AdminEmail)
	return nil
}
