package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/config"
	"github.com/squadhub/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database. A unique shared-cache
// name keeps gorm's pooled connections pointed at the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Membership{},
		&models.RefreshToken{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:             "test-secret",
		JWTAccessExpiry:       time.Hour,
		JWTRefreshExpiry:      24 * time.Hour,
		ImportDefaultPassword: "changeme123",
	}
}

func createUser(t *testing.T, db *gorm.DB, name, email, employeeNo string) models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: "x",
		Role:     models.RoleEmployee,
	}
	if employeeNo != "" {
		no := employeeNo
		user.EmployeeNo = &no
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createGroup(t *testing.T, db *gorm.DB, name string) models.Group {
	t.Helper()

	group := models.Group{
		ID:     uuid.New(),
		Name:   name,
		Status: models.GroupStatusActive,
	}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("failed to create group %s: %v", name, err)
	}
	return group
}

func memberIDs(rows []models.Membership) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(rows))
	for _, m := range rows {
		ids[m.UserID] = true
	}
	return ids
}
