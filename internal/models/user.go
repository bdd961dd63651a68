package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles assignable to a User.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User is an account in the system: the seeded admin or an employee
// created by the admin (directly or via bulk import).
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Role        string    `gorm:"size:20;not null;default:'employee'" json:"role"`
	Phone       string    `gorm:"size:30" json:"phone,omitempty"`
	Designation string    `gorm:"size:100" json:"designation,omitempty"`
	Gender      string    `gorm:"size:10" json:"gender,omitempty"`
	// EmployeeNo is the human-facing employee number (e.g. "EMP042").
	// Unique when present; bulk import rows reference users by it.
	EmployeeNo   *string   `gorm:"size:50;uniqueIndex" json:"employee_no,omitempty"`
	ProfileImage string    `gorm:"size:255" json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
