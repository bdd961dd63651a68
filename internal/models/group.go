package models

import (
	"time"

	"github.com/google/uuid"
)

// Group statuses.
const (
	GroupStatusActive   = "active"
	GroupStatusInactive = "inactive"
)

// Group is a squad: a named team/project container owning zero or more
// membership rows. Group names are not required to be unique; the bulk
// importer upserts by name as a convenience.
type Group struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"size:255;not null;index" json:"name"`
	ProjectName string       `gorm:"size:255" json:"project_name,omitempty"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	Status      string       `gorm:"size:20;not null;default:'active'" json:"status"`
	Memberships []Membership `gorm:"foreignKey:GroupID" json:"memberships,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
