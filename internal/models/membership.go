package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTaskStatus is the task state a membership starts in.
const DefaultTaskStatus = "pending"

// Membership assigns one User to one Group and carries the per-pair task
// text and status. Modeled as an explicit pivot struct (composite primary
// key) so attach/sync/detach are ordinary row operations rather than ORM
// association magic.
type Membership struct {
	GroupID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Task       *string   `gorm:"size:255" json:"task"`
	TaskStatus string    `gorm:"size:50;not null;default:'pending'" json:"task_status"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Membership) TableName() string {
	return "group_user"
}
