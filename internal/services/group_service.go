package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/models"
	"gorm.io/gorm"
)

// GroupService owns the squad entities and drives the membership ledger
// for member selection on create/update.
type GroupService struct {
	db      *gorm.DB
	members *MembershipService
}

func NewGroupService(db *gorm.DB, members *MembershipService) *GroupService {
	return &GroupService{db: db, members: members}
}

// Create makes a new group and attaches the selected employees with the
// default task. A group must be created with at least one member.
func (s *GroupService) Create(req *dto.CreateGroupRequest) (*models.Group, error) {
	if req.GroupName == "" {
		return nil, &ValidationError{Fields: map[string]string{"group_name": "group name is required"}}
	}
	if len(req.SelectedEmployees) == 0 {
		return nil, ErrNoEmployees
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"start_date": "invalid date"}}
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"deadline": "invalid date"}}
	}

	group := models.Group{
		ID:          uuid.New(),
		Name:        req.GroupName,
		ProjectName: req.ProjectName,
		StartDate:   startDate,
		Deadline:    deadline,
		Status:      models.GroupStatusActive,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		return attach(tx, group.ID, req.SelectedEmployees, DefaultAssignTask)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(group.ID)
}

// Get loads one group with its memberships.
func (s *GroupService) Get(id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := s.db.Preload("Memberships.User").First(&group, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	return &group, nil
}

// Update partially updates the group; unspecified fields keep their prior
// values. When a member selection is supplied it is synced, preserving
// task state of surviving pairs.
func (s *GroupService) Update(id uuid.UUID, req *dto.UpdateGroupRequest) (*models.Group, error) {
	var group models.Group
	err := s.db.First(&group, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	updates := map[string]interface{}{}
	if req.GroupName != nil {
		if *req.GroupName == "" {
			return nil, &ValidationError{Fields: map[string]string{"group_name": "group name is required"}}
		}
		updates["name"] = *req.GroupName
	}
	if req.ProjectName != nil {
		updates["project_name"] = *req.ProjectName
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"start_date": "invalid date"}}
		}
		updates["start_date"] = d
	}
	if req.Deadline != nil {
		d, err := parseDate(*req.Deadline)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"deadline": "invalid date"}}
		}
		updates["deadline"] = d
	}

	if req.SelectedEmployees != nil && len(req.SelectedEmployees) == 0 {
		return nil, ErrNoEmployees
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&group).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update group: %w", err)
			}
		}
		if req.SelectedEmployees != nil {
			return sync(tx, id, req.SelectedEmployees)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// SetStatus toggles a group between active and inactive.
func (s *GroupService) SetStatus(id uuid.UUID, status string) error {
	if status != models.GroupStatusActive && status != models.GroupStatusInactive {
		return ErrInvalidStatus
	}

	result := s.db.Model(&models.Group{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// Delete removes the group and all its membership rows. Users are never
// deleted by a group deletion.
func (s *GroupService) Delete(id uuid.UUID) error {
	var group models.Group
	err := s.db.First(&group, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGroupNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load group: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := detachAll(tx, id); err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
}

// ListAll returns groups newest-first with memberships and member public
// fields preloaded.
func (s *GroupService) ListAll() ([]models.Group, error) {
	var groups []models.Group
	err := s.db.Preload("Memberships.User").
		Order("created_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Analytics returns the admin dashboard counters and the task-status
// histogram.
func (s *GroupService) Analytics() (*dto.Analytics, error) {
	var out dto.Analytics

	if err := s.db.Model(&models.Group{}).Count(&out.TotalGroups).Error; err != nil {
		return nil, fmt.Errorf("failed to count groups: %w", err)
	}
	if err := s.db.Model(&models.Group{}).
		Where("status = ?", models.GroupStatusActive).
		Count(&out.ActiveProjects).Error; err != nil {
		return nil, fmt.Errorf("failed to count active projects: %w", err)
	}
	if err := s.db.Model(&models.User{}).
		Where("role = ?", models.RoleEmployee).
		Count(&out.TotalEmployees).Error; err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	histogram, err := s.members.TaskStatusHistogram()
	if err != nil {
		return nil, err
	}
	out.TaskDistribution = histogram

	return &out, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
