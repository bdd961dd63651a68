package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/models"
	"gorm.io/gorm"
)

// Default task texts for memberships created without an explicit task.
const (
	DefaultAssignTask = "Assigned to Squad"
	DefaultImportTask = "General Assignment"
)

// MembershipService owns the group/employee assignment rows: attach, sync,
// per-pair task updates and the task-status histogram.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// Attach creates a membership row for every (group, user) pair not already
// present. Pre-existing pairs keep their task state untouched, so calling
// Attach twice with the same arguments is a no-op the second time.
func (s *MembershipService) Attach(groupID uuid.UUID, userIDs []uuid.UUID, defaultTask string) error {
	if len(userIDs) == 0 {
		return ErrNoEmployees
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return attach(tx, groupID, userIDs, defaultTask)
	})
}

func attach(tx *gorm.DB, groupID uuid.UUID, userIDs []uuid.UUID, defaultTask string) error {
	task := defaultTask
	if task == "" {
		task = DefaultAssignTask
	}

	var existing []models.Membership
	if err := tx.Where("group_id = ?", groupID).Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load memberships: %w", err)
	}
	present := make(map[uuid.UUID]bool, len(existing))
	for _, m := range existing {
		present[m.UserID] = true
	}

	for _, userID := range userIDs {
		if present[userID] {
			continue
		}
		present[userID] = true

		t := task
		row := models.Membership{
			GroupID:    groupID,
			UserID:     userID,
			Task:       &t,
			TaskStatus: models.DefaultTaskStatus,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to attach user %s: %w", userID, err)
		}
	}
	return nil
}

// Sync replaces the group's membership set with userIDs: absent pairs are
// created with default task fields, pairs no longer selected are deleted,
// and surviving pairs keep their task/task_status. Returns the resulting
// membership rows.
func (s *MembershipService) Sync(groupID uuid.UUID, userIDs []uuid.UUID) ([]models.Membership, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return sync(tx, groupID, userIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.ListMembers(groupID)
}

func sync(tx *gorm.DB, groupID uuid.UUID, userIDs []uuid.UUID) error {
	var current []models.Membership
	if err := tx.Where("group_id = ?", groupID).Find(&current).Error; err != nil {
		return fmt.Errorf("failed to load memberships: %w", err)
	}

	desired := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		desired[id] = true
	}

	for _, m := range current {
		if desired[m.UserID] {
			continue
		}
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, m.UserID).
			Delete(&models.Membership{}).Error; err != nil {
			return fmt.Errorf("failed to detach user %s: %w", m.UserID, err)
		}
	}

	return attach(tx, groupID, userIDs, "")
}

// syncOne upserts a single (group, user) pair without touching the rest of
// the group's memberships: the importer's sync-without-detach. An existing
// pair has its task fields overwritten with the supplied values.
func syncOne(tx *gorm.DB, groupID, userID uuid.UUID, task, taskStatus string) error {
	var row models.Membership
	err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.Membership{
			GroupID:    groupID,
			UserID:     userID,
			Task:       &task,
			TaskStatus: taskStatus,
		}
		return tx.Create(&row).Error
	}
	if err != nil {
		return fmt.Errorf("failed to load membership: %w", err)
	}

	return tx.Model(&models.Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Updates(map[string]interface{}{"task": task, "task_status": taskStatus}).Error
}

// detachAll removes every membership row of a group. Only group deletion
// uses this; it runs inside the caller's transaction.
func detachAll(tx *gorm.DB, groupID uuid.UUID) error {
	if err := tx.Where("group_id = ?", groupID).Delete(&models.Membership{}).Error; err != nil {
		return fmt.Errorf("failed to detach members: %w", err)
	}
	return nil
}

// UpdateTask partially updates a single pair's task fields.
func (s *MembershipService) UpdateTask(groupID, userID uuid.UUID, task, taskStatus *string) error {
	updates := map[string]interface{}{}
	if task != nil {
		updates["task"] = *task
	}
	if taskStatus != nil {
		updates["task_status"] = *taskStatus
	}
	if len(updates) == 0 {
		return nil
	}

	result := s.db.Model(&models.Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// ListMembers returns the group's membership rows with member public fields.
func (s *MembershipService) ListMembers(groupID uuid.UUID) ([]models.Membership, error) {
	var rows []models.Membership
	if err := s.db.Preload("User").Where("group_id = ?", groupID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return rows, nil
}

// TaskStatusHistogram counts memberships by task_status across all groups
// as a single grouped query.
func (s *MembershipService) TaskStatusHistogram() ([]dto.TaskStatusCount, error) {
	var counts []dto.TaskStatusCount
	err := s.db.Model(&models.Membership{}).
		Select("task_status as status, count(*) as total").
		Group("task_status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task statuses: %w", err)
	}
	return counts, nil
}
