package dto

import (
	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/models"
)

type CreateGroupRequest struct {
	GroupName         string      `json:"group_name"`
	ProjectName       string      `json:"project_name"`
	StartDate         string      `json:"start_date"`
	Deadline          string      `json:"deadline"`
	SelectedEmployees []uuid.UUID `json:"selectedEmployees"`
}

type UpdateGroupRequest struct {
	GroupName         *string     `json:"group_name"`
	ProjectName       *string     `json:"project_name"`
	StartDate         *string     `json:"start_date"`
	Deadline          *string     `json:"deadline"`
	SelectedEmployees []uuid.UUID `json:"selectedEmployees"`
}

type GroupStatusRequest struct {
	Status string `json:"status"`
}

type UpdateTaskRequest struct {
	Task       *string `json:"task"`
	TaskStatus *string `json:"task_status"`
}

type GroupListResponse struct {
	Success bool           `json:"success"`
	Data    []models.Group `json:"data"`
}

type GroupResponse struct {
	Message string       `json:"message"`
	Group   models.Group `json:"group,omitempty"`
}

// TaskStatusCount is one bucket of the task-status histogram.
type TaskStatusCount struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

type Analytics struct {
	TotalGroups      int64             `json:"total_groups"`
	ActiveProjects   int64             `json:"active_projects"`
	TotalEmployees   int64             `json:"total_employees"`
	TaskDistribution []TaskStatusCount `json:"task_distribution"`
}

type AnalyticsResponse struct {
	Success bool      `json:"success"`
	Data    Analytics `json:"data"`
}
