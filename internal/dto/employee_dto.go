package dto

import "github.com/squadhub/backend/internal/models"

// CreateEmployeeRequest carries the multipart form fields for employee
// creation; the optional profile image arrives as a separate file part.
type CreateEmployeeRequest struct {
	Name        string `form:"name" json:"name"`
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
	Phone       string `form:"phone" json:"phone"`
	Designation string `form:"designation" json:"designation"`
	Gender      string `form:"gender" json:"gender"`
	EmployeeNo  string `form:"employee_no" json:"employee_no"`
}

// UpdateEmployeeRequest is a partial update: nil means "leave unchanged".
type UpdateEmployeeRequest struct {
	Name        *string `form:"name" json:"name"`
	Email       *string `form:"email" json:"email"`
	Password    *string `form:"password" json:"password"`
	Phone       *string `form:"phone" json:"phone"`
	Designation *string `form:"designation" json:"designation"`
	Gender      *string `form:"gender" json:"gender"`
	EmployeeNo  *string `form:"employee_no" json:"employee_no"`
}

type EmployeeListResponse struct {
	Success bool          `json:"success"`
	Data    []models.User `json:"data"`
}

type EmployeeResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}
