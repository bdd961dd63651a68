package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/config"
	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultDesignation = "Staff"

// ImportService ingests tabular rows into groups, memberships and
// employee accounts.
//
// The two modes differ on purpose: group-oriented imports run inside one
// transaction (an unhandled error rolls back the whole batch), while
// employee-oriented imports commit row by row so a half-good file still
// lands its good rows.
type ImportService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewImportService(db *gorm.DB, cfg *config.Config) *ImportService {
	return &ImportService{db: db, cfg: cfg}
}

// ImportGroupRows upserts groups by name and, when a row names an
// employee, upserts that single membership without detaching the rest of
// the group. Rows with a blank group name are skipped. Per-row validation
// failures (unknown employee number) are collected and do not stop the
// batch; any other error aborts and rolls back everything.
func (s *ImportService) ImportGroupRows(rows []dto.GroupImportRow) (*dto.ImportResult, error) {
	result := &dto.ImportResult{Errors: []dto.RowError{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			rowNum := i + 1

			if strings.TrimSpace(row.GroupName) == "" {
				continue
			}

			if row.Status != "" && row.Status != models.GroupStatusActive && row.Status != models.GroupStatusInactive {
				result.Errors = append(result.Errors, dto.RowError{
					Row:     rowNum,
					Message: fmt.Sprintf("invalid status %q", row.Status),
				})
				continue
			}

			groupID, err := upsertGroupByName(tx, row)
			if err != nil {
				return err
			}

			if strings.TrimSpace(row.EmployeeNo) != "" {
				userID, err := resolveEmployee(tx, row.EmployeeNo)
				if err != nil {
					if errors.Is(err, ErrUserNotFound) {
						result.Errors = append(result.Errors, dto.RowError{
							Row:     rowNum,
							Message: fmt.Sprintf("employee %q not found", row.EmployeeNo),
						})
						continue
					}
					return err
				}

				task := row.Task
				if task == "" {
					task = DefaultImportTask
				}
				taskStatus := row.TaskStatus
				if taskStatus == "" {
					taskStatus = models.DefaultTaskStatus
				}
				if err := syncOne(tx, groupID, userID, task, taskStatus); err != nil {
					return err
				}
			}

			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("group import failed: %w", err)
	}

	return result, nil
}

func upsertGroupByName(tx *gorm.DB, row dto.GroupImportRow) (uuid.UUID, error) {
	var group models.Group
	err := tx.Where("name = ?", row.GroupName).First(&group).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		projectName := row.ProjectName
		if projectName == "" {
			projectName = row.GroupName + " Project"
		}
		status := row.Status
		if status == "" {
			status = models.GroupStatusActive
		}
		group = models.Group{
			ID:          uuid.New(),
			Name:        row.GroupName,
			ProjectName: projectName,
			Status:      status,
		}
		if err := tx.Create(&group).Error; err != nil {
			return uuid.Nil, fmt.Errorf("failed to create group %q: %w", row.GroupName, err)
		}
		return group.ID, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load group %q: %w", row.GroupName, err)
	}

	// Existing group: only the fields the row actually supplies change.
	updates := map[string]interface{}{}
	if row.ProjectName != "" {
		updates["project_name"] = row.ProjectName
	}
	if row.Status != "" {
		updates["status"] = row.Status
	}
	if len(updates) > 0 {
		if err := tx.Model(&group).Updates(updates).Error; err != nil {
			return uuid.Nil, fmt.Errorf("failed to update group %q: %w", row.GroupName, err)
		}
	}
	return group.ID, nil
}

func resolveEmployee(tx *gorm.DB, employeeNo string) (uuid.UUID, error) {
	var user models.User
	err := tx.Where("employee_no = ?", employeeNo).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrUserNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve employee %q: %w", employeeNo, err)
	}
	return user.ID, nil
}

// ImportEmployees creates employee accounts from CSV rows. Each row
// commits on its own; a duplicate email in row 3 does not stop rows 4 and
// 5. Rows with fewer than four populated fields are skipped silently. The
// new accounts get a fixed default password the employee is expected to
// change.
func (s *ImportService) ImportEmployees(rows []dto.EmployeeImportRow) *dto.ImportResult {
	result := &dto.ImportResult{Errors: []dto.RowError{}}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.ImportDefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		result.Errors = append(result.Errors, dto.RowError{Row: 1, Message: "failed to prepare default password"})
		return result
	}

	for i, row := range rows {
		// +2: rows are 1-based and the header line is line 1.
		rowNum := i + 2

		if populatedFields(row) < 4 {
			continue
		}

		designation := row.Designation
		if designation == "" {
			designation = defaultDesignation
		}

		if msg := s.validateImportRow(row); msg != "" {
			result.Errors = append(result.Errors, dto.RowError{Row: rowNum, Message: msg})
			continue
		}

		user := models.User{
			ID:          uuid.New(),
			Name:        row.Name,
			Email:       row.Email,
			Password:    string(hash),
			Role:        models.RoleEmployee,
			Phone:       row.Phone,
			Designation: designation,
		}
		if row.EmployeeNo != "" {
			no := row.EmployeeNo
			user.EmployeeNo = &no
		}

		if err := s.db.Create(&user).Error; err != nil {
			result.Errors = append(result.Errors, dto.RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("failed to create %s: %v", row.Email, err),
			})
			continue
		}

		result.Imported++
	}

	return result
}

func (s *ImportService) validateImportRow(row dto.EmployeeImportRow) string {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", row.Email).Count(&count).Error; err != nil {
		return fmt.Sprintf("failed to validate %s: %v", row.Email, err)
	}
	if count > 0 {
		return fmt.Sprintf("email %q already registered", row.Email)
	}
	if row.EmployeeNo != "" {
		if err := s.db.Model(&models.User{}).Where("employee_no = ?", row.EmployeeNo).Count(&count).Error; err != nil {
			return fmt.Sprintf("failed to validate %s: %v", row.Email, err)
		}
		if count > 0 {
			return fmt.Sprintf("employee number %q already in use", row.EmployeeNo)
		}
	}
	return ""
}

func populatedFields(row dto.EmployeeImportRow) int {
	count := 0
	for _, v := range []string{row.Name, row.Email, row.Phone, row.EmployeeNo, row.Designation} {
		if strings.TrimSpace(v) != "" {
			count++
		}
	}
	return count
}

// ParseEmployeeCSV reads an uploaded CSV into ordered row records. The
// header line names the fields; unknown columns are ignored.
func ParseEmployeeCSV(r io.Reader) ([]dto.EmployeeImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, names ...string) string {
		for _, name := range names {
			if idx, ok := cols[name]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
		}
		return ""
	}

	var rows []dto.EmployeeImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rows = append(rows, dto.EmployeeImportRow{
			Name:        field(record, "name"),
			Email:       field(record, "email"),
			Phone:       field(record, "phone"),
			EmployeeNo:  field(record, "employee_no", "employee_id"),
			Designation: field(record, "designation"),
		})
	}
	return rows, nil
}
