package services

import (
	"strings"
	"testing"

	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/models"
)

func TestImportGroupRowsUpsertsAndAssigns(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())

	createUser(t, db, "John Doe", "john@example.com", "EMP001")

	result, err := svc.ImportGroupRows([]dto.GroupImportRow{
		{GroupName: "Alpha"},
		{GroupName: "Alpha", EmployeeNo: "EMP001", Task: "Design review"},
		{GroupName: ""}, // blank group name: skipped, not an error
		{GroupName: "Beta", ProjectName: "Bespoke", Status: "inactive"},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Imported != 3 {
		t.Errorf("expected 3 imported rows, got %d", result.Imported)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	var alpha models.Group
	if err := db.Preload("Memberships").Where("name = ?", "Alpha").First(&alpha).Error; err != nil {
		t.Fatalf("alpha not created: %v", err)
	}
	if alpha.ProjectName != "Alpha Project" {
		t.Errorf("project name should default to %q, got %q", "Alpha Project", alpha.ProjectName)
	}
	if len(alpha.Memberships) != 1 {
		t.Fatalf("expected 1 membership, got %d", len(alpha.Memberships))
	}
	if alpha.Memberships[0].Task == nil || *alpha.Memberships[0].Task != "Design review" {
		t.Errorf("row task not applied: %v", alpha.Memberships[0].Task)
	}

	var beta models.Group
	if err := db.Where("name = ?", "Beta").First(&beta).Error; err != nil {
		t.Fatalf("beta not created: %v", err)
	}
	if beta.ProjectName != "Bespoke" || beta.Status != models.GroupStatusInactive {
		t.Errorf("supplied fields not honored: %+v", beta)
	}

	var count int64
	db.Model(&models.Group{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 groups, got %d", count)
	}
}

func TestImportGroupRowsRepeatedImportIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())
	createUser(t, db, "John Doe", "john@example.com", "EMP001")

	rows := []dto.GroupImportRow{{GroupName: "Alpha", EmployeeNo: "EMP001"}}
	if _, err := svc.ImportGroupRows(rows); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if _, err := svc.ImportGroupRows(rows); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	var groups, memberships int64
	db.Model(&models.Group{}).Count(&groups)
	db.Model(&models.Membership{}).Count(&memberships)
	if groups != 1 || memberships != 1 {
		t.Errorf("repeat import duplicated rows: groups=%d memberships=%d", groups, memberships)
	}
}

func TestImportGroupRowsCollectsPerRowErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())
	createUser(t, db, "John Doe", "john@example.com", "EMP001")

	result, err := svc.ImportGroupRows([]dto.GroupImportRow{
		{GroupName: "Alpha", EmployeeNo: "EMP001"},
		{GroupName: "Beta", EmployeeNo: "EMP999"}, // unknown employee
		{GroupName: "Gamma"},
	})
	if err != nil {
		t.Fatalf("import should not abort on per-row failures: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("expected 2 imported rows, got %d", result.Imported)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %v", result.Errors)
	}
	if result.Errors[0].Row != 2 {
		t.Errorf("error should reference row 2, got %d", result.Errors[0].Row)
	}

	// The failing row's group upsert still happened; only the membership
	// was skipped. Rows after the failure were processed.
	var count int64
	db.Model(&models.Group{}).Count(&count)
	if count != 3 {
		t.Errorf("expected 3 groups, got %d", count)
	}
}

func TestImportGroupRowsRollsBackOnUnhandledError(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())
	createUser(t, db, "John Doe", "john@example.com", "EMP001")

	// Dropping the membership table makes the assignment in row 2 fail in
	// a way that is not a per-row validation issue.
	if err := db.Migrator().DropTable(&models.Membership{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	_, err := svc.ImportGroupRows([]dto.GroupImportRow{
		{GroupName: "Alpha"},
		{GroupName: "Beta", EmployeeNo: "EMP001"},
	})
	if err == nil {
		t.Fatal("expected batch error")
	}

	var count int64
	db.Model(&models.Group{}).Count(&count)
	if count != 0 {
		t.Errorf("batch failure must roll back every row, %d groups persisted", count)
	}
}

func TestImportEmployeesPartialSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())
	createUser(t, db, "Existing", "taken@example.com", "EMP000")

	rows := []dto.EmployeeImportRow{
		{Name: "A", Email: "a@example.com", Phone: "1", EmployeeNo: "EMP101"},
		{Name: "B", Email: "b@example.com", Phone: "2", EmployeeNo: "EMP102"},
		{Name: "C", Email: "taken@example.com", Phone: "3", EmployeeNo: "EMP103"}, // duplicate email
		{Name: "D", Email: "d@example.com", Phone: "4", EmployeeNo: "EMP104"},
		{Name: "E", Email: "e@example.com", Phone: "5", EmployeeNo: "EMP105"},
		{Name: "F", Email: "f@example.com", Phone: "6", EmployeeNo: "EMP106"},
	}

	result := svc.ImportEmployees(rows)

	if result.Imported != 5 {
		t.Errorf("expected 5 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	// Row 3 of the data is line 4 of the file (header is line 1).
	if result.Errors[0].Row != 4 {
		t.Errorf("expected row number 4, got %d", result.Errors[0].Row)
	}

	// Rows after the failure were committed.
	var user models.User
	if err := db.Where("email = ?", "f@example.com").First(&user).Error; err != nil {
		t.Errorf("later rows should persist despite earlier failure: %v", err)
	}
	if user.Role != models.RoleEmployee {
		t.Errorf("imported users must be employees, got %q", user.Role)
	}
}

func TestImportEmployeesSkipsSparseRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())

	result := svc.ImportEmployees([]dto.EmployeeImportRow{
		{Name: "Only Name"},
		{Name: "A", Email: "a@example.com", Phone: "1"}, // 3 fields: skipped
		{Name: "B", Email: "b@example.com", Phone: "2", EmployeeNo: "EMP102"},
	})

	if result.Imported != 1 {
		t.Errorf("expected 1 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 0 {
		t.Errorf("sparse rows are skipped silently, got %v", result.Errors)
	}
}

func TestImportEmployeesDefaultsDesignation(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())

	result := svc.ImportEmployees([]dto.EmployeeImportRow{
		{Name: "A", Email: "a@example.com", Phone: "1", EmployeeNo: "EMP101"},
	})
	if result.Imported != 1 {
		t.Fatalf("expected 1 imported, got %+v", result)
	}

	var user models.User
	if err := db.Where("email = ?", "a@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Designation != "Staff" {
		t.Errorf("expected default designation Staff, got %q", user.Designation)
	}
	if user.EmployeeNo == nil || *user.EmployeeNo != "EMP101" {
		t.Errorf("employee number not stored: %v", user.EmployeeNo)
	}
}

func TestImportGroupRowsInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())

	result, err := svc.ImportGroupRows([]dto.GroupImportRow{
		{GroupName: "Alpha", Status: "archived"},
		{GroupName: "Beta"},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 1 || result.Errors[0].Row != 1 {
		t.Errorf("expected row 1 rejected and row 2 imported, got %+v", result)
	}
}

func TestParseEmployeeCSV(t *testing.T) {
	input := "name,email,phone,employee_id,designation\n" +
		"John Doe,john@example.com,555-0100,EMP001,Engineer\n" +
		"Joanna Smith,smith@example.com,555-0101,EMP002,\n"

	rows, err := ParseEmployeeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "John Doe" || rows[0].EmployeeNo != "EMP001" || rows[0].Designation != "Engineer" {
		t.Errorf("row 1 misparsed: %+v", rows[0])
	}
	if rows[1].Designation != "" {
		t.Errorf("blank designation should stay blank at parse time: %+v", rows[1])
	}
}

func TestImportEmployeesWithoutNumberGetNullNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())

	result := svc.ImportEmployees([]dto.EmployeeImportRow{
		{Name: "A", Email: "a@example.com", Phone: "1", Designation: "Analyst"},
		{Name: "B", Email: "b@example.com", Phone: "2", Designation: "Analyst"},
	})

	if result.Imported != 2 {
		t.Fatalf("expected 2 imported, got %d (errors: %v)", result.Imported, result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("rows without a number must not collide with each other: %v", result.Errors)
	}

	var user models.User
	if err := db.Where("email = ?", "a@example.com").First(&user).Error; err != nil {
		t.Fatalf("failed to load imported user: %v", err)
	}
	if user.EmployeeNo != nil {
		t.Errorf("expected NULL employee number, got %q", *user.EmployeeNo)
	}
}

func TestImportEmployeesReportsFailedValidationQuery(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db, testConfig())

	if err := db.Migrator().DropTable(&models.User{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	result := svc.ImportEmployees([]dto.EmployeeImportRow{
		{Name: "A", Email: "a@example.com", Phone: "1", EmployeeNo: "EMP101"},
	})

	if result.Imported != 0 {
		t.Errorf("expected 0 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if result.Errors[0].Row != 2 {
		t.Errorf("expected row number 2, got %d", result.Errors[0].Row)
	}
	if !strings.Contains(result.Errors[0].Message, "failed to validate") {
		t.Errorf("uniqueness query failures must surface as validation failures, got %q", result.Errors[0].Message)
	}
}
