package dto

// GroupImportRow is one record of a group-oriented import. Fields are
// optional strings so absent CSV columns default explicitly in the
// importer instead of coercing silently.
type GroupImportRow struct {
	GroupName   string `json:"group_name"`
	ProjectName string `json:"project_name"`
	Status      string `json:"status"`
	EmployeeNo  string `json:"employee_id"`
	Task        string `json:"task"`
	TaskStatus  string `json:"task_status"`
}

type GroupImportRequest struct {
	Data []GroupImportRow `json:"data"`
}

// EmployeeImportRow is one record of an employee-oriented import.
type EmployeeImportRow struct {
	Name        string
	Email       string
	Phone       string
	EmployeeNo  string
	Designation string
}

// RowError reports a per-row failure with a human-readable row number.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
}

type ImportResponse struct {
	Message  string     `json:"message"`
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
}
