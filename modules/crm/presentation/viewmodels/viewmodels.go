package viewmodels

import "github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"

type Contact struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	State       string `json:"state"`
	Status      string `json:"status"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Name        string `json:"name"`
	JobTitle    string `json:"job_title"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ContactList is the dashboard payload: the filtered page, stats computed
// over the same filtered set and the refresh counter clients poll against.
type ContactList struct {
	Items   []Contact     `json:"items"`
	Stats   contact.Stats `json:"stats"`
	Refresh int64         `json:"refresh"`
}

// Options feeds the filter dropdowns.
type Options struct {
	Industries []string `json:"industries"`
	States     []string `json:"states"`
	Statuses   []string `json:"statuses"`
}

type StagedUpload struct {
	FileName string            `json:"file_name"`
	StoredAt string            `json:"stored_at"`
	Headers  []string          `json:"headers"`
	Mapping  map[string]string `json:"mapping"`
	RowCount int               `json:"row_count"`
	Preview  [][]string        `json:"preview"`
}
