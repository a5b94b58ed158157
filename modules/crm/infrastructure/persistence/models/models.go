package models

import (
	"database/sql"
	"time"
)

type Contact struct {
	ID          string
	Email       string
	CompanyName string
	Industry    string
	State       string
	Status      string
	FirstName   string
	LastName    string
	JobTitle    string
	Phone       string
	Website     string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   sql.NullTime
}
