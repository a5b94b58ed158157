package contact

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/coldreach/cedb/pkg/constants"
	"github.com/coldreach/cedb/pkg/serrors"
)

type CreateDTO struct {
	Email       string `json:"email" validate:"required,email"`
	CompanyName string `json:"company_name" validate:"required"`
	Industry    string `json:"industry" validate:"required"`
	State       string `json:"state" validate:"required,len=2"`
	Status      string `json:"status"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	JobTitle    string `json:"job_title"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Notes       string `json:"notes"`
}

type UpdateDTO struct {
	Email       string `json:"email" validate:"required,email"`
	CompanyName string `json:"company_name" validate:"required"`
	Industry    string `json:"industry" validate:"required"`
	State       string `json:"state" validate:"required,len=2"`
	Status      string `json:"status" validate:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	JobTitle    string `json:"job_title"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Notes       string `json:"notes"`
}

func (d *CreateDTO) Normalize() {
	d.Email = strings.TrimSpace(d.Email)
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.Industry = strings.TrimSpace(d.Industry)
	d.State = strings.ToUpper(strings.TrimSpace(d.State))
	d.Status = strings.TrimSpace(d.Status)
	if d.Status == "" {
		d.Status = string(StatusValid)
	}
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Website = strings.TrimSpace(d.Website)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

func (d *CreateDTO) ToEntity() Contact {
	return New(d.Email, d.CompanyName, d.Industry, d.State, Status(d.Status)).
		WithOptional(d.FirstName, d.LastName, d.JobTitle, d.Phone, d.Website, d.Notes)
}

func (d *UpdateDTO) Normalize() {
	d.Email = strings.TrimSpace(d.Email)
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.Industry = strings.TrimSpace(d.Industry)
	d.State = strings.ToUpper(strings.TrimSpace(d.State))
	d.Status = strings.TrimSpace(d.Status)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Website = strings.TrimSpace(d.Website)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

func (d *UpdateDTO) ToEntity() Contact {
	return New(d.Email, d.CompanyName, d.Industry, d.State, Status(d.Status)).
		WithOptional(d.FirstName, d.LastName, d.JobTitle, d.Phone, d.Website, d.Notes)
}
