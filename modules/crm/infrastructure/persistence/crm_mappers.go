package persistence

import (
	"github.com/google/uuid"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/modules/crm/infrastructure/persistence/models"
)

func toDomainContact(m *models.Contact) (contact.Contact, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return contact.Contact{}, err
	}
	return contact.Hydrate(
		id,
		m.Email,
		m.CompanyName,
		m.Industry,
		m.State,
		contact.Status(m.Status),
		m.FirstName,
		m.LastName,
		m.JobTitle,
		m.Phone,
		m.Website,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDBContact(c contact.Contact) *models.Contact {
	return &models.Contact{
		ID:          c.ID().String(),
		Email:       c.Email(),
		CompanyName: c.CompanyName(),
		Industry:    c.Industry(),
		State:       c.State(),
		Status:      string(c.Status()),
		FirstName:   c.FirstName(),
		LastName:    c.LastName(),
		JobTitle:    c.JobTitle(),
		Phone:       c.Phone(),
		Website:     c.Website(),
		Notes:       c.Notes(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}
