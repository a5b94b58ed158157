package mappers

import (
	"time"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/modules/crm/importcsv"
	"github.com/coldreach/cedb/modules/crm/presentation/viewmodels"
	"github.com/coldreach/cedb/modules/crm/services"
)

func ContactToViewModel(c contact.Contact) viewmodels.Contact {
	return viewmodels.Contact{
		ID:          c.ID().String(),
		Email:       c.Email(),
		CompanyName: c.CompanyName(),
		Industry:    c.Industry(),
		State:       c.State(),
		Status:      string(c.Status()),
		FirstName:   c.FirstName(),
		LastName:    c.LastName(),
		Name:        c.Name(),
		JobTitle:    c.JobTitle(),
		Phone:       c.Phone(),
		Website:     c.Website(),
		Notes:       c.Notes(),
		CreatedAt:   c.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt().Format(time.RFC3339),
	}
}

func ContactsToViewModels(contacts []contact.Contact) []viewmodels.Contact {
	out := make([]viewmodels.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, ContactToViewModel(c))
	}
	return out
}

func StagedUploadToViewModel(o *services.StagedOverview) *viewmodels.StagedUpload {
	mapping := make(map[string]string, len(o.Mapping))
	for header, field := range o.Mapping {
		mapping[header] = string(field)
	}
	preview := o.Preview
	if preview == nil {
		preview = [][]string{}
	}
	return &viewmodels.StagedUpload{
		FileName: o.FileName,
		StoredAt: o.StoredAt.Format(time.RFC3339),
		Headers:  o.Headers,
		Mapping:  mapping,
		RowCount: o.RowCount,
		Preview:  preview,
	}
}

// MappingFromViewModel validates and converts the wire mapping.
func MappingFromViewModel(raw map[string]string) (importcsv.Mapping, bool) {
	mapping := make(importcsv.Mapping, len(raw))
	for header, field := range raw {
		if !mapping.Set(header, importcsv.Field(field)) {
			return nil, false
		}
	}
	return mapping, true
}
