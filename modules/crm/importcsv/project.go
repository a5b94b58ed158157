package importcsv

import (
	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
)

// Project builds a contact CreateDTO from one data row by walking headers
// in column order and writing each mapped cell into its target field. When
// several headers map to the same target, the last column wins.
func Project(headers []string, row []string, mapping Mapping) contact.CreateDTO {
	var dto contact.CreateDTO
	for i, header := range headers {
		if i >= len(row) {
			break
		}
		value := row[i]
		switch mapping[header] {
		case FieldEmail:
			dto.Email = value
		case FieldFirstName:
			dto.FirstName = value
		case FieldLastName:
			dto.LastName = value
		case FieldCompanyName:
			dto.CompanyName = value
		case FieldIndustry:
			dto.Industry = value
		case FieldState:
			dto.State = value
		case FieldStatus:
			dto.Status = value
		case FieldJobTitle:
			dto.JobTitle = value
		case FieldPhone:
			dto.Phone = value
		case FieldWebsite:
			dto.Website = value
		case FieldNotes:
			dto.Notes = value
		}
	}
	return dto
}
