package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
)

const exportSheetName = "Contacts"

var exportHeaders = []string{
	"Email", "Company", "Industry", "State", "Status",
	"First Name", "Last Name", "Job Title", "Phone", "Website", "Notes",
	"Created At",
}

// ExportService renders a filtered contact set as an XLSX workbook.
type ExportService struct {
	contacts *ContactService
}

func NewExportService(contacts *ContactService) *ExportService {
	return &ExportService{contacts: contacts}
}

// ExportFiltered fetches all contacts, applies the filter and returns the
// workbook bytes.
func (s *ExportService) ExportFiltered(ctx context.Context, filter contact.FilterState) ([]byte, error) {
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildWorkbook(filter.Apply(contacts, time.Now()))
}

func buildWorkbook(contacts []contact.Contact) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, errors.Wrap(err, "failed to drop default sheet")
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeaders); err != nil {
		return nil, errors.Wrap(err, "failed to write header row")
	}

	for i, c := range contacts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			c.Email(),
			c.CompanyName(),
			c.Industry(),
			c.State(),
			string(c.Status()),
			c.FirstName(),
			c.LastName(),
			c.JobTitle(),
			c.Phone(),
			c.Website(),
			c.Notes(),
			c.CreatedAt().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, errors.Wrap(err, "failed to write contact row")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize workbook")
	}
	return buf.Bytes(), nil
}
