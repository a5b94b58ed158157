package importcsv

// Field is a target contact field a CSV column can be mapped to. FieldSkip
// drops the column.
type Field string

const (
	FieldEmail       Field = "email"
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldCompanyName Field = "company_name"
	FieldIndustry    Field = "industry"
	FieldState       Field = "state"
	FieldStatus      Field = "status"
	FieldJobTitle    Field = "job_title"
	FieldPhone       Field = "phone"
	FieldWebsite     Field = "website"
	FieldNotes       Field = "notes"
	FieldSkip        Field = "skip"
)

// Fields lists every mappable target, in the order the mapping screen
// offers them.
var Fields = []Field{
	FieldEmail,
	FieldFirstName,
	FieldLastName,
	FieldCompanyName,
	FieldIndustry,
	FieldState,
	FieldStatus,
	FieldJobTitle,
	FieldPhone,
	FieldWebsite,
	FieldNotes,
	FieldSkip,
}

func IsValidField(f Field) bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}
