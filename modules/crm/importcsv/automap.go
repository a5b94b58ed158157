package importcsv

import "strings"

// Mapping assigns a target field per CSV header. Headers are unique within
// one parsed table. Several headers may map to the same target; at
// projection time the last mapped column wins positionally.
type Mapping map[string]Field

// AutoMap guesses a target field for each header with an ordered set of
// case-insensitive substring rules, first match wins. Deterministic and
// order-independent across headers.
func AutoMap(headers []string) Mapping {
	mapping := make(Mapping, len(headers))
	for _, header := range headers {
		mapping[header] = guessField(header)
	}
	return mapping
}

func guessField(header string) Field {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "email"):
		return FieldEmail
	case strings.Contains(h, "first") && strings.Contains(h, "name"):
		return FieldFirstName
	case strings.Contains(h, "last") && strings.Contains(h, "name"):
		return FieldLastName
	case strings.Contains(h, "company"):
		return FieldCompanyName
	case strings.Contains(h, "industry"):
		return FieldIndustry
	case strings.Contains(h, "state"):
		return FieldState
	case strings.Contains(h, "status"):
		return FieldStatus
	case strings.Contains(h, "job") || strings.Contains(h, "title"):
		return FieldJobTitle
	case strings.Contains(h, "phone"):
		return FieldPhone
	case strings.Contains(h, "website"):
		return FieldWebsite
	case strings.Contains(h, "note"):
		return FieldNotes
	default:
		return FieldSkip
	}
}

// Set overrides one header's target. Unknown targets are rejected; no
// uniqueness constraint is enforced across headers.
func (m Mapping) Set(header string, target Field) bool {
	if !IsValidField(target) {
		return false
	}
	m[header] = target
	return true
}

// Valid reports whether the mapping can be imported: at least one header
// must map to email.
func (m Mapping) Valid() bool {
	for _, target := range m {
		if target == FieldEmail {
			return true
		}
	}
	return false
}
