package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusValid        Status = "Valid"
	StatusHardBounce   Status = "Hard Bounce"
	StatusSoftBounce   Status = "Soft Bounce"
	StatusUnsubscribe  Status = "Unsubscribe"
	StatusDoNotContact Status = "Do Not Contact"
)

// Statuses lists the selectable contact statuses, in display order.
var Statuses = []Status{
	StatusValid,
	StatusHardBounce,
	StatusSoftBounce,
	StatusUnsubscribe,
	StatusDoNotContact,
}

// Industries lists the selectable industries, alphabetical.
var Industries = []string{
	"Federal Government",
	"Financial/Insurance",
	"School District",
	"State Government",
	"University",
}

// USStates lists the 50 two-letter state codes.
var USStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

type Contact struct {
	id          uuid.UUID
	email       string
	companyName string
	industry    string
	state       string
	status      Status
	firstName   string
	lastName    string
	jobTitle    string
	phone       string
	website     string
	notes       string
	createdAt   time.Time
	updatedAt   time.Time
}

func New(
	email string,
	companyName string,
	industry string,
	state string,
	status Status,
) Contact {
	if status == "" {
		status = StatusValid
	}
	return Contact{
		email:       strings.TrimSpace(email),
		companyName: strings.TrimSpace(companyName),
		industry:    strings.TrimSpace(industry),
		state:       strings.ToUpper(strings.TrimSpace(state)),
		status:      status,
	}
}

func Hydrate(
	id uuid.UUID,
	email string,
	companyName string,
	industry string,
	state string,
	status Status,
	firstName string,
	lastName string,
	jobTitle string,
	phone string,
	website string,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
) Contact {
	return Contact{
		id:          id,
		email:       email,
		companyName: companyName,
		industry:    industry,
		state:       state,
		status:      status,
		firstName:   firstName,
		lastName:    lastName,
		jobTitle:    jobTitle,
		phone:       phone,
		website:     website,
		notes:       notes,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c Contact) ID() uuid.UUID        { return c.id }
func (c Contact) Email() string        { return c.email }
func (c Contact) CompanyName() string  { return c.companyName }
func (c Contact) Industry() string     { return c.industry }
func (c Contact) State() string        { return c.state }
func (c Contact) Status() Status       { return c.status }
func (c Contact) FirstName() string    { return c.firstName }
func (c Contact) LastName() string     { return c.lastName }
func (c Contact) JobTitle() string     { return c.jobTitle }
func (c Contact) Phone() string        { return c.phone }
func (c Contact) Website() string      { return c.website }
func (c Contact) Notes() string        { return c.notes }
func (c Contact) CreatedAt() time.Time { return c.createdAt }
func (c Contact) UpdatedAt() time.Time { return c.updatedAt }
func (c Contact) IsZero() bool         { return c.id == uuid.Nil && c.email == "" }

// Name joins first and last name, dropping empty parts.
func (c Contact) Name() string {
	parts := make([]string, 0, 2)
	if c.firstName != "" {
		parts = append(parts, c.firstName)
	}
	if c.lastName != "" {
		parts = append(parts, c.lastName)
	}
	return strings.Join(parts, " ")
}

// WithOptional returns a copy with the optional detail fields set.
func (c Contact) WithOptional(firstName, lastName, jobTitle, phone, website, notes string) Contact {
	c.firstName = strings.TrimSpace(firstName)
	c.lastName = strings.TrimSpace(lastName)
	c.jobTitle = strings.TrimSpace(jobTitle)
	c.phone = strings.TrimSpace(phone)
	c.website = strings.TrimSpace(website)
	c.notes = strings.TrimSpace(notes)
	return c
}
