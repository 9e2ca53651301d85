package internal

import (
	"strings"
	"time"
)

// DateLayout is the wire format of TimesheetEntry.Date.
const DateLayout = "2006-01-02"

type TimesheetEntry struct {
	ID          int64   `json:"id" yaml:"id"`
	WeekNumber  int     `json:"weekNumber" yaml:"weekNumber"`
	Date        string  `json:"date" yaml:"date"`
	Project     string  `json:"project" yaml:"project"`
	TypeOfWork  string  `json:"typeOfWork" yaml:"typeOfWork"`
	Description string  `json:"description" yaml:"description"`
	Hours       float64 `json:"hours" yaml:"hours"`
	Status      Status  `json:"status,omitempty" yaml:"-"` // derived, never stored
}

// EntryPatch carries the fields of a partial update. Nil fields are left untouched.
type EntryPatch struct {
	WeekNumber  *int     `json:"weekNumber,omitempty" validate:"omitempty,min=1,max=53"`
	Date        *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Project     *string  `json:"project,omitempty" validate:"omitempty,project"`
	TypeOfWork  *string  `json:"typeOfWork,omitempty" validate:"omitempty,worktype"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Hours       *float64 `json:"hours,omitempty" validate:"omitempty,gt=0,lte=24"`
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.WeekNumber == nil && p.Date == nil && p.Project == nil &&
		p.TypeOfWork == nil && p.Description == nil && p.Hours == nil
}

// Normalize trims the free-text fields in place.
func (p *EntryPatch) Normalize() {
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		p.Description = &d
	}
}

// Apply returns a copy of e with every supplied patch field written over it.
func (e TimesheetEntry) Apply(p EntryPatch) TimesheetEntry {
	if p.WeekNumber != nil {
		e.WeekNumber = *p.WeekNumber
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Project != nil {
		e.Project = *p.Project
	}
	if p.TypeOfWork != nil {
		e.TypeOfWork = *p.TypeOfWork
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Hours != nil {
		e.Hours = *p.Hours
	}
	return e
}

// ISOWeek returns the ISO 8601 week number of a YYYY-MM-DD date.
func ISOWeek(date string) (int, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, err
	}
	_, week := t.ISOWeek()
	return week, nil
}

// UserCredential is a known user as loaded from seed data. It never leaves the auth package
// in serialised form.
type UserCredential struct {
	ID           int    `yaml:"id"`
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"passwordHash"`
	// Password is accepted in demo seed files only; it is hashed on load.
	Password string `yaml:"password"`
}

// Identity is what an authenticated session knows about its user.
type Identity struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Catalog holds the enumerated values an entry may reference.
type Catalog struct {
	Projects  []string `yaml:"projects"`
	WorkTypes []string `yaml:"workTypes"`
}

func (c Catalog) HasProject(name string) bool {
	return contains(c.Projects, name)
}

func (c Catalog) HasWorkType(name string) bool {
	return contains(c.WorkTypes, name)
}

// CheckEntry reports every field of e that a created entry could not hold. A zero
// weekNumber is accepted because it is derived from the date.
func (c Catalog) CheckEntry(e TimesheetEntry) error {
	ve := NewValidationError()
	if e.WeekNumber < 0 || e.WeekNumber > 53 {
		ve.Add("weekNumber", "Week number must be between 1 and 53")
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		ve.Add("date", "Date must be a valid date (YYYY-MM-DD)")
	}
	if !c.HasProject(e.Project) {
		ve.Add("project", "Project must be one of: "+strings.Join(c.Projects, ", "))
	}
	if !c.HasWorkType(e.TypeOfWork) {
		ve.Add("typeOfWork", "Type of work must be one of: "+strings.Join(c.WorkTypes, ", "))
	}
	if strings.TrimSpace(e.Description) == "" {
		ve.Add("description", "Description is required")
	}
	if e.Hours <= 0 || e.Hours > 24 {
		ve.Add("hours", "Hours must be greater than 0 and at most 24")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type WeekSummary struct {
	WeekNumber int     `json:"weekNumber"`
	Hours      float64 `json:"hours"`
	Entries    int     `json:"entries"`
	Status     Status  `json:"status"`
}
