package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// calendarDateLayout is the only wire form for date-valued fields. Dates carry
// no time-of-day and must never shift by a day when serialized from a runtime
// in a non-UTC timezone.
const calendarDateLayout = "2006-01-02"

// CalendarDate is a timezone-free calendar date. The zero value means "unset".
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate builds a CalendarDate from its parts.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// ParseCalendarDate accepts either a bare YYYY-MM-DD string or a full RFC3339
// timestamp. For timestamps the calendar part is taken as written, never
// converted to the local zone first.
func ParseCalendarDate(s string) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CalendarDate{}, fmt.Errorf("empty date string")
	}
	if len(s) >= len(calendarDateLayout) {
		if t, err := time.Parse(calendarDateLayout, s[:len(calendarDateLayout)]); err == nil {
			// Guard against strings like "2024-03-05x..." that are neither form.
			if len(s) == len(calendarDateLayout) || s[len(calendarDateLayout)] == 'T' {
				return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
			}
		}
	}
	return CalendarDate{}, fmt.Errorf("invalid calendar date %q", s)
}

// IsZero reports whether the date is unset.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String renders the date in YYYY-MM-DD form, or "" when unset.
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Equal reports whether two dates name the same calendar day.
func (d CalendarDate) Equal(o CalendarDate) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// MarshalJSON emits the bare YYYY-MM-DD string.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null, YYYY-MM-DD, or an RFC3339 timestamp.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = CalendarDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = CalendarDate{}
		return nil
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Reference is a weak pointer to another entity by numeric id. It never embeds
// the referenced entity; resolution belongs to the upstream service.
type Reference struct {
	UID int64 `json:"uid"`
}

// RefDisplay is a view-only projection of a referenced entity. It is rendered
// but never written upstream.
type RefDisplay struct {
	UID   int64  `json:"uid"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Ref strips a display projection down to the writable reference.
func (rd RefDisplay) Ref() Reference {
	return Reference{UID: rd.UID}
}

// Address groups the postal fields. Once a record shows an address, every
// sub-field is required; the address concept is all-or-nothing.
type Address struct {
	Street     string `json:"street"`
	Suburb     string `json:"suburb"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// SocialProfiles holds optional profile URLs. Empty string means absent.
type SocialProfiles struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}
