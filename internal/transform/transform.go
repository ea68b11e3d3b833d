// Package transform holds the pure mapping functions between persisted
// records, editable form state, and API-ready payloads. No I/O happens here.
package transform

import (
	"strconv"
	"strings"

	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PayloadMode distinguishes create from update submissions. The two modes
// share a schema but not a payload shape: ref generation and the geofence
// radius default apply at create only, and ref is always stripped on update.
type PayloadMode int

const (
	PayloadModeCreate PayloadMode = iota
	PayloadModeUpdate
)

// parseFloatField coerces a numeric-looking form string. Unparsable or empty
// input means "field absent", never NaN or zero.
func parseFloatField(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}

// parseIntField is parseFloatField for integer-valued fields (radius).
func parseIntField(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// parseDecimalField coerces money-valued strings.
func parseDecimalField(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// splitCSV splits comma-separated free text, trimming entries and dropping
// empties.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// joinCSV renders a tag slice back into the form's free-text shape.
func joinCSV(items []string) string {
	return strings.Join(items, ", ")
}

// formatFloat renders an optional number for a text input.
func formatFloat(n *float64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatFloat(*n, 'f', -1, 64)
}

// formatDecimal renders an optional decimal for a text input.
func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// refOnly discards the display projection of a fetched reference, keeping the
// writable uid.
func refOnly(rd *domain.RefDisplay) *domain.Reference {
	if rd == nil {
		return nil
	}
	r := rd.Ref()
	return &r
}

// displayOnly rebuilds the fetch-shape projection from a bare reference.
func displayOnly(r *domain.Reference) *domain.RefDisplay {
	if r == nil {
		return nil
	}
	return &domain.RefDisplay{UID: r.UID}
}

// datePtr returns a copy of d when set, nil when unset.
func datePtr(d domain.CalendarDate) *domain.CalendarDate {
	if d.IsZero() {
		return nil
	}
	out := d
	return &out
}

// dateValue dereferences an optional calendar date.
func dateValue(d *domain.CalendarDate) domain.CalendarDate {
	if d == nil {
		return domain.CalendarDate{}
	}
	return *d
}
