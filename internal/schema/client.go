package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/orbitcrm/record_console_app/internal/dto"
)

func enumStrings[T ~string](members []T) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = string(m)
	}
	return out
}

// clientFields declares the client schema in presentation order. Banner
// ordering follows this slice, so tests can assert on it.
var clientFields = []Field[dto.ClientForm]{
	{Path: "companyName", Label: "Company name", Kind: KindString, Required: true,
		Value: func(f *dto.ClientForm) string { return f.CompanyName }},
	{Path: "contactName", Label: "Contact name", Kind: KindString, Required: true,
		Value: func(f *dto.ClientForm) string { return f.ContactName }},
	{Path: "email", Label: "Email", Kind: KindEmail,
		Value: func(f *dto.ClientForm) string { return f.Email }},
	{Path: "phone", Label: "Phone", Kind: KindString,
		Value: func(f *dto.ClientForm) string { return f.Phone }},
	{Path: "website", Label: "Website", Kind: KindURL,
		Value: func(f *dto.ClientForm) string { return f.Website }},
	{Path: "status", Label: "Status", Kind: KindString, Required: true,
		Enum: enumStrings(domain.ClientStatuses),
		Value: func(f *dto.ClientForm) string { return string(f.Status) }},
	{Path: "category", Label: "Category", Kind: KindString, Required: true,
		Enum: enumStrings(domain.ClientCategories),
		Value: func(f *dto.ClientForm) string { return string(f.Category) }},

	// Address sub-fields are unconditionally required: once the record shows
	// an address at all, each part must be present.
	{Path: "address.street", Label: "Street", Kind: KindString, Required: true,
		Value: func(f *dto.ClientForm) string { return f.Address.Street }},
	{Path: "address.suburb", Label: "Suburb", Kind: KindString, Required: true,
		Value: func(f *dto.ClientForm) string { return f.Address.Suburb }},
	{Path: "address.city", Label: "City", Kind: KindString, Required: true,
		Value: func(f *dto.ClientForm) string { return f.Address.City }},
	{Path: "address.state", Label: "State", Kind: KindString, Required: true,
		Value: func(f *dto.ClientForm) string { return f.Address.State }},
	{Path: "address.country", Label: "Country", Kind: KindString, Required: true,
		Value: func(f *dto.ClientForm) string { return f.Address.Country }},
	{Path: "address.postalCode", Label: "Postal code", Kind: KindString, Required: true,
		Value: func(f *dto.ClientForm) string { return f.Address.PostalCode }},

	{Path: "socialProfiles.linkedin", Label: "LinkedIn", Kind: KindURL,
		Value: func(f *dto.ClientForm) string { return f.Social.LinkedIn }},
	{Path: "socialProfiles.twitter", Label: "Twitter", Kind: KindURL,
		Value: func(f *dto.ClientForm) string { return f.Social.Twitter }},
	{Path: "socialProfiles.facebook", Label: "Facebook", Kind: KindURL,
		Value: func(f *dto.ClientForm) string { return f.Social.Facebook }},
	{Path: "socialProfiles.instagram", Label: "Instagram", Kind: KindURL,
		Value: func(f *dto.ClientForm) string { return f.Social.Instagram }},

	{Path: "creditLimit", Label: "Credit limit", Kind: KindNumber,
		Value: func(f *dto.ClientForm) string { return f.CreditLimit }},
	{Path: "discountPercentage", Label: "Discount percentage", Kind: KindNumber,
		HasRange: true, Min: 0, Max: 100,
		Value: func(f *dto.ClientForm) string { return f.DiscountPercentage }},
	{Path: "annualRevenue", Label: "Annual revenue", Kind: KindNumber,
		Value: func(f *dto.ClientForm) string { return f.AnnualRevenue }},
	{Path: "satisfactionScore", Label: "Satisfaction score", Kind: KindNumber,
		HasRange: true, Min: 0, Max: 10,
		Value: func(f *dto.ClientForm) string { return f.SatisfactionScore }},
	{Path: "npsScore", Label: "NPS score", Kind: KindNumber,
		HasRange: true, Min: -10, Max: 10,
		Value: func(f *dto.ClientForm) string { return f.NPSScore }},

	{Path: "geofenceRadius", Label: "Geofence radius", Kind: KindNumber,
		HasRange: true, Min: domain.GeofenceRadiusMin, Max: domain.GeofenceRadiusMax,
		Value: func(f *dto.ClientForm) string { return f.GeofenceRadius }},
	{Path: "latitude", Label: "Latitude", Kind: KindNumber,
		HasRange: true, Min: -90, Max: 90,
		Value: func(f *dto.ClientForm) string { return f.Latitude }},
	{Path: "longitude", Label: "Longitude", Kind: KindNumber,
		HasRange: true, Min: -180, Max: 180,
		Value: func(f *dto.ClientForm) string { return f.Longitude }},

	{Path: "logo", Label: "Logo", Kind: KindURL,
		Value: func(f *dto.ClientForm) string { return f.LogoURL }},
}

// ValidateClient runs the client schema plus the cross-field rules that static
// per-field declarations cannot express. Returns nil when the form is valid.
func ValidateClient(form *dto.ClientForm) *Errors {
	errs := NewErrors()
	runFields(form, clientFields, errs)
	clientGeofenceRule(form, errs)
	if errs.Empty() {
		return nil
	}
	return errs
}

// clientGeofenceRule: enabling the geofence makes type, radius, latitude and
// longitude required. Disabled geofence fields are permitted but ignored.
func clientGeofenceRule(form *dto.ClientForm, errs *Errors) {
	if !form.EnableGeofence {
		return
	}
	if strings.TrimSpace(string(form.GeofenceType)) == "" {
		errs.Add("geofenceType", "Geofence type is required")
	} else if !domain.ValidGeofenceType(form.GeofenceType) {
		errs.Add("geofenceType", fmt.Sprintf("Geofence type must be one of [%s]",
			strings.Join(enumStrings(domain.GeofenceTypes), ", ")))
	}
	if !parseableNumber(form.GeofenceRadius) {
		errs.Add("geofenceRadius", "Geofence radius is required")
	}
	if !parseableNumber(form.Latitude) {
		errs.Add("latitude", "Latitude is required")
	}
	if !parseableNumber(form.Longitude) {
		errs.Add("longitude", "Longitude is required")
	}
}

func parseableNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
