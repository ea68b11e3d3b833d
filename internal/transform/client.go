package transform

import (
	"strconv"
	"strings"

	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/orbitcrm/record_console_app/internal/dto"
)

// defaultGeofenceRadius is substituted for an empty radius at record-creation
// time only. Edit flows leave an empty radius absent. This asymmetry is
// deliberate product behavior; do not unify without product sign-off.
const defaultGeofenceRadius = 500

// ClientToForm maps a persisted client into editable form state. Reference
// fields keep only the uid; display projections are view concerns and never
// survive into the form.
func ClientToForm(c domain.Client) dto.ClientForm {
	form := dto.ClientForm{
		UID:         c.UID,
		Ref:         c.Ref,
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Website:     c.Website,
		Status:      c.Status,
		Category:    c.Category,
		Address:     c.Address,
		Social:      c.Social,

		EnableGeofence: c.Geofence.Enabled,
		GeofenceType:   c.Geofence.Type,
		Latitude:       formatFloat(c.Geofence.Latitude),
		Longitude:      formatFloat(c.Geofence.Longitude),

		CreditLimit:        formatDecimal(c.CreditLimit),
		DiscountPercentage: formatFloat(c.DiscountPercentage),
		AnnualRevenue:      formatDecimal(c.AnnualRevenue),
		SatisfactionScore:  formatFloat(c.SatisfactionScore),
		NPSScore:           formatFloat(c.NPSScore),

		Tags:              joinCSV(c.Tags),
		VisibleCategories: joinCSV(c.VisibleCategories),

		Birthday:    datePtr(c.Birthday),
		OnboardedAt: datePtr(c.OnboardedAt),

		LogoURL: c.LogoURL,
		Notes:   c.Notes,

		AssignedSalesRep: refOnly(c.AssignedSalesRep),
		Organisation:     refOnly(c.Organisation),
		Branch:           refOnly(c.Branch),
	}
	if c.Geofence.Radius != 0 {
		form.GeofenceRadius = strconv.Itoa(c.Geofence.Radius)
	}
	return form
}

// ClientPayload maps validated form state into the API-ready write shape.
// On create a missing ref code is generated and organisation/branch are
// injected from the session; on update the ref field is always stripped, the
// server treats it as immutable after creation.
func ClientPayload(form dto.ClientForm, mode PayloadMode, sess *domain.Session) dto.ClientPayload {
	p := dto.ClientPayload{
		CompanyName: strings.TrimSpace(form.CompanyName),
		ContactName: strings.TrimSpace(form.ContactName),
		Email:       strings.TrimSpace(form.Email),
		Phone:       strings.TrimSpace(form.Phone),
		Website:     strings.TrimSpace(form.Website),
		Status:      form.Status,
		Category:    form.Category,

		CreditLimit:        parseDecimalField(form.CreditLimit),
		DiscountPercentage: parseFloatField(form.DiscountPercentage),
		AnnualRevenue:      parseDecimalField(form.AnnualRevenue),
		SatisfactionScore:  parseFloatField(form.SatisfactionScore),
		NPSScore:           parseFloatField(form.NPSScore),

		Tags:              splitCSV(form.Tags),
		VisibleCategories: splitCSV(form.VisibleCategories),

		Birthday:    form.Birthday,
		OnboardedAt: form.OnboardedAt,

		LogoURL: strings.TrimSpace(form.LogoURL),
		Notes:   strings.TrimSpace(form.Notes),

		AssignedSalesRep: form.AssignedSalesRep,
		Organisation:     form.Organisation,
		Branch:           form.Branch,
	}

	if addr := trimAddress(form.Address); addr != (domain.Address{}) {
		p.Address = &addr
	}
	if soc := trimSocial(form.Social); soc != (domain.SocialProfiles{}) {
		p.Social = &soc
	}
	p.Geofence = geofencePayload(form, mode)

	if mode == PayloadModeCreate {
		ref := strings.TrimSpace(form.Ref)
		if ref == "" {
			ref = NewClientRef()
		}
		p.Ref = &ref
		if p.Organisation == nil {
			p.Organisation = sess.OrganisationRef()
		}
		if p.Branch == nil {
			p.Branch = sess.BranchRef()
		}
	}
	return p
}

// geofencePayload carries the geofence fields as entered. A disabled geofence
// is not cleared, its values just lose their required status; the radius
// default applies only to an enabled geofence at create time.
func geofencePayload(form dto.ClientForm, mode PayloadMode) *dto.GeofencePayload {
	radius := parseIntField(form.GeofenceRadius)
	lat := parseFloatField(form.Latitude)
	lng := parseFloatField(form.Longitude)

	if !form.EnableGeofence && form.GeofenceType == "" && radius == nil && lat == nil && lng == nil {
		return nil
	}
	if form.EnableGeofence && radius == nil && mode == PayloadModeCreate {
		def := defaultGeofenceRadius
		radius = &def
	}
	return &dto.GeofencePayload{
		Type:      form.GeofenceType,
		Radius:    radius,
		Enabled:   form.EnableGeofence,
		Latitude:  lat,
		Longitude: lng,
	}
}

// ClientFromPayload reconstructs the persisted-record shape a payload implies,
// as the upstream service would store it. uid is the server-assigned identity,
// zero for a not-yet-created record.
func ClientFromPayload(uid int64, p dto.ClientPayload) domain.Client {
	c := domain.Client{
		UID:         uid,
		CompanyName: p.CompanyName,
		ContactName: p.ContactName,
		Email:       p.Email,
		Phone:       p.Phone,
		Website:     p.Website,
		Status:      p.Status,
		Category:    p.Category,

		CreditLimit:        p.CreditLimit,
		DiscountPercentage: p.DiscountPercentage,
		AnnualRevenue:      p.AnnualRevenue,
		SatisfactionScore:  p.SatisfactionScore,
		NPSScore:           p.NPSScore,

		Tags:              p.Tags,
		VisibleCategories: p.VisibleCategories,

		Birthday:    dateValue(p.Birthday),
		OnboardedAt: dateValue(p.OnboardedAt),

		LogoURL: p.LogoURL,
		Notes:   p.Notes,

		AssignedSalesRep: displayOnly(p.AssignedSalesRep),
		Organisation:     displayOnly(p.Organisation),
		Branch:           displayOnly(p.Branch),
	}
	if p.Ref != nil {
		c.Ref = *p.Ref
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Social != nil {
		c.Social = *p.Social
	}
	if p.Geofence != nil {
		c.Geofence = domain.GeofenceConfig{
			Type:      p.Geofence.Type,
			Enabled:   p.Geofence.Enabled,
			Latitude:  p.Geofence.Latitude,
			Longitude: p.Geofence.Longitude,
		}
		if p.Geofence.Radius != nil {
			c.Geofence.Radius = *p.Geofence.Radius
		}
	}
	return c
}

func trimAddress(a domain.Address) domain.Address {
	return domain.Address{
		Street:     strings.TrimSpace(a.Street),
		Suburb:     strings.TrimSpace(a.Suburb),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		Country:    strings.TrimSpace(a.Country),
		PostalCode: strings.TrimSpace(a.PostalCode),
	}
}

func trimSocial(s domain.SocialProfiles) domain.SocialProfiles {
	return domain.SocialProfiles{
		LinkedIn:  strings.TrimSpace(s.LinkedIn),
		Twitter:   strings.TrimSpace(s.Twitter),
		Facebook:  strings.TrimSpace(s.Facebook),
		Instagram: strings.TrimSpace(s.Instagram),
	}
}
