package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ClientStatus is the closed set of client lifecycle states.
type ClientStatus string

const (
	ClientProspect ClientStatus = "prospect"
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientArchived ClientStatus = "archived"
)

// ClientStatuses lists the members in declaration order.
var ClientStatuses = []ClientStatus{ClientProspect, ClientActive, ClientInactive, ClientArchived}

// ClientCategory is the closed set of client categories.
type ClientCategory string

const (
	CategoryRetail     ClientCategory = "retail"
	CategoryWholesale  ClientCategory = "wholesale"
	CategoryCorporate  ClientCategory = "corporate"
	CategoryGovernment ClientCategory = "government"
)

// ClientCategories lists the members in declaration order.
var ClientCategories = []ClientCategory{CategoryRetail, CategoryWholesale, CategoryCorporate, CategoryGovernment}

// GeofenceType is the closed set of geofence behaviors.
type GeofenceType string

const (
	GeofenceNone       GeofenceType = "none"
	GeofenceNotify     GeofenceType = "notify"
	GeofenceAlert      GeofenceType = "alert"
	GeofenceRestricted GeofenceType = "restricted"
)

// GeofenceTypes lists the members in declaration order.
var GeofenceTypes = []GeofenceType{GeofenceNone, GeofenceNotify, GeofenceAlert, GeofenceRestricted}

// Geofence limits. Radius is in meters.
const (
	GeofenceRadiusMin = 100
	GeofenceRadiusMax = 5000
)

// GeofenceConfig configures location monitoring for a client site. When
// Enabled is true, Type, Radius, Latitude and Longitude are all required.
type GeofenceConfig struct {
	Type      GeofenceType `json:"type"`
	Radius    int          `json:"radius"`
	Enabled   bool         `json:"enabled"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
}

// Client is a CRM client record as persisted upstream. UID is zero until the
// record is created and immutable afterwards.
type Client struct {
	UID                int64            `json:"uid,omitempty"`
	Ref                string           `json:"ref,omitempty"`
	CompanyName        string           `json:"companyName"`
	ContactName        string           `json:"contactName"`
	Email              string           `json:"email,omitempty"`
	Phone              string           `json:"phone,omitempty"`
	Website            string           `json:"website,omitempty"`
	Status             ClientStatus     `json:"status"`
	Category           ClientCategory   `json:"category"`
	Address            Address          `json:"address"`
	Social             SocialProfiles   `json:"socialProfiles"`
	Geofence           GeofenceConfig   `json:"geofence"`
	CreditLimit        *decimal.Decimal `json:"creditLimit,omitempty"`
	DiscountPercentage *float64         `json:"discountPercentage,omitempty"`
	AnnualRevenue      *decimal.Decimal `json:"annualRevenue,omitempty"`
	SatisfactionScore  *float64         `json:"satisfactionScore,omitempty"`
	NPSScore           *float64         `json:"npsScore,omitempty"`
	Tags               []string         `json:"tags,omitempty"`
	VisibleCategories  []string         `json:"visibleCategories,omitempty"`
	Birthday           CalendarDate     `json:"birthday,omitempty"`
	OnboardedAt        CalendarDate     `json:"onboardedAt,omitempty"`
	LogoURL            string           `json:"logo,omitempty"`
	Notes              string           `json:"notes,omitempty"`

	// References carry display projections when fetched; only the uid is ever
	// written back.
	AssignedSalesRep *RefDisplay `json:"assignedSalesRep,omitempty"`
	Organisation     *RefDisplay `json:"organisation,omitempty"`
	Branch           *RefDisplay `json:"branch,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`

	// Server-assigned, never part of a write payload.
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// AttachmentKind tags the known nested-attachment shapes embedded on a client.
type AttachmentKind string

const (
	AttachmentQuotation AttachmentKind = "quotation"
	AttachmentCheckin   AttachmentKind = "checkin"
	AttachmentUnknown   AttachmentKind = "unknown"
)

// Attachment is a tagged union over the loosely-shaped nested objects the
// upstream service embeds on a client. Unrecognized kinds keep their raw JSON
// under Raw so nothing is lost on round-trip.
type Attachment struct {
	Kind      AttachmentKind  `json:"kind"`
	Quotation *QuotationRef   `json:"quotation,omitempty"`
	Checkin   *CheckinRef     `json:"checkin,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// QuotationRef is the known quotation shape embedded on a client.
type QuotationRef struct {
	UID    int64           `json:"uid"`
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
	Status string          `json:"status"`
}

// CheckinRef is the known check-in shape embedded on a client.
type CheckinRef struct {
	UID       int64     `json:"uid"`
	UserUID   int64     `json:"userUid"`
	At        time.Time `json:"at"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// UnmarshalJSON classifies an attachment by its fields, falling back to the
// Unknown kind with the raw bytes preserved.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	var probe struct {
		Kind AttachmentKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.Kind {
	case AttachmentQuotation:
		var body struct {
			Quotation *QuotationRef `json:"quotation"`
		}
		if err := json.Unmarshal(data, &body); err != nil || body.Quotation == nil {
			break
		}
		*a = Attachment{Kind: AttachmentQuotation, Quotation: body.Quotation}
		return nil
	case AttachmentCheckin:
		var body struct {
			Checkin *CheckinRef `json:"checkin"`
		}
		if err := json.Unmarshal(data, &body); err != nil || body.Checkin == nil {
			break
		}
		*a = Attachment{Kind: AttachmentCheckin, Checkin: body.Checkin}
		return nil
	}
	*a = Attachment{Kind: AttachmentUnknown, Raw: append(json.RawMessage(nil), data...)}
	return nil
}

// ValidClientStatus reports whether s is a declared status member.
func ValidClientStatus(s ClientStatus) bool {
	for _, m := range ClientStatuses {
		if s == m {
			return true
		}
	}
	return false
}

// ValidClientCategory reports whether c is a declared category member.
func ValidClientCategory(c ClientCategory) bool {
	for _, m := range ClientCategories {
		if c == m {
			return true
		}
	}
	return false
}

// ValidGeofenceType reports whether t is a declared geofence type member.
func ValidGeofenceType(t GeofenceType) bool {
	for _, m := range GeofenceTypes {
		if t == m {
			return true
		}
	}
	return false
}
