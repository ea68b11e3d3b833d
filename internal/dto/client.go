package dto

import (
	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClientForm is the editable form state for a client record. Numeric inputs
// stay strings here (they arrive from free-text fields); coercion happens in
// the transformer, not at bind time.
type ClientForm struct {
	UID int64  `json:"uid,omitempty"` // zero while creating
	Ref string `json:"ref,omitempty"`

	CompanyName string                `json:"companyName"`
	ContactName string                `json:"contactName"`
	Email       string                `json:"email"`
	Phone       string                `json:"phone"`
	Website     string                `json:"website"`
	Status      domain.ClientStatus   `json:"status"`
	Category    domain.ClientCategory `json:"category"`

	Address domain.Address        `json:"address"`
	Social  domain.SocialProfiles `json:"socialProfiles"`

	EnableGeofence bool                `json:"enableGeofence"`
	GeofenceType   domain.GeofenceType `json:"geofenceType"`
	GeofenceRadius string              `json:"geofenceRadius"`
	Latitude       string              `json:"latitude"`
	Longitude      string              `json:"longitude"`

	CreditLimit        string `json:"creditLimit"`
	DiscountPercentage string `json:"discountPercentage"`
	AnnualRevenue      string `json:"annualRevenue"`
	SatisfactionScore  string `json:"satisfactionScore"`
	NPSScore           string `json:"npsScore"`

	// Comma-separated free text, split by the transformer.
	Tags              string `json:"tags"`
	VisibleCategories string `json:"visibleCategories"`

	Birthday    *domain.CalendarDate `json:"birthday,omitempty"`
	OnboardedAt *domain.CalendarDate `json:"onboardedAt,omitempty"`

	LogoURL string `json:"logo"`
	Notes   string `json:"notes"`

	AssignedSalesRep *domain.Reference `json:"assignedSalesRep,omitempty"`
	Organisation     *domain.Reference `json:"organisation,omitempty"`
	Branch           *domain.Reference `json:"branch,omitempty"`
}

// GeofencePayload is the nested geofence shape sent upstream.
type GeofencePayload struct {
	Type      domain.GeofenceType `json:"type"`
	Radius    *int                `json:"radius,omitempty"`
	Enabled   bool                `json:"enabled"`
	Latitude  *float64            `json:"latitude,omitempty"`
	Longitude *float64            `json:"longitude,omitempty"`
}

// ClientPayload is the API-ready write shape for a client. Pointer fields
// distinguish "omitted" from zero; unparsable numerics are omitted, never sent
// as zero.
type ClientPayload struct {
	Ref *string `json:"ref,omitempty"` // create only, stripped on update

	CompanyName string                `json:"companyName"`
	ContactName string                `json:"contactName"`
	Email       string                `json:"email,omitempty"`
	Phone       string                `json:"phone,omitempty"`
	Website     string                `json:"website,omitempty"`
	Status      domain.ClientStatus   `json:"status"`
	Category    domain.ClientCategory `json:"category"`

	Address *domain.Address        `json:"address,omitempty"`
	Social  *domain.SocialProfiles `json:"socialProfiles,omitempty"`

	Geofence *GeofencePayload `json:"geofence,omitempty"`

	CreditLimit        *decimal.Decimal `json:"creditLimit,omitempty"`
	DiscountPercentage *float64         `json:"discountPercentage,omitempty"`
	AnnualRevenue      *decimal.Decimal `json:"annualRevenue,omitempty"`
	SatisfactionScore  *float64         `json:"satisfactionScore,omitempty"`
	NPSScore           *float64         `json:"npsScore,omitempty"`

	Tags              []string `json:"tags,omitempty"`
	VisibleCategories []string `json:"visibleCategories,omitempty"`

	Birthday    *domain.CalendarDate `json:"birthday,omitempty"`
	OnboardedAt *domain.CalendarDate `json:"onboardedAt,omitempty"`

	LogoURL string `json:"logo,omitempty"`
	Notes   string `json:"notes,omitempty"`

	AssignedSalesRep *domain.Reference `json:"assignedSalesRep,omitempty"`
	Organisation     *domain.Reference `json:"organisation,omitempty"`
	Branch           *domain.Reference `json:"branch,omitempty"`
}

// ClientStatusChangeRequest is the one-field quick-action body.
type ClientStatusChangeRequest struct {
	Status domain.ClientStatus `json:"status" binding:"required"`
}

// DeleteConfirmRequest carries the token issued by a delete request.
type DeleteConfirmRequest struct {
	ConfirmToken string `json:"confirmToken" binding:"required"`
}

// DeleteRequestResponse returns the confirmation token for a pending delete.
type DeleteRequestResponse struct {
	ConfirmToken string `json:"confirmToken"`
}

// ClientResponse pairs the record with its presentation lookups so views never
// rebuild categorization locally.
type ClientResponse struct {
	Client          domain.Client      `json:"client"`
	StatusDisplay   domain.DisplayInfo `json:"statusDisplay"`
	CategoryDisplay domain.DisplayInfo `json:"categoryDisplay"`
}

// ToClientResponse builds a ClientResponse from a domain client.
func ToClientResponse(c domain.Client) ClientResponse {
	return ClientResponse{
		Client:          c,
		StatusDisplay:   domain.ClientStatusDisplay[c.Status],
		CategoryDisplay: domain.ClientCategoryDisplay[c.Category],
	}
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListClientsResponse wraps the list of clients.
type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// ToListClientsResponse converts a slice of domain.Client to the list DTO.
func ToListClientsResponse(clients []domain.Client) ListClientsResponse {
	res := make([]ClientResponse, len(clients))
	for i, c := range clients {
		res[i] = ToClientResponse(c)
	}
	return ListClientsResponse{Clients: res}
}
