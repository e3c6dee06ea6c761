package domain

import (
	"strings"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/form"
)

// Account is a company record. The canonical address shape is the
// structured one (street, number, box, postal code, city, country); older
// API revisions returned a single flat address string, which is accepted on
// read through LegacyAddress and surfaced by FormatAddress.
type Account struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ContactID     string   `json:"contact_id,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	Website       string   `json:"website,omitempty"`
	AnnualRevenue *float64 `json:"annual_revenue,omitempty"`
	EmployeeCount *int     `json:"employee_count,omitempty"`

	Street     string `json:"street,omitempty"`
	StreetNr   string `json:"street_nr,omitempty"`
	Box        string `json:"box,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`

	// LegacyAddress carries the flat address string of pre-migration records.
	LegacyAddress string `json:"address,omitempty"`

	VATNumber string    `json:"vat_number,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (a Account) EntityID() string { return a.ID }

// SearchFields is the fixed subset the account filter matches against.
func (a Account) SearchFields() []string {
	return []string{a.Name, a.Industry, a.VATNumber}
}

// FormatAddress renders the structured fields as one line, falling back to
// the legacy flat address for records that predate the structured shape.
func (a Account) FormatAddress() string {
	street := strings.TrimSpace(strings.Join(nonEmpty(a.Street, a.StreetNr, a.Box), " "))
	locality := strings.TrimSpace(strings.Join(nonEmpty(a.PostalCode, a.City), " "))
	parts := nonEmpty(street, locality, a.Country)
	if len(parts) == 0 {
		return a.LegacyAddress
	}
	return strings.Join(parts, ", ")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// NewDraft is the create-mode form default.
func NewDraft() Account {
	return Account{}
}

// Merge keeps the server-assigned fields of old and takes everything
// user-editable from patch.
func Merge(old, patch Account) Account {
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = old.UpdatedAt
	return patch
}

// Validate runs the client-side pre-submit checks. The VAT number is
// free-text here; format checking happens in the lookup service, not on
// save.
func Validate(a Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return form.NewValidationError("name", "is required")
	}
	if a.AnnualRevenue != nil && *a.AnnualRevenue < 0 {
		return form.NewValidationError("annual_revenue", "must not be negative")
	}
	if a.EmployeeCount != nil && *a.EmployeeCount <= 0 {
		return form.NewValidationError("employee_count", "must be positive")
	}
	return nil
}
