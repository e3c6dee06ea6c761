package domain

import (
	"strings"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/form"
)

// Contact is a person record. ID and CreatedAt are server-assigned and
// never mutated client-side.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Position  string    `json:"position,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (c Contact) EntityID() string { return c.ID }

// SearchFields is the fixed subset the contact filter matches against.
func (c Contact) SearchFields() []string {
	return []string{c.Name, c.Email, c.Company}
}

// NewDraft is the create-mode form default.
func NewDraft() Contact {
	return Contact{}
}

// Merge keeps the server-assigned fields of old and takes everything
// user-editable from patch.
func Merge(old, patch Contact) Contact {
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = old.UpdatedAt
	return patch
}

// Validate runs the client-side pre-submit checks.
func Validate(c Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return form.NewValidationError("name", "is required")
	}
	if email := strings.TrimSpace(c.Email); email != "" && !strings.Contains(email, "@") {
		return form.NewValidationError("email", "is not a valid address")
	}
	return nil
}
