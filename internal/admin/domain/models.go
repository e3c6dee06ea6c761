package domain

import (
	"fmt"
	"strings"
	"time"
)

// Roles a user can carry on top of the implicit base role.
const (
	RoleAdmin       = "admin"
	RoleModerator   = "moderator"
	RolePremiumUser = "premium_user"
)

// AuthType records how the account signs in.
type AuthType string

const (
	AuthTypeTraditional AuthType = "traditional"
	AuthTypeGoogle      AuthType = "google"
)

// User is an account as seen through the administration endpoints,
// including its payment aggregates.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Picture       string    `json:"picture,omitempty"`
	AuthType      AuthType  `json:"auth_type"`
	IsActive      bool      `json:"is_active"`
	Roles         []string  `json:"roles"`
	PaymentsCount int       `json:"payments_count"`
	TotalPaid     float64   `json:"total_paid"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NewUser is the payload for creating an account directly, bypassing
// self-service registration.
type NewUser struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

func (n NewUser) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(n.Email, "@") {
		return fmt.Errorf("invalid email address")
	}
	if len(n.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

// EntityType names the record type a custom field attaches to.
type EntityType string

const (
	EntityContacts EntityType = "contacts"
	EntityAccounts EntityType = "accounts"
	EntityProducts EntityType = "products"
	EntityInvoices EntityType = "invoices"
)

// FieldType is the input widget for a custom field.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldSelect  FieldType = "select"
	FieldBoolean FieldType = "boolean"
)

// CustomField is an extra attribute configured per entity type.
type CustomField struct {
	ID           string     `json:"id"`
	EntityType   EntityType `json:"entity_type"`
	FieldName    string     `json:"field_name"`
	FieldType    FieldType  `json:"field_type"`
	FieldOptions []string   `json:"field_options,omitempty"`
	Required     bool       `json:"required"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewCustomFieldDraft seeds the field form, text on contacts.
func NewCustomFieldDraft() CustomField {
	return CustomField{
		EntityType:   EntityContacts,
		FieldType:    FieldText,
		FieldOptions: []string{},
	}
}

func (f CustomField) Validate() error {
	if strings.TrimSpace(f.FieldName) == "" {
		return fmt.Errorf("field name is required")
	}
	switch f.EntityType {
	case EntityContacts, EntityAccounts, EntityProducts, EntityInvoices:
	default:
		return fmt.Errorf("unknown entity type %q", f.EntityType)
	}
	switch f.FieldType {
	case FieldText, FieldNumber, FieldDate, FieldBoolean:
	case FieldSelect:
		if len(f.FieldOptions) == 0 {
			return fmt.Errorf("select fields need at least one option")
		}
	default:
		return fmt.Errorf("unknown field type %q", f.FieldType)
	}
	return nil
}
