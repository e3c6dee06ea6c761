package stubapi

import (
	"time"
)

// Records double as wire payloads: the json tags mirror the client's
// domain structs, the gorm tags shape the sqlite schema.

type userRecord struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	Picture      string    `json:"picture,omitempty"`
	AuthType     string    `json:"auth_type"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	Plan         string    `json:"current_plan"`
	Roles        []string  `json:"roles" gorm:"serializer:json"`
	CreatedAt    time.Time `json:"created_at"`
}

type sessionRecord struct {
	Token     string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

type contactRecord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	OwnerID   string    `json:"-" gorm:"index"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Position  string    `json:"position,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type accountRecord struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	OwnerID       string    `json:"-" gorm:"index"`
	Name          string    `json:"name"`
	ContactID     string    `json:"contact_id,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Website       string    `json:"website,omitempty"`
	AnnualRevenue *float64  `json:"annual_revenue,omitempty"`
	EmployeeCount *int      `json:"employee_count,omitempty"`
	Street        string    `json:"street,omitempty"`
	StreetNr      string    `json:"street_nr,omitempty"`
	Box           string    `json:"box,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	City          string    `json:"city,omitempty"`
	Country       string    `json:"country,omitempty"`
	VATNumber     string    `json:"vat_number,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type productRecord struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	OwnerID     string    `json:"-" gorm:"index"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	TaxRate     float64   `json:"tax_rate"`
	SKU         string    `json:"sku,omitempty"`
	Category    string    `json:"category,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type lineItem struct {
	ProductID   string  `json:"product_id,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description,omitempty"`
}

type invoiceRecord struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	OwnerID       string     `json:"-" gorm:"index"`
	InvoiceNumber string     `json:"invoice_number" gorm:"uniqueIndex"`
	AccountID     string     `json:"account_id" gorm:"index"`
	ContactID     string     `json:"contact_id,omitempty"`
	Items         []lineItem `json:"items" gorm:"serializer:json"`
	Subtotal      float64    `json:"subtotal"`
	TaxAmount     float64    `json:"tax_amount"`
	TotalAmount   float64    `json:"total_amount"`
	Currency      string     `json:"currency,omitempty"`
	IssueDate     time.Time  `json:"issue_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        string     `json:"status"`
	Type          string     `json:"invoice_type"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type eventRecord struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	OwnerID         string    `json:"-" gorm:"index"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Type            string    `json:"event_type"`
	RelatedID       string    `json:"related_id,omitempty"`
	RelatedType     string    `json:"related_type,omitempty"`
	Location        string    `json:"location,omitempty"`
	AllDay          bool      `json:"all_day"`
	ReminderMinutes int       `json:"reminder_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type customFieldRecord struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	EntityType   string    `json:"entity_type"`
	FieldName    string    `json:"field_name"`
	FieldType    string    `json:"field_type"`
	FieldOptions []string  `json:"field_options" gorm:"serializer:json"`
	Required     bool      `json:"required"`
	CreatedAt    time.Time `json:"created_at"`
}

type paymentSessionRecord struct {
	ID          string `json:"session_id" gorm:"primaryKey"`
	UserID      string `json:"-" gorm:"index"`
	PackageID   string `json:"-"`
	Status      string `json:"status"`
	Polls       int    `json:"-"`
	PaidAfter   int    `json:"-"`
	FinalStatus string `json:"-"`
	CreatedAt   time.Time
}
