package domain

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/form"
)

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP:
		return true
	}
	return false
}

// TaxRates are the Belgian VAT bands offered by the product form. The field
// itself accepts any decimal; only the form validator restricts it.
var TaxRates = []float64{0.00, 0.06, 0.12, 0.21}

const DefaultTaxRate = 0.21

// Product is a sellable item. Price is a decimal currency amount; SKU is
// unique by convention only, nothing client-side enforces it.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    Currency  `json:"currency"`
	TaxRate     float64   `json:"tax_rate"`
	SKU         string    `json:"sku,omitempty"`
	Category    string    `json:"category,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (p Product) EntityID() string { return p.ID }

// SearchFields is the fixed subset the product filter matches against.
func (p Product) SearchFields() []string {
	return []string{p.Name, p.Description, p.SKU}
}

// NewDraft is the create-mode form default.
func NewDraft() Product {
	return Product{
		Currency: CurrencyEUR,
		TaxRate:  DefaultTaxRate,
		Active:   true,
	}
}

// Merge keeps the server-assigned fields of old and takes everything
// user-editable from patch.
func Merge(old, patch Product) Product {
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = old.UpdatedAt
	return patch
}

// Validate runs the client-side pre-submit checks, including the VAT band
// restriction of the product form.
func Validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return form.NewValidationError("name", "is required")
	}
	if p.Price < 0 {
		return form.NewValidationError("price", "must not be negative")
	}
	if !p.Currency.Valid() {
		return form.NewValidationError("currency", "must be one of EUR, USD, GBP")
	}
	if !allowedTaxRate(p.TaxRate) {
		return form.NewValidationError("tax_rate", "must be a Belgian VAT band (0%, 6%, 12% or 21%)")
	}
	return nil
}

func allowedTaxRate(rate float64) bool {
	for _, allowed := range TaxRates {
		if rate == allowed {
			return true
		}
	}
	return false
}

// ParsePrice converts the price text field back to its numeric type on
// submit. Prices are edited as text but stored as numbers.
func ParsePrice(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, form.NewValidationError("price", "is not a number")
	}
	return value, nil
}

var skuStrip = regexp.MustCompile(`[^A-Z0-9]`)

// SuggestSKU derives a SKU suggestion from the product name: up to six
// alphanumeric characters plus a random three-digit suffix.
func SuggestSKU(name string) string {
	prefix := skuStrip.ReplaceAllString(strings.ToUpper(name), "")
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	return fmt.Sprintf("%s-%03d", prefix, rand.Intn(1000))
}
