package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/form"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

type Type string

const (
	TypeInvoice    Type = "invoice"
	TypeCreditNote Type = "credit_note"
)

// ErrLastItem rejects removing the only line item: an invoice's item
// sequence must stay non-empty.
var ErrLastItem = errors.New("invoice_needs_at_least_one_item")

// LineItem references a product weakly; the product may have been deleted
// since, in which case the reference dangles and renders as "Unknown
// Product".
type LineItem struct {
	ProductID   string  `json:"product_id,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description,omitempty"`
}

// Invoice is the billing document. InvoiceNumber, IssueDate and the three
// amount fields are server-computed; the client's own totals are a preview
// only.
type Invoice struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	AccountID     string     `json:"account_id"`
	ContactID     string     `json:"contact_id,omitempty"`
	Items         []LineItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	TaxAmount     float64    `json:"tax_amount"`
	TotalAmount   float64    `json:"total_amount"`
	Currency      string     `json:"currency,omitempty"`
	IssueDate     time.Time  `json:"issue_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        Status     `json:"status"`
	Type          Type       `json:"invoice_type"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at,omitempty"`
}

func (i Invoice) EntityID() string { return i.ID }

// SearchFields covers the invoice number; the account name is resolved by
// the caller, which has the account cache at hand.
func (i Invoice) SearchFields() []string {
	return []string{i.InvoiceNumber}
}

// NewDraft is the create-mode form default: one empty line item.
func NewDraft() Invoice {
	return Invoice{
		Items:  []LineItem{{Quantity: 1}},
		Status: StatusDraft,
		Type:   TypeInvoice,
	}
}

// Merge keeps the server-assigned fields of old and takes everything
// user-editable from patch. The amounts carried over from old are stale
// until the next Load; displays after save must use the server record.
func Merge(old, patch Invoice) Invoice {
	patch.ID = old.ID
	patch.InvoiceNumber = old.InvoiceNumber
	patch.IssueDate = old.IssueDate
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = old.UpdatedAt
	patch.Subtotal = old.Subtotal
	patch.TaxAmount = old.TaxAmount
	patch.TotalAmount = old.TotalAmount
	return patch
}

// Validate runs the client-side pre-submit checks.
func Validate(i Invoice) error {
	if strings.TrimSpace(i.AccountID) == "" {
		return form.NewValidationError("account_id", "is required")
	}
	if len(i.Items) == 0 {
		return form.NewValidationError("items", "must not be empty")
	}
	for _, item := range i.Items {
		if item.Quantity <= 0 {
			return form.NewValidationError("items.quantity", "must be positive")
		}
		if item.UnitPrice < 0 {
			return form.NewValidationError("items.unit_price", "must not be negative")
		}
	}
	switch i.Type {
	case TypeInvoice, TypeCreditNote:
	default:
		return form.NewValidationError("invoice_type", "must be invoice or credit_note")
	}
	return nil
}

// AddItem appends an empty line item to the draft.
func AddItem(draft Invoice) Invoice {
	draft.Items = append(cloneItems(draft.Items), LineItem{Quantity: 1})
	return draft
}

// RemoveItem drops the line item at index. Removing the last remaining item
// is rejected.
func RemoveItem(draft Invoice, index int) (Invoice, error) {
	if len(draft.Items) <= 1 {
		return draft, ErrLastItem
	}
	if index < 0 || index >= len(draft.Items) {
		return draft, nil
	}
	items := cloneItems(draft.Items)
	draft.Items = append(items[:index], items[index+1:]...)
	return draft, nil
}

// ProductLookup resolves a product reference for item auto-fill.
type ProductLookup func(id string) (name string, price float64, ok bool)

// SetItemProduct points the line item at a product and auto-fills its unit
// price and description from the referenced product.
func SetItemProduct(draft Invoice, index int, productID string, lookup ProductLookup) Invoice {
	if index < 0 || index >= len(draft.Items) {
		return draft
	}
	items := cloneItems(draft.Items)
	items[index].ProductID = productID
	if lookup != nil {
		if name, price, ok := lookup(productID); ok {
			items[index].UnitPrice = price
			items[index].Description = name
		}
	}
	draft.Items = items
	return draft
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
