package domain

import (
	"strings"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/form"
)

type EventType string

const (
	TypeMeeting    EventType = "meeting"
	TypeCall       EventType = "call"
	TypeDeadline   EventType = "deadline"
	TypeInvoiceDue EventType = "invoice_due"
)

func (t EventType) Valid() bool {
	switch t {
	case TypeMeeting, TypeCall, TypeDeadline, TypeInvoiceDue:
		return true
	}
	return false
}

// RelatedKind tags the polymorphic weak reference an event may carry.
type RelatedKind string

const (
	RelatedNone    RelatedKind = ""
	RelatedContact RelatedKind = "contact"
	RelatedAccount RelatedKind = "account"
)

// RelatedRef is the tagged union {Contact(id) | Account(id) | None}. It is
// resolved by explicit lookup against the relevant cache and is never
// assumed valid.
type RelatedRef struct {
	Kind RelatedKind
	ID   string
}

func (r RelatedRef) IsZero() bool {
	return r.Kind == RelatedNone || r.ID == ""
}

// CalendarEvent is a calendar entry. End >= start is expected but not
// locally enforced.
type CalendarEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Type            EventType `json:"event_type"`
	RelatedID       string    `json:"related_id,omitempty"`
	RelatedType     string    `json:"related_type,omitempty"`
	Location        string    `json:"location,omitempty"`
	AllDay          bool      `json:"all_day"`
	ReminderMinutes int       `json:"reminder_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

func (e CalendarEvent) EntityID() string { return e.ID }

// SearchFields is the fixed subset the event filter matches against.
func (e CalendarEvent) SearchFields() []string {
	return []string{e.Title, e.Description}
}

// Related returns the event's weak reference as a tagged union.
func (e CalendarEvent) Related() RelatedRef {
	switch RelatedKind(e.RelatedType) {
	case RelatedContact:
		return RelatedRef{Kind: RelatedContact, ID: e.RelatedID}
	case RelatedAccount:
		return RelatedRef{Kind: RelatedAccount, ID: e.RelatedID}
	default:
		return RelatedRef{}
	}
}

// SetRelated writes the tagged union back onto the wire fields.
func SetRelated(draft CalendarEvent, ref RelatedRef) CalendarEvent {
	if ref.IsZero() {
		draft.RelatedID = ""
		draft.RelatedType = ""
		return draft
	}
	draft.RelatedID = ref.ID
	draft.RelatedType = string(ref.Kind)
	return draft
}

// NewDraft is the create-mode form default.
func NewDraft() CalendarEvent {
	return CalendarEvent{
		Type:            TypeMeeting,
		ReminderMinutes: 30,
	}
}

// Merge keeps the server-assigned fields of old and takes everything
// user-editable from patch.
func Merge(old, patch CalendarEvent) CalendarEvent {
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = old.UpdatedAt
	return patch
}

// Validate runs the client-side pre-submit checks.
func Validate(e CalendarEvent) error {
	if strings.TrimSpace(e.Title) == "" {
		return form.NewValidationError("title", "is required")
	}
	if e.StartDate.IsZero() {
		return form.NewValidationError("start_date", "is required")
	}
	if e.EndDate.IsZero() {
		return form.NewValidationError("end_date", "is required")
	}
	if !e.Type.Valid() {
		return form.NewValidationError("event_type", "must be meeting, call, deadline or invoice_due")
	}
	return nil
}
