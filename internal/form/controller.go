package form

import (
	"context"
	"sync"

	"github.com/lumicrm/lumicrm-go/internal/store"
)

type State string

const (
	StateClosed State = "closed"
	StateOpen   State = "open"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// DefaultsFunc produces the type-specific empty draft for create mode, e.g.
// an invoice draft with one empty line item.
type DefaultsFunc[T store.Entity] func() T

// ValidateFunc checks a draft before submit. It returns a *ValidationError
// when the draft must stay in the form.
type ValidateFunc[T store.Entity] func(T) error

// ConfirmFunc is the yes/no gate shown before a delete.
type ConfirmFunc func() bool

// Controller drives one entity's create/edit modal. Two states: closed and
// open; open carries a create or edit mode, edit additionally the selected
// record's id. Submit and delete go through the entity's list store, so
// local state only changes after the remote store accepted the write.
type Controller[T store.Entity] struct {
	store    *store.Store[T]
	defaults DefaultsFunc[T]
	validate ValidateFunc[T]

	mu         sync.Mutex
	state      State
	mode       Mode
	selectedID string
	draft      T
}

func NewController[T store.Entity](st *store.Store[T], defaults DefaultsFunc[T], validate ValidateFunc[T]) *Controller[T] {
	return &Controller[T]{
		store:    st,
		defaults: defaults,
		validate: validate,
		state:    StateClosed,
	}
}

// OpenCreate transitions closed -> open(create) with a defaulted draft.
func (c *Controller[T]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateOpen
	c.mode = ModeCreate
	c.selectedID = ""
	c.draft = c.defaults()
}

// OpenEdit transitions closed -> open(edit, record) with the draft
// initialized as a copy of record.
func (c *Controller[T]) OpenEdit(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateOpen
	c.mode = ModeEdit
	c.selectedID = record.EntityID()
	c.draft = record
}

// Cancel closes the form and discards the draft.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
}

func (c *Controller[T]) close() {
	var zero T
	c.state = StateClosed
	c.mode = ""
	c.selectedID = ""
	c.draft = zero
}

// Draft returns the current draft value.
func (c *Controller[T]) Draft() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the draft wholesale. No-op while closed.
func (c *Controller[T]) SetDraft(draft T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return
	}
	c.draft = draft
}

// UpdateDraft applies fn to the draft. No-op while closed.
func (c *Controller[T]) UpdateDraft(fn func(T) T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return
	}
	c.draft = fn(c.draft)
}

// Submit validates the draft and routes it to the store's create or update.
// A validation failure keeps the form open and performs no remote call. A
// remote failure keeps the form open and leaves the store untouched. On
// success the form closes and the committed record is returned.
func (c *Controller[T]) Submit(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if c.state != StateOpen {
		return zero, ErrNotOpen
	}
	if c.validate != nil {
		if err := c.validate(c.draft); err != nil {
			return zero, err
		}
	}

	var (
		committed T
		err       error
	)
	switch c.mode {
	case ModeEdit:
		committed, err = c.store.Update(ctx, c.selectedID, c.draft)
	default:
		committed, err = c.store.Create(ctx, c.draft)
	}
	if err != nil {
		return zero, err
	}

	c.close()
	return committed, nil
}

// Delete removes the selected record after the confirmation gate. Declining
// leaves everything unchanged and reports deleted=false. Success closes the
// form.
func (c *Controller[T]) Delete(ctx context.Context, confirm ConfirmFunc) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateOpen || c.mode != ModeEdit {
		return false, ErrNotEdit
	}
	if confirm != nil && !confirm() {
		return false, nil
	}

	if err := c.store.Remove(ctx, c.selectedID); err != nil {
		return false, err
	}

	c.close()
	return true, nil
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T]) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller[T]) SelectedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}
