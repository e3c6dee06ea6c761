package form

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (t task) EntityID() string { return t.ID }

func taskDefaults() task { return task{Title: "untitled"} }

func validateTask(t task) error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required")
	}
	return nil
}

func newTaskController(t *testing.T) (*Controller[task], *atomic.Int32) {
	t.Helper()

	var requests atomic.Int32
	var nextID atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var draft task
		_ = json.NewDecoder(r.Body).Decode(&draft)
		draft.ID = "t" + string(rune('0'+nextID.Add(1)))
		_ = json.NewEncoder(w).Encode(draft)
	})
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api := apiclient.NewWithHTTPClient(srv.URL, srv.Client(), zap.NewNop())
	st := store.New[task](api, zap.NewNop(), "tasks", nil)
	return NewController(st, taskDefaults, validateTask), &requests
}

func TestController_OpenCreateSeedsDefaults(t *testing.T) {
	c, _ := newTaskController(t)

	assert.Equal(t, StateClosed, c.State())
	c.OpenCreate()
	assert.Equal(t, StateOpen, c.State())
	assert.Equal(t, ModeCreate, c.Mode())
	assert.Equal(t, "untitled", c.Draft().Title)
	assert.Empty(t, c.SelectedID())
}

func TestController_OpenEditCopiesRecord(t *testing.T) {
	c, _ := newTaskController(t)

	c.OpenEdit(task{ID: "t9", Title: "existing"})
	assert.Equal(t, ModeEdit, c.Mode())
	assert.Equal(t, "t9", c.SelectedID())
	assert.Equal(t, "existing", c.Draft().Title)
}

func TestController_CancelDiscardsDraft(t *testing.T) {
	c, requests := newTaskController(t)

	c.OpenCreate()
	c.UpdateDraft(func(d task) task { d.Title = "edited"; return d })
	c.Cancel()

	assert.Equal(t, StateClosed, c.State())
	assert.Empty(t, c.Draft().Title)
	assert.Zero(t, requests.Load(), "cancel never reaches the remote store")
}

func TestController_SubmitValidationFailureKeepsFormOpen(t *testing.T) {
	c, requests := newTaskController(t)

	c.OpenCreate()
	c.UpdateDraft(func(d task) task { d.Title = "  "; return d })

	_, err := c.Submit(context.Background())
	require.Error(t, err)

	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "title", verr.Fields[0].Field)
	assert.Equal(t, StateOpen, c.State(), "validation failure keeps the form open")
	assert.Zero(t, requests.Load(), "no remote call on validation failure")
}

func TestController_SubmitCreateClosesForm(t *testing.T) {
	c, _ := newTaskController(t)

	c.OpenCreate()
	c.UpdateDraft(func(d task) task { d.Title = "ship it"; return d })

	committed, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, committed.ID)
	assert.Equal(t, StateClosed, c.State())
}

func TestController_SubmitWhileClosed(t *testing.T) {
	c, _ := newTaskController(t)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestController_DeleteDeclinedIsNoop(t *testing.T) {
	c, requests := newTaskController(t)

	c.OpenEdit(task{ID: "t1", Title: "keep me"})
	deleted, err := c.Delete(context.Background(), func() bool { return false })

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, StateOpen, c.State(), "declined delete leaves the form open")
	assert.Zero(t, requests.Load())
}

func TestController_DeleteConfirmedClosesForm(t *testing.T) {
	c, _ := newTaskController(t)

	c.OpenEdit(task{ID: "t1", Title: "goner"})
	deleted, err := c.Delete(context.Background(), func() bool { return true })

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, StateClosed, c.State())
}

func TestController_DeleteRequiresEditMode(t *testing.T) {
	c, _ := newTaskController(t)

	c.OpenCreate()
	_, err := c.Delete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotEdit)
}
