package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type note struct {
	ID   string `json:"id"`
	Body string `json:"body"`
	Rev  int    `json:"rev"`
}

func (n note) EntityID() string { return n.ID }

// mergeNote keeps the server-assigned id.
func mergeNote(old, patch note) note {
	patch.ID = old.ID
	return patch
}

type notesBackend struct {
	notes  []note
	nextID atomic.Int64
	fail   atomic.Bool
}

func (b *notesBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/notes", func(w http.ResponseWriter, r *http.Request) {
		if b.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "backend down"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(b.notes)
		case http.MethodPost:
			var draft note
			_ = json.NewDecoder(r.Body).Decode(&draft)
			draft.ID = "n" + string(rune('0'+b.nextID.Add(1)))
			b.notes = append(b.notes, draft)
			_ = json.NewEncoder(w).Encode(draft)
		}
	})
	mux.HandleFunc("/notes/", func(w http.ResponseWriter, r *http.Request) {
		if b.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "backend down"})
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/notes/")
		switch r.Method {
		case http.MethodPut:
			var patch note
			_ = json.NewDecoder(r.Body).Decode(&patch)
			for i := range b.notes {
				if b.notes[i].ID == id {
					patch.ID = id
					b.notes[i] = patch
					_ = json.NewEncoder(w).Encode(patch)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodDelete:
			kept := b.notes[:0]
			for _, n := range b.notes {
				if n.ID != id {
					kept = append(kept, n)
				}
			}
			b.notes = kept
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
		}
	})
	return mux
}

func newNoteStore(t *testing.T) (*Store[note], *notesBackend) {
	t.Helper()
	backend := &notesBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	api := apiclient.NewWithHTTPClient(srv.URL, srv.Client(), zap.NewNop())
	return New(api, zap.NewNop(), "notes", mergeNote), backend
}

func TestStore_CreateAppendsServerRecord(t *testing.T) {
	st, _ := newNoteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Load(ctx))
	assert.True(t, st.Loaded())

	created, err := st.Create(ctx, note{Body: "first"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "server assigns the id")

	second, err := st.Create(ctx, note{Body: "second"})
	require.NoError(t, err)

	snapshot := st.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, created.ID, snapshot[0].ID, "insertion order, most recent last")
	assert.Equal(t, second.ID, snapshot[1].ID)
}

func TestStore_LoadMatchesLocalState(t *testing.T) {
	st, _ := newNoteStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, note{Body: "kept"})
	require.NoError(t, err)

	// A full reload must agree with what the writes left behind.
	require.NoError(t, st.Load(ctx))
	got, ok := st.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "kept", got.Body)
}

func TestStore_LoadFailureRetainsCache(t *testing.T) {
	st, backend := newNoteStore(t)
	ctx := context.Background()

	_, err := st.Create(ctx, note{Body: "survivor"})
	require.NoError(t, err)
	require.Equal(t, 1, st.Len())

	backend.fail.Store(true)
	err = st.Load(ctx)
	require.Error(t, err)
	assert.True(t, apiclient.IsFetch(err))
	assert.Equal(t, 1, st.Len(), "failed load must not clear the cache")
}

func TestStore_UpdateMergesLocally(t *testing.T) {
	st, _ := newNoteStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, note{Body: "before"})
	require.NoError(t, err)

	merged, err := st.Update(ctx, created.ID, note{Body: "after", Rev: 2})
	require.NoError(t, err)
	assert.Equal(t, created.ID, merged.ID, "merge keeps the server-assigned id")
	assert.Equal(t, "after", merged.Body)

	cached, ok := st.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "after", cached.Body)
}

func TestStore_UpdateFailureLeavesCacheUntouched(t *testing.T) {
	st, backend := newNoteStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, note{Body: "original"})
	require.NoError(t, err)

	backend.fail.Store(true)
	_, err = st.Update(ctx, created.ID, note{Body: "lost"})
	require.Error(t, err)
	assert.True(t, apiclient.IsSubmit(err))

	cached, ok := st.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "original", cached.Body)
}

func TestStore_RemoveDeletesExactlyOne(t *testing.T) {
	st, _ := newNoteStore(t)
	ctx := context.Background()

	first, err := st.Create(ctx, note{Body: "first"})
	require.NoError(t, err)
	second, err := st.Create(ctx, note{Body: "second"})
	require.NoError(t, err)

	require.NoError(t, st.Remove(ctx, first.ID))

	assert.Equal(t, 1, st.Len())
	_, ok := st.Get(first.ID)
	assert.False(t, ok)
	_, ok = st.Get(second.ID)
	assert.True(t, ok)
}
