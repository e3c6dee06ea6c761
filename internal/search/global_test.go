package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	calendardomain "github.com/lumicrm/lumicrm-go/internal/calendarevent/domain"
	"github.com/lumicrm/lumicrm-go/internal/config"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	invoicedomain "github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	productdomain "github.com/lumicrm/lumicrm-go/internal/product/domain"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGlobal(t *testing.T, contacts []contactdomain.Contact) *Global {
	t.Helper()

	mux := http.NewServeMux()
	serve := func(path string, payload any) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(payload)
		})
	}
	serve("/contacts", contacts)
	serve("/accounts", []accountdomain.Account{})
	serve("/products", []productdomain.Product{})
	serve("/invoices", []invoicedomain.Invoice{})
	serve("/calendar/events", []calendardomain.CalendarEvent{})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	api := apiclient.NewWithHTTPClient(srv.URL, srv.Client(), logger)
	cfg := config.Config{SearchMinLength: 2, SearchDebounce: 5 * time.Millisecond}

	return NewGlobal(cfg, logger,
		store.New(api, logger, "contacts", contactdomain.Merge),
		store.New(api, logger, "accounts", accountdomain.Merge),
		store.New(api, logger, "products", productdomain.Merge),
		store.New(api, logger, "invoices", invoicedomain.Merge),
		store.New(api, logger, "calendar/events", calendardomain.Merge),
		nil,
	)
}

func TestGlobal_BelowMinLengthPublishesEmpty(t *testing.T) {
	g := newTestGlobal(t, []contactdomain.Contact{{ID: "1", Name: "Alice"}})

	results, ok, err := g.Search(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, results.Total())
}

func TestGlobal_TopThreePerCategory(t *testing.T) {
	contacts := []contactdomain.Contact{
		{ID: "1", Name: "Alice One"},
		{ID: "2", Name: "Alice Two"},
		{ID: "3", Name: "Alice Three"},
		{ID: "4", Name: "Alice Four"},
		{ID: "5", Name: "Alice Five"},
	}
	g := newTestGlobal(t, contacts)

	results, ok, err := g.Search(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, results.Contacts, 3)
}

func TestGlobal_StaleResponseDiscarded(t *testing.T) {
	g := newTestGlobal(t, []contactdomain.Contact{{ID: "1", Name: "Alice"}})

	current, ok, err := g.Search(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, current.Contacts, 1)

	// A response carrying an outdated sequence must not replace the
	// settled results.
	_, ok, err = g.publish(0, Results{Query: "stale"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "alice", g.Results().Query)
	assert.Len(t, g.Results().Contacts, 1)
}

func TestGlobal_DebounceFiresOnlyLastQuery(t *testing.T) {
	g := newTestGlobal(t, []contactdomain.Contact{
		{ID: "1", Name: "Alice"},
		{ID: "2", Name: "Bob"},
	})

	ctx := context.Background()
	g.Input(ctx, "ali")
	g.Input(ctx, "bob")

	assert.Eventually(t, func() bool {
		results := g.Results()
		return results.Query == "bob" && len(results.Contacts) == 1
	}, time.Second, 10*time.Millisecond)
}
