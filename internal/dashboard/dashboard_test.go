package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	invoicedomain "github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDashboard(t *testing.T, mux *http.ServeMux) *Service {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(apiclient.NewWithHTTPClient(srv.URL, srv.Client(), zap.NewNop()), zap.NewNop())
}

func TestStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{
			"total_contacts": 4,
			"total_invoices": 2,
			"open_tasks":     1,
		})
	})
	svc := newDashboard(t, mux)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Contacts)
	assert.Equal(t, 2, stats.Invoices)
	assert.Equal(t, 1, stats.OpenTasks)
	assert.Zero(t, stats.Accounts)
}

func TestRecentActivity_KeepsNewestHead(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]contactdomain.Contact{
			{ID: "c3", Name: "Newest"}, {ID: "c2", Name: "Middle"}, {ID: "c1", Name: "Oldest"},
		})
	})
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]invoicedomain.Invoice{{ID: "i1", InvoiceNumber: "INV-1"}})
	})
	svc := newDashboard(t, mux)

	recent, err := svc.RecentActivity(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent.Contacts, 2)
	assert.Equal(t, "Newest", recent.Contacts[0].Name)
	assert.Len(t, recent.Invoices, 1)
}

func TestRecentActivity_FailurePropagates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "backend down"})
	})
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]invoicedomain.Invoice{})
	})
	svc := newDashboard(t, mux)

	_, err := svc.RecentActivity(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, apiclient.IsFetch(err))
}
