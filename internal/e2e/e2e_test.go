// Package e2e wires the complete client object graph through fx and runs
// it against the in-process stub backend, end to end: registration, entity
// CRUD, VAT enrichment, invoice totals, global search, dashboard counts
// and a checkout.
package e2e

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/account"
	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	"github.com/lumicrm/lumicrm-go/internal/admin"
	admindomain "github.com/lumicrm/lumicrm-go/internal/admin/domain"
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/auth"
	"github.com/lumicrm/lumicrm-go/internal/calendarevent"
	calendardomain "github.com/lumicrm/lumicrm-go/internal/calendarevent/domain"
	"github.com/lumicrm/lumicrm-go/internal/clock"
	"github.com/lumicrm/lumicrm-go/internal/config"
	"github.com/lumicrm/lumicrm-go/internal/contact"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	"github.com/lumicrm/lumicrm-go/internal/dashboard"
	"github.com/lumicrm/lumicrm-go/internal/invoice"
	invoicedomain "github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	invoiceservice "github.com/lumicrm/lumicrm-go/internal/invoice/service"
	"github.com/lumicrm/lumicrm-go/internal/payment"
	"github.com/lumicrm/lumicrm-go/internal/plan"
	"github.com/lumicrm/lumicrm-go/internal/product"
	productdomain "github.com/lumicrm/lumicrm-go/internal/product/domain"
	"github.com/lumicrm/lumicrm-go/internal/search"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"github.com/lumicrm/lumicrm-go/internal/stubapi"
	"github.com/lumicrm/lumicrm-go/internal/vat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// graph is everything the scenario drives, populated out of the fx app.
type graph struct {
	Auth      *auth.Service
	Contacts  *store.Store[contactdomain.Contact]
	Accounts  *store.Store[accountdomain.Account]
	Products  *store.Store[productdomain.Product]
	Invoices  *store.Store[invoicedomain.Invoice]
	Events    *store.Store[calendardomain.CalendarEvent]
	VAT       *vat.Service
	Plans     *plan.Service
	InvoiceSv *invoiceservice.Service
	Payments  *payment.Service
	Search    *search.Global
	Admin     *admin.Service
	Dashboard *dashboard.Service
}

func buildGraph(t *testing.T) (*graph, *stubapi.Server) {
	t.Helper()

	server, err := stubapi.New(zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	cfg := config.Config{
		AppName:             "lumicrm-e2e",
		APIBaseURL:          srv.URL,
		OAuthLoginURL:       "https://auth.example.test/",
		RequestTimeout:      5 * time.Second,
		PaymentPollInterval: time.Millisecond,
		PaymentPollAttempts: 5,
		SearchDebounce:      time.Millisecond,
		SearchMinLength:     2,
	}

	taxCfg := &config.TaxConfigHolder{}
	require.NoError(t, taxCfg.Set(config.TaxConfig{Mode: config.TaxModePerLine}))

	var g graph
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, taxCfg),
		fx.Supply(zap.NewNop()),
		clock.Module,
		apiclient.Module,
		auth.Module,
		contact.Module,
		account.Module,
		product.Module,
		invoice.Module,
		calendarevent.Module,
		vat.Module,
		plan.Module,
		payment.Module,
		search.Module,
		admin.Module,
		dashboard.Module,
		fx.Populate(
			&g.Auth, &g.Contacts, &g.Accounts, &g.Products, &g.Invoices,
			&g.Events, &g.VAT, &g.Plans, &g.InvoiceSv, &g.Payments, &g.Search,
			&g.Admin, &g.Dashboard,
		),
	)
	require.NoError(t, app.Err())
	t.Cleanup(g.Search.Stop)
	return &g, server
}

func TestFullClientScenario(t *testing.T) {
	g, _ := buildGraph(t)
	ctx := context.Background()

	require.NoError(t, g.Auth.Register(ctx, "Eva Peeters", "eva@example.test", "hunter22"))
	state, user := g.Auth.Snapshot()
	require.Equal(t, auth.StateAuthenticated, state)
	require.Equal(t, "eva@example.test", user.Email)

	contactRec, err := g.Contacts.Create(ctx, contactdomain.Contact{
		Name: "Alice Martin", Email: "alice@acme.test", Company: "Acme",
	})
	require.NoError(t, err)

	accountRec, err := g.Accounts.Create(ctx, accountdomain.Account{
		Name: "placeholder", ContactID: contactRec.ID,
	})
	require.NoError(t, err)

	// Fresh registrations land on the starter tier, which keeps the
	// registry lookup behind an upgrade.
	overview, err := g.Plans.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, plan.Starter, overview.Plan.ID)
	assert.Equal(t, 1, overview.Usage.Contacts)

	_, err = g.VAT.Lookup(ctx, "BE0123456789")
	require.ErrorIs(t, err, vat.ErrUpgradeRequired)

	overview, err = g.Plans.Select(ctx, plan.Professional)
	require.NoError(t, err)
	assert.Equal(t, "Professional", overview.Plan.Name)
	assert.Equal(t, plan.Unlimited, overview.Limits.ContactsMax)

	// VAT enrichment: look the number up, merge, then record the number the
	// user typed.
	lookedUp, err := g.VAT.Lookup(ctx, "BE0123456789")
	require.NoError(t, err)
	enriched := vat.Merge(accountRec, lookedUp, vat.MergeOverwrite)
	enriched.VATNumber = vat.Normalize("BE0123456789")
	accountRec, err = g.Accounts.Update(ctx, accountRec.ID, enriched)
	require.NoError(t, err)
	assert.Equal(t, "Acme Consulting BV", accountRec.Name)
	assert.Equal(t, "Brussels", accountRec.City)

	productRec, err := g.Products.Create(ctx, productdomain.Product{
		Name: "Consulting Hour", Price: 100, Currency: "EUR", TaxRate: 0.21, Active: true,
	})
	require.NoError(t, err)

	eventDraft := calendardomain.NewDraft()
	eventDraft.Title = "Kickoff with Acme"
	eventDraft.StartDate = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	eventDraft.EndDate = eventDraft.StartDate.Add(time.Hour)
	eventDraft = calendardomain.SetRelated(eventDraft, calendardomain.RelatedRef{
		Kind: calendardomain.RelatedAccount, ID: accountRec.ID,
	})
	_, err = g.Events.Create(ctx, eventDraft)
	require.NoError(t, err)

	draft := invoicedomain.Invoice{
		AccountID: accountRec.ID,
		Items: []invoicedomain.LineItem{
			{ProductID: productRec.ID, Quantity: 2, UnitPrice: productRec.Price},
		},
	}
	require.NoError(t, g.InvoiceSv.LoadReferenceData(ctx))
	preview := g.InvoiceSv.Preview(draft)
	invoiceRec, err := g.Invoices.Create(ctx, draft)
	require.NoError(t, err)
	assert.InDelta(t, preview.Total.InexactFloat64(), invoiceRec.TotalAmount, 0.001)
	assert.Equal(t, "Acme Consulting BV", g.InvoiceSv.AccountName(invoiceRec.AccountID))

	results, ok, err := g.Search.Search(ctx, "acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, results.Contacts, 1)
	assert.Len(t, results.Accounts, 1)
	assert.Len(t, results.Events, 1)

	stats, err := g.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Contacts)
	assert.Equal(t, 1, stats.Accounts)
	assert.Equal(t, 1, stats.Invoices)

	session, err := g.Payments.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		PackageID:  plan.Enterprise,
		SuccessURL: "https://app.example.test/paid",
	})
	require.NoError(t, err)
	status, err := g.Payments.PollStatus(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, status.PaymentStatus)

	// A settled checkout for a catalog tier moves the account onto it.
	overview, err = g.Plans.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, plan.Enterprise, overview.Plan.ID)
}

func TestAdminScenario(t *testing.T) {
	g, server := buildGraph(t)
	ctx := context.Background()

	_, err := server.SeedUser("Root", "root@example.test", "changeme", "admin")
	require.NoError(t, err)
	require.NoError(t, g.Auth.LoginWithPassword(ctx, "root@example.test", "changeme"))

	users, err := g.Admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].HasRole("admin"))

	_, err = g.Admin.CreateUser(ctx, admindomain.NewUser{
		Name: "Mika", Email: "mika@example.test", Password: "longenough",
	})
	require.NoError(t, err)
	users, err = g.Admin.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
