// Package cli implements the lumictl command tree. Each invocation wires
// the client stack by hand; the saved session token is restored into the
// cookie jar so consecutive commands share one signed-in session.
package cli

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"

	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	"github.com/lumicrm/lumicrm-go/internal/admin"
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/auth"
	calendardomain "github.com/lumicrm/lumicrm-go/internal/calendarevent/domain"
	"github.com/lumicrm/lumicrm-go/internal/clock"
	"github.com/lumicrm/lumicrm-go/internal/config"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	"github.com/lumicrm/lumicrm-go/internal/dashboard"
	"github.com/lumicrm/lumicrm-go/internal/form"
	invoicedomain "github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	invoiceservice "github.com/lumicrm/lumicrm-go/internal/invoice/service"
	"github.com/lumicrm/lumicrm-go/internal/payment"
	"github.com/lumicrm/lumicrm-go/internal/plan"
	productdomain "github.com/lumicrm/lumicrm-go/internal/product/domain"
	"github.com/lumicrm/lumicrm-go/internal/search"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"github.com/lumicrm/lumicrm-go/internal/vat"
	"go.uber.org/zap"
)

const sessionCookieName = "session_token"

type App struct {
	Cfg  config.Config
	Log  *zap.Logger
	API  *apiclient.Client
	HTTP *http.Client

	Auth      *auth.Service
	Contacts  *store.Store[contactdomain.Contact]
	Accounts  *store.Store[accountdomain.Account]
	Products  *store.Store[productdomain.Product]
	Invoices  *store.Store[invoicedomain.Invoice]
	Events    *store.Store[calendardomain.CalendarEvent]
	InvoiceSv *invoiceservice.Service
	VAT       *vat.Service
	Plans     *plan.Service
	Payments  *payment.Service
	Admin     *admin.Service
	Dashboard *dashboard.Service
	Search    *search.Global
	TaxCfg    *config.TaxConfigHolder

	// ContactForm drives contact create/edit/delete; the CLI commands go
	// through it rather than hitting the store directly.
	ContactForm *form.Controller[contactdomain.Contact]
}

func NewApp() (*App, error) {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Jar: jar, Timeout: cfg.RequestTimeout}
	api := apiclient.NewWithHTTPClient(cfg.APIBaseURL, httpClient, logger)

	taxCfg, err := config.NewTaxConfigHolder()
	if err != nil {
		return nil, err
	}

	app := &App{
		Cfg:      cfg,
		Log:      logger,
		API:      api,
		HTTP:     httpClient,
		Auth:     auth.NewService(api, cfg, logger),
		Contacts: store.New(api, logger, "contacts", contactdomain.Merge),
		Accounts: store.New(api, logger, "accounts", accountdomain.Merge),
		Products: store.New(api, logger, "products", productdomain.Merge),
		Invoices: store.New(api, logger, "invoices", invoicedomain.Merge),
		Events:   store.New(api, logger, "calendar/events", calendardomain.Merge),
		VAT:      vat.NewService(api, logger),
		Plans:    plan.New(api, logger),
		Payments: payment.NewService(api, cfg, clock.NewSystemClock(), logger),
		Admin:    admin.New(api, logger),
		TaxCfg:   taxCfg,
	}
	app.ContactForm = form.NewController(app.Contacts,
		func() contactdomain.Contact { return contactdomain.Contact{} },
		contactdomain.Validate)
	app.Dashboard = dashboard.New(api, logger)
	app.InvoiceSv = invoiceservice.New(invoiceservice.Params{
		API:      api,
		Log:      logger,
		TaxCfg:   taxCfg,
		Invoices: app.Invoices,
		Accounts: app.Accounts,
		Contacts: app.Contacts,
		Products: app.Products,
	})
	app.Search = search.NewGlobal(cfg, logger, app.Contacts, app.Accounts, app.Products, app.Invoices, app.Events, app.InvoiceSv.SearchFields)

	app.restoreSession()
	return app, nil
}

// restoreSession injects the saved token as a cookie for the API origin.
func (a *App) restoreSession() {
	token, err := loadSessionToken()
	if err != nil || token == "" {
		return
	}
	base, err := url.Parse(a.API.BaseURL() + "/")
	if err != nil {
		return
	}
	a.HTTP.Jar.SetCookies(base, []*http.Cookie{{Name: sessionCookieName, Value: token, Path: "/"}})
}

// persistSession writes the session cookie, if any, to the session file.
func (a *App) persistSession() {
	base, err := url.Parse(a.API.BaseURL() + "/")
	if err != nil {
		return
	}
	for _, cookie := range a.HTTP.Jar.Cookies(base) {
		if cookie.Name == sessionCookieName {
			if err := saveSessionToken(cookie.Value); err != nil {
				a.Log.Warn("could not persist session", zap.Error(err))
			}
			return
		}
	}
}

func (a *App) clearSession() {
	_ = removeSessionToken()
}
