package search

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	calendardomain "github.com/lumicrm/lumicrm-go/internal/calendarevent/domain"
	"github.com/lumicrm/lumicrm-go/internal/config"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	invoicedomain "github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	productdomain "github.com/lumicrm/lumicrm-go/internal/product/domain"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxPerCategory caps how many matches the global search keeps per entity
// type.
const maxPerCategory = 3

// Results is one settled cross-entity search outcome.
type Results struct {
	Query    string
	Contacts []contactdomain.Contact
	Accounts []accountdomain.Account
	Products []productdomain.Product
	Invoices []invoicedomain.Invoice
	Events   []calendardomain.CalendarEvent
}

func (r Results) Total() int {
	return len(r.Contacts) + len(r.Accounts) + len(r.Products) + len(r.Invoices) + len(r.Events)
}

// Global is the cross-entity search box. Keystrokes are debounced; only
// the most recent input after the quiet period triggers the
// multi-collection fetch. Every issued search carries a monotonically
// increasing sequence number and a response is discarded unless its
// sequence is still the latest, so a slow response from a stale keystroke
// can never overwrite newer results.
type Global struct {
	cfg config.Config
	log *zap.Logger

	contacts *store.Store[contactdomain.Contact]
	accounts *store.Store[accountdomain.Account]
	products *store.Store[productdomain.Product]
	invoices *store.Store[invoicedomain.Invoice]
	events   *store.Store[calendardomain.CalendarEvent]

	// invoiceFields resolves the invoice filter fields, including the
	// account name, against the account cache.
	invoiceFields func(invoicedomain.Invoice) []string

	seq atomic.Uint64

	mu      sync.Mutex
	timer   *time.Timer
	results Results
}

func NewGlobal(
	cfg config.Config,
	logger *zap.Logger,
	contacts *store.Store[contactdomain.Contact],
	accounts *store.Store[accountdomain.Account],
	products *store.Store[productdomain.Product],
	invoices *store.Store[invoicedomain.Invoice],
	events *store.Store[calendardomain.CalendarEvent],
	invoiceFields func(invoicedomain.Invoice) []string,
) *Global {
	if invoiceFields == nil {
		invoiceFields = func(inv invoicedomain.Invoice) []string { return inv.SearchFields() }
	}
	return &Global{
		cfg:           cfg,
		log:           logger.Named("search.global"),
		contacts:      contacts,
		accounts:      accounts,
		products:      products,
		invoices:      invoices,
		events:        events,
		invoiceFields: invoiceFields,
	}
}

// Input registers a keystroke. The search fires only after the debounce
// window passes without further input; earlier pending timers are
// cancelled.
func (g *Global) Input(ctx context.Context, query string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.cfg.SearchDebounce, func() {
		if _, _, err := g.Search(ctx, query); err != nil {
			g.log.Warn("global search failed", zap.String("query", query), zap.Error(err))
		}
	})
}

// Stop cancels any pending debounce timer.
func (g *Global) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// Results returns the latest settled results.
func (g *Global) Results() Results {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.results
}

// Search runs one cross-entity search immediately. It reports ok=false
// when the outcome was discarded because a newer search was issued while
// this one was in flight.
func (g *Global) Search(ctx context.Context, query string) (Results, bool, error) {
	seq := g.seq.Add(1)

	trimmed := strings.TrimSpace(query)
	if len(trimmed) < g.cfg.SearchMinLength {
		return g.publish(seq, Results{Query: trimmed})
	}

	// The five collections are fetched together; the view waits for all of
	// them to settle.
	eg, fetchCtx := errgroup.WithContext(ctx)
	eg.Go(func() error { return g.contacts.Load(fetchCtx) })
	eg.Go(func() error { return g.accounts.Load(fetchCtx) })
	eg.Go(func() error { return g.products.Load(fetchCtx) })
	eg.Go(func() error { return g.invoices.Load(fetchCtx) })
	eg.Go(func() error { return g.events.Load(fetchCtx) })
	if err := eg.Wait(); err != nil {
		return Results{}, false, err
	}

	results := Results{
		Query: trimmed,
		Contacts: head(Filter(g.contacts.Snapshot(), trimmed, func(c contactdomain.Contact) []string {
			return c.SearchFields()
		})),
		Accounts: head(Filter(g.accounts.Snapshot(), trimmed, func(a accountdomain.Account) []string {
			return a.SearchFields()
		})),
		Products: head(Filter(g.products.Snapshot(), trimmed, func(p productdomain.Product) []string {
			return p.SearchFields()
		})),
		Invoices: head(Filter(g.invoices.Snapshot(), trimmed, g.invoiceFields)),
		Events: head(Filter(g.events.Snapshot(), trimmed, func(e calendardomain.CalendarEvent) []string {
			return e.SearchFields()
		})),
	}
	return g.publish(seq, results)
}

// publish stores the results unless a newer search has been issued since
// seq was taken.
func (g *Global) publish(seq uint64, results Results) (Results, bool, error) {
	if g.seq.Load() != seq {
		g.log.Debug("discarding stale search response",
			zap.String("query", results.Query),
			zap.Uint64("seq", seq),
		)
		return results, false, nil
	}
	g.mu.Lock()
	g.results = results
	g.mu.Unlock()
	return results, true, nil
}

func head[T any](items []T) []T {
	if len(items) > maxPerCategory {
		return items[:maxPerCategory]
	}
	return items
}
