package service

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"

	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/config"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	"github.com/lumicrm/lumicrm-go/internal/invoice/calc"
	"github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	productdomain "github.com/lumicrm/lumicrm-go/internal/product/domain"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Labels shown for dangling weak references. A missing referent is a normal
// case, never an error.
const (
	UnknownAccount = "Unknown Account"
	UnknownProduct = "Unknown Product"
)

type Params struct {
	fx.In

	API      *apiclient.Client
	Log      *zap.Logger
	TaxCfg   *config.TaxConfigHolder
	Invoices *store.Store[domain.Invoice]
	Accounts *store.Store[accountdomain.Account]
	Contacts *store.Store[contactdomain.Contact]
	Products *store.Store[productdomain.Product]
}

// Service is the invoice screen's domain logic: reference data loading,
// preview totals, weak-reference resolution and PDF download.
type Service struct {
	api      *apiclient.Client
	log      *zap.Logger
	taxCfg   *config.TaxConfigHolder
	invoices *store.Store[domain.Invoice]
	accounts *store.Store[accountdomain.Account]
	contacts *store.Store[contactdomain.Contact]
	products *store.Store[productdomain.Product]
}

func New(p Params) *Service {
	return &Service{
		api:      p.API,
		log:      p.Log.Named("invoice.service"),
		taxCfg:   p.TaxCfg,
		invoices: p.Invoices,
		accounts: p.Accounts,
		contacts: p.Contacts,
		products: p.Products,
	}
}

// LoadReferenceData fetches the invoice collection together with the
// account, contact and product collections it references. The four fetches
// run concurrently and all settle before returning; stores that loaded keep
// their data even when a sibling fetch failed.
func (s *Service) LoadReferenceData(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.invoices.Load(ctx) })
	g.Go(func() error { return s.accounts.Load(ctx) })
	g.Go(func() error { return s.contacts.Load(ctx) })
	g.Go(func() error { return s.products.Load(ctx) })
	return g.Wait()
}

// Preview computes the client-side total preview for a draft. The result is
// provisional; after a successful save the displayed amounts must come from
// the server record.
func (s *Service) Preview(draft domain.Invoice) calc.Totals {
	lines := make([]calc.Line, 0, len(draft.Items))
	for _, item := range draft.Items {
		line := calc.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
		if product, ok := s.products.Get(item.ProductID); ok {
			line.TaxRate = product.TaxRate
		}
		lines = append(lines, line)
	}
	return calc.Preview(lines, s.taxCfg.Get())
}

// ProductLookup adapts the product cache for line-item auto-fill.
func (s *Service) ProductLookup() domain.ProductLookup {
	return func(id string) (string, float64, bool) {
		product, ok := s.products.Get(id)
		if !ok {
			return "", 0, false
		}
		return product.Name, product.Price, true
	}
}

// AccountName resolves the weak account reference for display.
func (s *Service) AccountName(id string) string {
	if account, ok := s.accounts.Get(id); ok {
		return account.Name
	}
	return UnknownAccount
}

// ContactName resolves the weak contact reference; empty when absent.
func (s *Service) ContactName(id string) string {
	if contact, ok := s.contacts.Get(id); ok {
		return contact.Name
	}
	return ""
}

// ProductName resolves the weak product reference for display.
func (s *Service) ProductName(id string) string {
	if product, ok := s.products.Get(id); ok {
		return product.Name
	}
	return UnknownProduct
}

// SearchFields returns the invoice filter fields, including the resolved
// account name.
func (s *Service) SearchFields(inv domain.Invoice) []string {
	return []string{inv.InvoiceNumber, s.AccountName(inv.AccountID)}
}

type pdfResponse struct {
	PDFData string `json:"pdf_data"`
}

var errEmptyPDF = errors.New("empty_pdf_payload")

// DownloadPDF fetches the server-rendered invoice PDF and returns the
// decoded bytes together with the download file name
// "<invoice_number>.pdf".
func (s *Service) DownloadPDF(ctx context.Context, id string) (string, []byte, error) {
	var resp pdfResponse
	if err := s.api.Get(ctx, "invoices/"+id+"/pdf", &resp); err != nil {
		return "", nil, err
	}
	if resp.PDFData == "" {
		return "", nil, errEmptyPDF
	}
	data, err := base64.StdEncoding.DecodeString(resp.PDFData)
	if err != nil {
		return "", nil, err
	}

	name := id + ".pdf"
	if inv, ok := s.invoices.Get(id); ok && inv.InvoiceNumber != "" {
		name = inv.InvoiceNumber + ".pdf"
	}
	return name, data, nil
}

// SavePDF downloads the invoice PDF into dir and returns the written path.
func (s *Service) SavePDF(ctx context.Context, id, dir string) (string, error) {
	name, data, err := s.DownloadPDF(ctx, id)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
