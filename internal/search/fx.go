package search

import (
	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	calendardomain "github.com/lumicrm/lumicrm-go/internal/calendarevent/domain"
	"github.com/lumicrm/lumicrm-go/internal/config"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	invoicedomain "github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	invoiceservice "github.com/lumicrm/lumicrm-go/internal/invoice/service"
	productdomain "github.com/lumicrm/lumicrm-go/internal/product/domain"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("search",
	fx.Provide(newGlobal),
)

type globalParams struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Contacts *store.Store[contactdomain.Contact]
	Accounts *store.Store[accountdomain.Account]
	Products *store.Store[productdomain.Product]
	Invoices *store.Store[invoicedomain.Invoice]
	Events   *store.Store[calendardomain.CalendarEvent]
	InvSvc   *invoiceservice.Service
}

func newGlobal(p globalParams) *Global {
	return NewGlobal(p.Config, p.Log, p.Contacts, p.Accounts, p.Products, p.Invoices, p.Events, p.InvSvc.SearchFields)
}
