package invoice

import (
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/form"
	"github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	"github.com/lumicrm/lumicrm-go/internal/invoice/service"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("invoice",
	fx.Provide(NewStore),
	fx.Provide(NewForm),
	fx.Provide(service.New),
)

func NewStore(api *apiclient.Client, logger *zap.Logger) *store.Store[domain.Invoice] {
	return store.New(api, logger, "invoices", domain.Merge)
}

func NewForm(st *store.Store[domain.Invoice]) *form.Controller[domain.Invoice] {
	return form.NewController(st, domain.NewDraft, domain.Validate)
}
