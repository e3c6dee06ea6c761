package product

import (
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/form"
	"github.com/lumicrm/lumicrm-go/internal/product/domain"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("product",
	fx.Provide(NewStore),
	fx.Provide(NewForm),
)

func NewStore(api *apiclient.Client, logger *zap.Logger) *store.Store[domain.Product] {
	return store.New(api, logger, "products", domain.Merge)
}

func NewForm(st *store.Store[domain.Product]) *form.Controller[domain.Product] {
	return form.NewController(st, domain.NewDraft, domain.Validate)
}
