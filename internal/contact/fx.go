package contact

import (
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/contact/domain"
	"github.com/lumicrm/lumicrm-go/internal/form"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("contact",
	fx.Provide(NewStore),
	fx.Provide(NewForm),
)

func NewStore(api *apiclient.Client, logger *zap.Logger) *store.Store[domain.Contact] {
	return store.New(api, logger, "contacts", domain.Merge)
}

func NewForm(st *store.Store[domain.Contact]) *form.Controller[domain.Contact] {
	return form.NewController(st, domain.NewDraft, domain.Validate)
}
