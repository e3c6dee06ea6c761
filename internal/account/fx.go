package account

import (
	"github.com/lumicrm/lumicrm-go/internal/account/domain"
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/form"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("account",
	fx.Provide(NewStore),
	fx.Provide(NewForm),
)

func NewStore(api *apiclient.Client, logger *zap.Logger) *store.Store[domain.Account] {
	return store.New(api, logger, "accounts", domain.Merge)
}

func NewForm(st *store.Store[domain.Account]) *form.Controller[domain.Account] {
	return form.NewController(st, domain.NewDraft, domain.Validate)
}
