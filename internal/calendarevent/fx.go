package calendarevent

import (
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/calendarevent/domain"
	"github.com/lumicrm/lumicrm-go/internal/form"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("calendarevent",
	fx.Provide(NewStore),
	fx.Provide(NewForm),
)

func NewStore(api *apiclient.Client, logger *zap.Logger) *store.Store[domain.CalendarEvent] {
	return store.New(api, logger, "calendar/events", domain.Merge)
}

func NewForm(st *store.Store[domain.CalendarEvent]) *form.Controller[domain.CalendarEvent] {
	return form.NewController(st, domain.NewDraft, domain.Validate)
}
