// Package plan exposes the subscription tier attached to the signed-in
// account. New registrations land on the starter tier; paid tiers lift
// the per-entity creation limits and unlock the VIES lookup. A paid
// checkout upgrades the tier server-side, so callers re-fetch the
// overview after a payment settles.
package plan

import (
	"context"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Unlimited marks a limit a tier does not cap.
const Unlimited = -1

// Well-known tier ids.
const (
	Starter      = "starter"
	Professional = "professional"
	Enterprise   = "enterprise"
)

// Plan describes a subscription tier.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

// Limits are the per-entity creation caps of the current tier,
// Unlimited when the tier does not cap that entity.
type Limits struct {
	ContactsMax int `json:"contacts_max"`
	AccountsMax int `json:"accounts_max"`
}

// Usage counts the records the account already holds against the caps.
type Usage struct {
	Contacts int `json:"contacts"`
	Accounts int `json:"accounts"`
}

// Overview is the current tier with its caps and consumption.
type Overview struct {
	Plan   Plan   `json:"plan"`
	Limits Limits `json:"limits"`
	Usage  Usage  `json:"usage"`
}

// CanAddContact reports whether another contact fits under the cap.
func (o Overview) CanAddContact() bool {
	return o.Limits.ContactsMax == Unlimited || o.Usage.Contacts < o.Limits.ContactsMax
}

// CanAddAccount reports whether another account fits under the cap.
func (o Overview) CanAddAccount() bool {
	return o.Limits.AccountsMax == Unlimited || o.Usage.Accounts < o.Limits.AccountsMax
}

var Module = fx.Module("plan",
	fx.Provide(New),
)

type Service struct {
	api *apiclient.Client
	log *zap.Logger
}

func New(api *apiclient.Client, logger *zap.Logger) *Service {
	return &Service{api: api, log: logger.Named("plan")}
}

// Current fetches the signed-in account's tier, caps, and usage.
func (s *Service) Current(ctx context.Context) (Overview, error) {
	var overview Overview
	if err := s.api.Get(ctx, "users/current-plan", &overview); err != nil {
		return Overview{}, err
	}
	return overview, nil
}

// Select switches the account to the named tier and returns the refreshed
// overview. The backend rejects unknown tier ids.
func (s *Service) Select(ctx context.Context, planID string) (Overview, error) {
	var overview Overview
	body := map[string]string{"plan_id": planID}
	if err := s.api.Post(ctx, "users/select-plan", body, &overview); err != nil {
		return Overview{}, err
	}
	s.log.Info("plan selected", zap.String("plan", overview.Plan.ID))
	return overview, nil
}
