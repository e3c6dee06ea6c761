// Package dashboard fetches the aggregate entity counts shown on the
// landing view after sign-in.
package dashboard

import (
	"context"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	invoicedomain "github.com/lumicrm/lumicrm-go/internal/invoice/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats are the per-entity totals reported by the backend.
type Stats struct {
	Contacts  int `json:"total_contacts"`
	Accounts  int `json:"total_accounts"`
	Products  int `json:"total_products"`
	Invoices  int `json:"total_invoices"`
	Events    int `json:"total_events"`
	OpenTasks int `json:"open_tasks"`
}

type Service struct {
	api *apiclient.Client
	log *zap.Logger
}

func New(api *apiclient.Client, logger *zap.Logger) *Service {
	return &Service{api: api, log: logger.Named("dashboard")}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.api.Get(ctx, "dashboard/stats", &stats); err != nil {
		return Stats{}, err
	}
	s.log.Debug("dashboard stats loaded",
		zap.Int("contacts", stats.Contacts),
		zap.Int("invoices", stats.Invoices),
	)
	return stats, nil
}

// Recent holds the newest records shown under the stat tiles. The
// collections come back newest-first, so the head of each is the recent
// slice.
type Recent struct {
	Contacts []contactdomain.Contact
	Invoices []invoicedomain.Invoice
}

// RecentActivity fetches the contact and invoice collections concurrently
// and keeps the newest limit entries of each.
func (s *Service) RecentActivity(ctx context.Context, limit int) (Recent, error) {
	var recent Recent
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var contacts []contactdomain.Contact
		if err := s.api.Get(ctx, "contacts", &contacts); err != nil {
			return err
		}
		recent.Contacts = head(contacts, limit)
		return nil
	})
	g.Go(func() error {
		var invoices []invoicedomain.Invoice
		if err := s.api.Get(ctx, "invoices", &invoices); err != nil {
			return err
		}
		recent.Invoices = head(invoices, limit)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Recent{}, err
	}
	return recent, nil
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
