// Package payment drives the third-party checkout integrations: a
// card-processor checkout session with fixed-cadence status polling, and a
// wallet-processor order create/capture pair driven by redirect-return
// query parameters.
package payment

import (
	"context"
	"errors"
	"net/url"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/clock"
	"github.com/lumicrm/lumicrm-go/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	// ErrPaymentTimeout means the status poll exhausted its fixed attempt
	// budget without a terminal answer.
	ErrPaymentTimeout = errors.New("payment_status_timeout")
	// ErrSessionExpired is the processor reporting the checkout session as
	// expired.
	ErrSessionExpired = errors.New("payment_session_expired")
	// ErrCaptureFailed is a wallet capture that did not settle as paid.
	ErrCaptureFailed = errors.New("payment_capture_failed")
)

const (
	StatusPaid    = "paid"
	StatusExpired = "expired"
)

var Module = fx.Module("payment",
	fx.Provide(NewService),
)

type Service struct {
	api *apiclient.Client
	log *zap.Logger
	clk clock.Clock
	cfg config.Config
}

func NewService(api *apiclient.Client, cfg config.Config, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{
		api: api,
		log: logger.Named("payment"),
		clk: clk,
		cfg: cfg,
	}
}

// CheckoutRequest asks the card processor for a hosted checkout session.
type CheckoutRequest struct {
	PackageID  string            `json:"package_id"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreateCheckoutSession returns the processor's redirect URL. The session
// id comes back as a query parameter when the processor redirects the user
// to the success URL.
func (s *Service) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	var session CheckoutSession
	if err := s.api.Post(ctx, "payments/checkout/session", req, &session); err != nil {
		return CheckoutSession{}, err
	}
	if session.URL == "" {
		return CheckoutSession{}, errors.New("payment_missing_checkout_url")
	}
	return session, nil
}

type StatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// PollStatus checks the checkout session at a fixed interval for a fixed
// number of attempts — no backoff, no other automatic retrying anywhere in
// the client. It returns when the payment is paid, the session expired, or
// the attempt budget ran out.
func (s *Service) PollStatus(ctx context.Context, sessionID string) (StatusResponse, error) {
	attempts := s.cfg.PaymentPollAttempts
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := s.clk.Sleep(ctx, s.cfg.PaymentPollInterval); err != nil {
				return StatusResponse{}, err
			}
		}

		var status StatusResponse
		if err := s.api.Get(ctx, "payments/checkout/status/"+url.PathEscape(sessionID), &status); err != nil {
			return StatusResponse{}, err
		}
		switch {
		case status.PaymentStatus == StatusPaid:
			return status, nil
		case status.Status == StatusExpired:
			return status, ErrSessionExpired
		}
		s.log.Debug("payment still pending",
			zap.String("session_id", sessionID),
			zap.Int("attempt", attempt+1),
		)
	}
	return StatusResponse{}, ErrPaymentTimeout
}

// WalletOrderRequest asks the wallet processor for an approval redirect.
type WalletOrderRequest struct {
	PackageID string            `json:"package_id"`
	ReturnURL string            `json:"return_url"`
	CancelURL string            `json:"cancel_url"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type WalletOrder struct {
	OrderID     string `json:"order_id"`
	ApprovalURL string `json:"approval_url"`
}

func (s *Service) CreateWalletOrder(ctx context.Context, req WalletOrderRequest) (WalletOrder, error) {
	var order WalletOrder
	if err := s.api.Post(ctx, "payments/paypal/create-order", req, &order); err != nil {
		return WalletOrder{}, err
	}
	if order.ApprovalURL == "" {
		return WalletOrder{}, errors.New("payment_missing_approval_url")
	}
	return order, nil
}

// CaptureWalletOrder completes the wallet payment after the processor
// redirected back with approval.
func (s *Service) CaptureWalletOrder(ctx context.Context, orderID string) error {
	var status StatusResponse
	if err := s.api.Post(ctx, "payments/paypal/capture-order/"+url.PathEscape(orderID), nil, &status); err != nil {
		return err
	}
	if status.PaymentStatus != StatusPaid {
		return ErrCaptureFailed
	}
	return nil
}

// ReturnOutcome classifies the query parameters the processors append when
// redirecting back to the app.
type ReturnOutcome struct {
	// CheckoutSessionID is set when the card processor returned; poll it.
	CheckoutSessionID string
	// WalletOrderID is set when the wallet processor returned approved;
	// capture it.
	WalletOrderID string
	// WalletCancelled is set when the user backed out of the wallet flow.
	WalletCancelled bool
}

// ParseReturn inspects the redirect-return query string.
func ParseReturn(query url.Values) ReturnOutcome {
	outcome := ReturnOutcome{
		CheckoutSessionID: query.Get("session_id"),
		WalletCancelled:   query.Get("paypal_cancelled") != "",
	}
	if query.Get("paypal_success") != "" {
		outcome.WalletOrderID = query.Get("token")
	}
	return outcome
}
