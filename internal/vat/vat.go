// Package vat talks to the VIES registry (through the API's lookup route)
// and merges looked-up company data into the active account draft. It never
// writes into the entity list store directly.
package vat

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	// ErrNotFoundOrInvalid means the registry has no match for the number or
	// rejected its checksum.
	ErrNotFoundOrInvalid = errors.New("vat_not_found_or_invalid")
	// ErrLookup is a network or timeout failure against the registry.
	ErrLookup = errors.New("vat_lookup_failed")
	// ErrUpgradeRequired means the account's plan does not include the
	// registry lookup; the UI points at the Professional tier.
	ErrUpgradeRequired = errors.New("vat_upgrade_required")
)

// numberFormat is the expected shape: a two-letter country code followed by
// an alphanumeric identifier.
var numberFormat = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z+*.]{2,12}$`)

// Result is the structured company record the registry returns for a valid
// number.
type Result struct {
	Valid      bool   `json:"valid"`
	Name       string `json:"name"`
	Street     string `json:"street"`
	StreetNr   string `json:"street_nr"`
	Box        string `json:"box"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// Normalize trims and upper-cases a VAT number before it is sent anywhere.
func Normalize(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// ValidFormat reports whether the normalized number has the expected shape.
func ValidFormat(number string) bool {
	return numberFormat.MatchString(number)
}

var Module = fx.Module("vat",
	fx.Provide(NewService),
)

type Service struct {
	api *apiclient.Client
	log *zap.Logger
}

func NewService(api *apiclient.Client, logger *zap.Logger) *Service {
	return &Service{
		api: api,
		log: logger.Named("vat"),
	}
}

// Lookup queries the registry for a VAT number. The input is normalized
// first; a number that cannot be a VAT identifier is rejected without a
// remote call. On any failure the caller's draft stays unchanged.
func (s *Service) Lookup(ctx context.Context, number string) (Result, error) {
	normalized := Normalize(number)
	if !ValidFormat(normalized) {
		return Result{}, ErrNotFoundOrInvalid
	}

	var result Result
	if err := s.api.Get(ctx, "accounts/vies-lookup/"+normalized, &result); err != nil {
		if apiclient.IsNotFound(err) {
			return Result{}, ErrNotFoundOrInvalid
		}
		if apiclient.IsForbidden(err) {
			return Result{}, errors.Join(ErrUpgradeRequired, err)
		}
		s.log.Warn("vies lookup failed", zap.Error(err))
		return Result{}, errors.Join(ErrLookup, err)
	}
	if !result.Valid {
		return Result{}, ErrNotFoundOrInvalid
	}
	return result, nil
}
