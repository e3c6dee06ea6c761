package vat

import (
	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
)

// MergeMode controls what a lookup result does to fields the user already
// filled in.
type MergeMode string

const (
	// MergeOverwrite replaces the draft's company and address fields with
	// every non-empty field of the lookup result, regardless of existing
	// user input. This is the historical behavior.
	MergeOverwrite MergeMode = "overwrite"
	// MergeFillEmpty only fills fields the draft left empty.
	MergeFillEmpty MergeMode = "fill_empty"
)

// Merge applies a lookup result to the account draft. Only company and
// address fields are touched; the draft's VAT number is never auto-modified
// by the lookup. Empty lookup fields never clobber the draft in either
// mode.
func Merge(draft accountdomain.Account, result Result, mode MergeMode) accountdomain.Account {
	apply := func(target *string, value string) {
		if value == "" {
			return
		}
		if mode == MergeFillEmpty && *target != "" {
			return
		}
		*target = value
	}

	apply(&draft.Name, result.Name)
	apply(&draft.Street, result.Street)
	apply(&draft.StreetNr, result.StreetNr)
	apply(&draft.Box, result.Box)
	apply(&draft.PostalCode, result.PostalCode)
	apply(&draft.City, result.City)
	apply(&draft.Country, result.Country)
	return draft
}
