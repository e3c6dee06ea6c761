package vat

import (
	"testing"

	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	"github.com/stretchr/testify/assert"
)

func TestMerge_OverwriteReplacesFilledFields(t *testing.T) {
	draft := accountdomain.Account{
		Name:      "typed by hand",
		City:      "Ghent",
		VATNumber: "BE0123456789",
	}
	result := Result{
		Valid: true,
		Name:  "Acme Consulting BV",
		City:  "Brussels",
	}

	merged := Merge(draft, result, MergeOverwrite)

	assert.Equal(t, "Acme Consulting BV", merged.Name)
	assert.Equal(t, "Brussels", merged.City)
}

func TestMerge_FillEmptyKeepsUserInput(t *testing.T) {
	draft := accountdomain.Account{
		Name: "typed by hand",
		City: "",
	}
	result := Result{Valid: true, Name: "Acme Consulting BV", City: "Brussels"}

	merged := Merge(draft, result, MergeFillEmpty)

	assert.Equal(t, "typed by hand", merged.Name, "filled field is preserved")
	assert.Equal(t, "Brussels", merged.City, "empty field is filled")
}

func TestMerge_EmptyLookupFieldsNeverClobber(t *testing.T) {
	draft := accountdomain.Account{
		Name:       "Keep Me BV",
		Street:     "Main Street",
		PostalCode: "9000",
	}
	result := Result{Valid: true, City: "Brussels"}

	merged := Merge(draft, result, MergeOverwrite)

	assert.Equal(t, "Keep Me BV", merged.Name)
	assert.Equal(t, "Main Street", merged.Street)
	assert.Equal(t, "9000", merged.PostalCode)
	assert.Equal(t, "Brussels", merged.City)
}

func TestMerge_NeverTouchesVATNumber(t *testing.T) {
	draft := accountdomain.Account{VATNumber: "BE0123456789"}
	result := Result{Valid: true, Name: "Acme", Country: "NL"}

	for _, mode := range []MergeMode{MergeOverwrite, MergeFillEmpty} {
		merged := Merge(draft, result, mode)
		assert.Equal(t, "BE0123456789", merged.VATNumber)
	}
}

func TestMerge_RoundTripIdempotent(t *testing.T) {
	result := Result{
		Valid: true, Name: "Acme Consulting BV", Street: "Rue de la Loi",
		StreetNr: "16", PostalCode: "1000", City: "Brussels", Country: "BE",
	}

	once := Merge(accountdomain.Account{}, result, MergeOverwrite)
	twice := Merge(once, result, MergeOverwrite)

	assert.Equal(t, once, twice)
}
