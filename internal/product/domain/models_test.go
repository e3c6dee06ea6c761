package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft_Defaults(t *testing.T) {
	draft := NewDraft()

	assert.Equal(t, CurrencyEUR, draft.Currency)
	assert.Equal(t, DefaultTaxRate, draft.TaxRate)
	assert.True(t, draft.Active)
}

func TestValidate_TaxRateMustBeKnownBand(t *testing.T) {
	product := NewDraft()
	product.Name = "Consulting Hour"
	product.Price = 95

	for _, rate := range TaxRates {
		product.TaxRate = rate
		assert.NoError(t, Validate(product), "band %v", rate)
	}

	product.TaxRate = 0.19
	assert.Error(t, Validate(product), "foreign VAT rates are rejected")
}

func TestValidate_RejectsNegativePrice(t *testing.T) {
	product := NewDraft()
	product.Name = "Consulting Hour"
	product.Price = -1

	assert.Error(t, Validate(product))
}

func TestParsePrice(t *testing.T) {
	price, err := ParsePrice(" 19.99 ")
	require.NoError(t, err)
	assert.Equal(t, 19.99, price)

	_, err = ParsePrice("nineteen")
	assert.Error(t, err)
}

func TestSuggestSKU(t *testing.T) {
	sku := SuggestSKU("Consulting Hour (Senior)")

	parts := strings.SplitN(sku, "-", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "CONSUL", parts[0], "six alphanumeric characters from the name")
	assert.Len(t, parts[1], 3)
}
