package stubapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// viesResult mirrors the registry response shape the client merges into
// accounts.
type viesResult struct {
	Valid      bool   `json:"valid"`
	Name       string `json:"name"`
	Street     string `json:"street"`
	StreetNr   string `json:"street_nr"`
	Box        string `json:"box"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

func defaultVIESFixtures() map[string]viesResult {
	return map[string]viesResult{
		"BE0123456789": {
			Valid:      true,
			Name:       "Acme Consulting BV",
			Street:     "Rue de la Loi",
			StreetNr:   "16",
			PostalCode: "1000",
			City:       "Brussels",
			Country:    "BE",
		},
		"NL123456789B01": {
			Valid:      true,
			Name:       "Windmill Trading B.V.",
			Street:     "Keizersgracht",
			StreetNr:   "42",
			PostalCode: "1015 CW",
			City:       "Amsterdam",
			Country:    "NL",
		},
	}
}

// RegisterVATFixture adds or replaces a registry fixture, for tests.
func (s *Server) RegisterVATFixture(number string, result viesResult) {
	s.mu.Lock()
	s.viesFixtures[normalizeVAT(number)] = result
	s.mu.Unlock()
}

func (s *Server) viesLookup(c *gin.Context) {
	if !planFor(currentUser(c)).VIESAccess {
		abortWithError(c, withDetail(errForbidden,
			"VIES lookup is not included in your plan: upgrade to Professional to validate VAT numbers"))
		return
	}
	number := normalizeVAT(c.Param("vat"))
	s.mu.Lock()
	result, ok := s.viesFixtures[number]
	s.mu.Unlock()
	if !ok {
		// Unknown numbers are reported as invalid, not as errors; the
		// registry answers either way.
		c.JSON(http.StatusOK, viesResult{Valid: false})
		return
	}
	c.JSON(http.StatusOK, result)
}

func normalizeVAT(number string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(number), " ", ""))
}
