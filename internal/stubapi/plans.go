package stubapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// planDef is a subscription tier. A negative cap means the tier does not
// limit that entity.
type planDef struct {
	ID          string
	Name        string
	Features    []string
	ContactsMax int
	AccountsMax int
	VIESAccess  bool
}

const defaultPlanID = "starter"

var planCatalog = map[string]planDef{
	"starter": {
		ID:   "starter",
		Name: "Starter",
		Features: []string{
			"Up to 5 contacts",
			"Up to 2 accounts",
			"Basic invoicing",
		},
		ContactsMax: 5,
		AccountsMax: 2,
	},
	"professional": {
		ID:   "professional",
		Name: "Professional",
		Features: []string{
			"Unlimited contacts",
			"Unlimited accounts",
			"VIES VAT lookup",
			"PDF invoices",
		},
		ContactsMax: -1,
		AccountsMax: -1,
		VIESAccess:  true,
	},
	"enterprise": {
		ID:   "enterprise",
		Name: "Enterprise",
		Features: []string{
			"Everything in Professional",
			"Custom fields",
			"Priority support",
		},
		ContactsMax: -1,
		AccountsMax: -1,
		VIESAccess:  true,
	},
}

// planFor resolves the user's tier, falling back to starter for accounts
// seeded before plans existed.
func planFor(user userRecord) planDef {
	if def, ok := planCatalog[user.Plan]; ok {
		return def
	}
	return planCatalog[defaultPlanID]
}

func (s *Server) currentPlan(c *gin.Context) {
	s.renderPlanOverview(c, currentUser(c))
}

type selectPlanRequest struct {
	PlanID string `json:"plan_id"`
}

func (s *Server) selectPlan(c *gin.Context) {
	var req selectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	planID := strings.ToLower(strings.TrimSpace(req.PlanID))
	if _, ok := planCatalog[planID]; !ok {
		abortWithError(c, withDetail(errInvalidRequest, fmt.Sprintf("unknown plan %q", req.PlanID)))
		return
	}

	user := currentUser(c)
	if err := s.db.WithContext(c.Request.Context()).
		Model(&userRecord{}).Where("id = ?", user.ID).
		Update("plan", planID).Error; err != nil {
		abortWithError(c, err)
		return
	}
	user.Plan = planID
	s.renderPlanOverview(c, user)
}

func (s *Server) renderPlanOverview(c *gin.Context, user userRecord) {
	def := planFor(user)
	contacts, accounts, err := s.planUsage(c, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan": gin.H{
			"id":       def.ID,
			"name":     def.Name,
			"features": def.Features,
		},
		"limits": gin.H{
			"contacts_max": def.ContactsMax,
			"accounts_max": def.AccountsMax,
		},
		"usage": gin.H{
			"contacts": contacts,
			"accounts": accounts,
		},
	})
}

func (s *Server) planUsage(c *gin.Context, ownerID string) (contacts, accounts int64, err error) {
	db := s.db.WithContext(c.Request.Context())
	if err = db.Model(&contactRecord{}).Where("owner_id = ?", ownerID).Count(&contacts).Error; err != nil {
		return
	}
	err = db.Model(&accountRecord{}).Where("owner_id = ?", ownerID).Count(&accounts).Error
	return
}

// enforcePlanLimit blocks a create once the tier's cap for the entity is
// reached. Reports false after writing the error response.
func (s *Server) enforcePlanLimit(c *gin.Context, model any, max int, noun string) bool {
	if max < 0 {
		return true
	}
	var count int64
	if err := s.db.WithContext(c.Request.Context()).
		Model(model).Where("owner_id = ?", currentUser(c).ID).
		Count(&count).Error; err != nil {
		abortWithError(c, err)
		return false
	}
	if count >= int64(max) {
		def := planFor(currentUser(c))
		abortWithError(c, withDetail(errForbidden, fmt.Sprintf(
			"%s limit reached on the %s plan (max %d): upgrade to Professional for unlimited %ss",
			noun, def.Name, max, noun)))
		return false
	}
	return true
}
