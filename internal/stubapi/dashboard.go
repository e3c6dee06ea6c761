package stubapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) dashboardStats(c *gin.Context) {
	owner := currentUser(c).ID
	counts := map[string]any{}
	for key, model := range map[string]any{
		"total_contacts": &contactRecord{},
		"total_accounts": &accountRecord{},
		"total_products": &productRecord{},
		"total_invoices": &invoiceRecord{},
		"total_events":   &eventRecord{},
	} {
		var n int64
		if err := s.db.WithContext(c.Request.Context()).
			Model(model).
			Where("owner_id = ?", owner).
			Count(&n).Error; err != nil {
			abortWithError(c, err)
			return
		}
		counts[key] = n
	}
	counts["open_tasks"] = 0
	c.JSON(http.StatusOK, counts)
}
