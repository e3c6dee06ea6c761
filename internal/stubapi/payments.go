package stubapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	PackageID  string            `json:"package_id"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`
}

// createCheckoutSession opens a fake provider session. Metadata keys
// steer the simulated outcome: `paid_after` (polls before the session
// settles, default 1) and `final_status` (`paid` or `expired`).
func (s *Server) createCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	if req.PackageID == "" {
		abortWithError(c, withDetail(errInvalidRequest, "package_id is required"))
		return
	}

	session := paymentSessionRecord{
		ID:          "cs_" + s.newID(),
		UserID:      currentUser(c).ID,
		PackageID:   req.PackageID,
		Status:      "open",
		PaidAfter:   1,
		FinalStatus: "paid",
		CreatedAt:   time.Now().UTC(),
	}
	if raw, ok := req.Metadata["paid_after"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			session.PaidAfter = n
		}
	}
	if status, ok := req.Metadata["final_status"]; ok && status != "" {
		session.FinalStatus = status
	}

	if err := s.db.WithContext(c.Request.Context()).Create(&session).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"url":        "https://checkout.example.test/pay/" + session.ID,
	})
}

func (s *Server) checkoutStatus(c *gin.Context) {
	var session paymentSessionRecord
	if err := s.db.WithContext(c.Request.Context()).
		First(&session, "id = ? AND user_id = ?", c.Param("id"), currentUser(c).ID).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "checkout session not found"))
		return
	}

	session.Polls++
	if session.Status == "open" && session.Polls >= session.PaidAfter {
		session.Status = session.FinalStatus
		if session.Status == "paid" {
			if err := s.applyPaidPackage(c, session); err != nil {
				abortWithError(c, err)
				return
			}
		}
	}
	if err := s.db.WithContext(c.Request.Context()).Save(&session).Error; err != nil {
		abortWithError(c, err)
		return
	}

	paymentStatus := "unpaid"
	if session.Status == "paid" {
		paymentStatus = "paid"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         session.Status,
		"payment_status": paymentStatus,
	})
}

type walletOrderRequest struct {
	PackageID string            `json:"package_id"`
	ReturnURL string            `json:"return_url"`
	CancelURL string            `json:"cancel_url"`
	Metadata  map[string]string `json:"metadata"`
}

func (s *Server) createWalletOrder(c *gin.Context) {
	var req walletOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	if req.PackageID == "" {
		abortWithError(c, withDetail(errInvalidRequest, "package_id is required"))
		return
	}

	order := paymentSessionRecord{
		ID:        "order_" + s.newID(),
		UserID:    currentUser(c).ID,
		PackageID: req.PackageID,
		Status:    "created",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(c.Request.Context()).Create(&order).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":     order.ID,
		"approval_url": "https://wallet.example.test/approve/" + order.ID,
	})
}

func (s *Server) captureWalletOrder(c *gin.Context) {
	var order paymentSessionRecord
	if err := s.db.WithContext(c.Request.Context()).
		First(&order, "id = ? AND user_id = ?", c.Param("id"), currentUser(c).ID).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "order not found"))
		return
	}

	order.Status = "paid"
	if err := s.applyPaidPackage(c, order); err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.db.WithContext(c.Request.Context()).Save(&order).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "COMPLETED",
		"payment_status": "paid",
	})
}

// applyPaidPackage upgrades the payer's plan when the purchased package
// names a catalog tier.
func (s *Server) applyPaidPackage(c *gin.Context, session paymentSessionRecord) error {
	if _, ok := planCatalog[session.PackageID]; !ok {
		return nil
	}
	return s.db.WithContext(c.Request.Context()).
		Model(&userRecord{}).Where("id = ?", session.UserID).
		Update("plan", session.PackageID).Error
}
