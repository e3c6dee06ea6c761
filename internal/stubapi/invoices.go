package stubapi

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumicrm/lumicrm-go/internal/invoice/calc"
)

func (s *Server) listInvoices(c *gin.Context) {
	var records []invoiceRecord
	if err := s.db.WithContext(c.Request.Context()).
		Where("owner_id = ?", currentUser(c).ID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) createInvoice(c *gin.Context) {
	var record invoiceRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	if record.AccountID == "" || len(record.Items) == 0 {
		abortWithError(c, withDetail(errInvalidRequest, "account_id and at least one line item are required"))
		return
	}

	now := time.Now().UTC()
	number, err := formatInvoiceNumber(defaultInvoiceNumberTemplate, now, s.invoiceSeq.Add(1))
	if err != nil {
		abortWithError(c, err)
		return
	}

	record.ID = s.newID()
	record.OwnerID = currentUser(c).ID
	record.InvoiceNumber = number
	record.IssueDate = now
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Status == "" {
		record.Status = "draft"
	}
	if record.Type == "" {
		record.Type = "invoice"
	}
	s.applyTotals(c, &record)

	if err := s.db.WithContext(c.Request.Context()).Create(&record).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) updateInvoice(c *gin.Context) {
	var existing invoiceRecord
	if err := s.db.WithContext(c.Request.Context()).
		First(&existing, "id = ? AND owner_id = ?", c.Param("id"), currentUser(c).ID).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "invoice not found"))
		return
	}

	var patch invoiceRecord
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	patch.ID = existing.ID
	patch.OwnerID = existing.OwnerID
	patch.InvoiceNumber = existing.InvoiceNumber
	patch.IssueDate = existing.IssueDate
	patch.CreatedAt = existing.CreatedAt
	patch.UpdatedAt = time.Now().UTC()
	s.applyTotals(c, &patch)

	if err := s.db.WithContext(c.Request.Context()).Save(&patch).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, patch)
}

func (s *Server) deleteInvoice(c *gin.Context) {
	s.deleteOwned(c, &invoiceRecord{}, "invoice not found")
}

// applyTotals recomputes the authoritative amounts server-side, taxing
// each line at its referenced product's rate.
func (s *Server) applyTotals(c *gin.Context, record *invoiceRecord) {
	lines := make([]calc.Line, 0, len(record.Items))
	for _, item := range record.Items {
		line := calc.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
		if item.ProductID != "" {
			var product productRecord
			if err := s.db.WithContext(c.Request.Context()).
				First(&product, "id = ?", item.ProductID).Error; err == nil {
				line.TaxRate = product.TaxRate
			}
		}
		lines = append(lines, line)
	}
	totals := calc.ComputePerLine(lines)
	record.Subtotal = totals.Subtotal.InexactFloat64()
	record.TaxAmount = totals.Tax.InexactFloat64()
	record.TotalAmount = totals.Total.InexactFloat64()
}

// invoicePDF returns a canned single-page document, base64-encoded the
// way the production endpoint does.
func (s *Server) invoicePDF(c *gin.Context) {
	var record invoiceRecord
	if err := s.db.WithContext(c.Request.Context()).
		First(&record, "id = ? AND owner_id = ?", c.Param("id"), currentUser(c).ID).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "invoice not found"))
		return
	}

	document := fmt.Sprintf("%%PDF-1.4\n%% stub invoice %s total %.2f\n%%%%EOF\n",
		record.InvoiceNumber, record.TotalAmount)
	c.JSON(http.StatusOK, gin.H{
		"pdf_data": base64.StdEncoding.EncodeToString([]byte(document)),
	})
}
