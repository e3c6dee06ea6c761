package stubapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// All list/mutate endpoints are scoped to the signed-in user's records.

func (s *Server) listContacts(c *gin.Context) {
	var records []contactRecord
	if err := s.db.WithContext(c.Request.Context()).
		Where("owner_id = ?", currentUser(c).ID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) createContact(c *gin.Context) {
	var record contactRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	if strings.TrimSpace(record.Name) == "" {
		abortWithError(c, withDetail(errInvalidRequest, "name is required"))
		return
	}
	if !s.enforcePlanLimit(c, &contactRecord{}, planFor(currentUser(c)).ContactsMax, "contact") {
		return
	}
	record.ID = s.newID()
	record.OwnerID = currentUser(c).ID
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	if err := s.db.WithContext(c.Request.Context()).Create(&record).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) updateContact(c *gin.Context) {
	var existing contactRecord
	if err := s.db.WithContext(c.Request.Context()).
		First(&existing, "id = ? AND owner_id = ?", c.Param("id"), currentUser(c).ID).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "contact not found"))
		return
	}

	var patch contactRecord
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	patch.ID = existing.ID
	patch.OwnerID = existing.OwnerID
	patch.CreatedAt = existing.CreatedAt
	patch.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(c.Request.Context()).Save(&patch).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, patch)
}

func (s *Server) deleteContact(c *gin.Context) {
	s.deleteOwned(c, &contactRecord{}, "contact not found")
}

func (s *Server) listAccounts(c *gin.Context) {
	var records []accountRecord
	if err := s.db.WithContext(c.Request.Context()).
		Where("owner_id = ?", currentUser(c).ID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) createAccount(c *gin.Context) {
	var record accountRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	if strings.TrimSpace(record.Name) == "" {
		abortWithError(c, withDetail(errInvalidRequest, "name is required"))
		return
	}
	if !s.enforcePlanLimit(c, &accountRecord{}, planFor(currentUser(c)).AccountsMax, "account") {
		return
	}
	record.ID = s.newID()
	record.OwnerID = currentUser(c).ID
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	if err := s.db.WithContext(c.Request.Context()).Create(&record).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) updateAccount(c *gin.Context) {
	var existing accountRecord
	if err := s.db.WithContext(c.Request.Context()).
		First(&existing, "id = ? AND owner_id = ?", c.Param("id"), currentUser(c).ID).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "account not found"))
		return
	}

	var patch accountRecord
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	patch.ID = existing.ID
	patch.OwnerID = existing.OwnerID
	patch.CreatedAt = existing.CreatedAt
	patch.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(c.Request.Context()).Save(&patch).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, patch)
}

func (s *Server) deleteAccount(c *gin.Context) {
	s.deleteOwned(c, &accountRecord{}, "account not found")
}

func (s *Server) listProducts(c *gin.Context) {
	var records []productRecord
	if err := s.db.WithContext(c.Request.Context()).
		Where("owner_id = ?", currentUser(c).ID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) createProduct(c *gin.Context) {
	var record productRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	if strings.TrimSpace(record.Name) == "" {
		abortWithError(c, withDetail(errInvalidRequest, "name is required"))
		return
	}
	if record.Price < 0 {
		abortWithError(c, withDetail(errInvalidRequest, "price must not be negative"))
		return
	}
	record.ID = s.newID()
	record.OwnerID = currentUser(c).ID
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	if err := s.db.WithContext(c.Request.Context()).Create(&record).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) updateProduct(c *gin.Context) {
	var existing productRecord
	if err := s.db.WithContext(c.Request.Context()).
		First(&existing, "id = ? AND owner_id = ?", c.Param("id"), currentUser(c).ID).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "product not found"))
		return
	}

	var patch productRecord
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	patch.ID = existing.ID
	patch.OwnerID = existing.OwnerID
	patch.CreatedAt = existing.CreatedAt
	patch.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(c.Request.Context()).Save(&patch).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, patch)
}

func (s *Server) deleteProduct(c *gin.Context) {
	s.deleteOwned(c, &productRecord{}, "product not found")
}

func (s *Server) listEvents(c *gin.Context) {
	var records []eventRecord
	if err := s.db.WithContext(c.Request.Context()).
		Where("owner_id = ?", currentUser(c).ID).
		Order("start_date ASC").
		Find(&records).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) createEvent(c *gin.Context) {
	var record eventRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	if strings.TrimSpace(record.Title) == "" {
		abortWithError(c, withDetail(errInvalidRequest, "title is required"))
		return
	}
	record.ID = s.newID()
	record.OwnerID = currentUser(c).ID
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	if err := s.db.WithContext(c.Request.Context()).Create(&record).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) updateEvent(c *gin.Context) {
	var existing eventRecord
	if err := s.db.WithContext(c.Request.Context()).
		First(&existing, "id = ? AND owner_id = ?", c.Param("id"), currentUser(c).ID).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "event not found"))
		return
	}

	var patch eventRecord
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	patch.ID = existing.ID
	patch.OwnerID = existing.OwnerID
	patch.CreatedAt = existing.CreatedAt
	patch.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(c.Request.Context()).Save(&patch).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, patch)
}

func (s *Server) deleteEvent(c *gin.Context) {
	s.deleteOwned(c, &eventRecord{}, "event not found")
}

// deleteOwned removes the record at :id when it belongs to the caller.
func (s *Server) deleteOwned(c *gin.Context, model any, notFound string) {
	result := s.db.WithContext(c.Request.Context()).
		Where("id = ? AND owner_id = ?", c.Param("id"), currentUser(c).ID).
		Delete(model)
	if result.Error != nil {
		abortWithError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		abortWithError(c, withDetail(errNotFound, notFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
