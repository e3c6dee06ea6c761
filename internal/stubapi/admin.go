package stubapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumicrm/lumicrm-go/internal/stubapi/password"
	"gorm.io/gorm"
)

// adminUserView joins the account with its payment aggregates.
type adminUserView struct {
	userRecord
	PaymentsCount int     `json:"payments_count"`
	TotalPaid     float64 `json:"total_paid"`
}

func (s *Server) adminListUsers(c *gin.Context) {
	var users []userRecord
	if err := s.db.WithContext(c.Request.Context()).Order("created_at ASC").Find(&users).Error; err != nil {
		abortWithError(c, err)
		return
	}

	views := make([]adminUserView, 0, len(users))
	for _, user := range users {
		var count int64
		s.db.WithContext(c.Request.Context()).
			Model(&paymentSessionRecord{}).
			Where("user_id = ? AND status = ?", user.ID, "paid").
			Count(&count)
		views = append(views, adminUserView{
			userRecord:    user,
			PaymentsCount: int(count),
		})
	}
	c.JSON(http.StatusOK, views)
}

type adminCreateUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

func (s *Server) adminCreateUser(c *gin.Context) {
	var req adminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || !strings.Contains(req.Email, "@") || len(req.Password) < 6 {
		abortWithError(c, withDetail(errInvalidRequest, "name, email and a password of at least 6 characters are required"))
		return
	}

	var existing userRecord
	err := s.db.WithContext(c.Request.Context()).First(&existing, "email = ?", req.Email).Error
	if err == nil {
		abortWithError(c, withDetail(errConflict, "an account with this email already exists"))
		return
	}
	if err != gorm.ErrRecordNotFound {
		abortWithError(c, err)
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	roles := req.Roles
	if roles == nil {
		roles = []string{}
	}
	user := userRecord{
		ID:           s.newID(),
		Name:         req.Name,
		Email:        req.Email,
		AuthType:     "traditional",
		PasswordHash: hash,
		IsActive:     true,
		Plan:         defaultPlanID,
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) adminAssignRole(c *gin.Context) {
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Role) == "" {
		abortWithError(c, withDetail(errInvalidRequest, "role is required"))
		return
	}

	var user userRecord
	if err := s.db.WithContext(c.Request.Context()).First(&user, "id = ?", c.Param("id")).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "user not found"))
		return
	}
	for _, role := range user.Roles {
		if role == req.Role {
			c.JSON(http.StatusOK, user)
			return
		}
	}
	user.Roles = append(user.Roles, req.Role)
	if err := s.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) adminRemoveRole(c *gin.Context) {
	var user userRecord
	if err := s.db.WithContext(c.Request.Context()).First(&user, "id = ?", c.Param("id")).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "user not found"))
		return
	}

	target := c.Param("role")
	kept := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		if role != target {
			kept = append(kept, role)
		}
	}
	user.Roles = kept
	if err := s.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type setStatusRequest struct {
	IsActive bool `json:"is_active"`
}

func (s *Server) adminSetUserStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}

	var user userRecord
	if err := s.db.WithContext(c.Request.Context()).First(&user, "id = ?", c.Param("id")).Error; err != nil {
		abortWithError(c, withDetail(errNotFound, "user not found"))
		return
	}
	user.IsActive = req.IsActive
	if err := s.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) adminListCustomFields(c *gin.Context) {
	var fields []customFieldRecord
	if err := s.db.WithContext(c.Request.Context()).Order("created_at ASC").Find(&fields).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

func (s *Server) adminCreateCustomField(c *gin.Context) {
	var field customFieldRecord
	if err := c.ShouldBindJSON(&field); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}
	if strings.TrimSpace(field.FieldName) == "" {
		abortWithError(c, withDetail(errInvalidRequest, "field_name is required"))
		return
	}
	if field.FieldOptions == nil {
		field.FieldOptions = []string{}
	}
	field.ID = s.newID()
	field.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(c.Request.Context()).Create(&field).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, field)
}

func (s *Server) adminDeleteCustomField(c *gin.Context) {
	result := s.db.WithContext(c.Request.Context()).
		Delete(&customFieldRecord{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		abortWithError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		abortWithError(c, withDetail(errNotFound, "custom field not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
