package stubapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumicrm/lumicrm-go/internal/stubapi/password"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
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
	user := userRecord{
		ID:           s.newID(),
		Name:         req.Name,
		Email:        req.Email,
		AuthType:     "traditional",
		PasswordHash: hash,
		IsActive:     true,
		Plan:         defaultPlanID,
		Roles:        []string{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		abortWithError(c, err)
		return
	}

	s.startSession(c, user.ID)
	s.log.Info("user registered", zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errInvalidRequest)
		return
	}

	var user userRecord
	err := s.db.WithContext(c.Request.Context()).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil || user.AuthType != "traditional" || !password.Verify(req.Password, user.PasswordHash) {
		abortWithError(c, withDetail(errUnauthorized, "invalid email or password"))
		return
	}
	if !user.IsActive {
		abortWithError(c, withDetail(errUnauthorized, "account deactivated"))
		return
	}

	s.startSession(c, user.ID)
	c.JSON(http.StatusOK, user)
}

func (s *Server) startSession(c *gin.Context, userID string) {
	token, err := s.mintSession(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.SetCookie(sessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
}

// oauthProfile exchanges a provider session id for a session token; the
// client follows up with /auth/set-session to persist it as a cookie.
func (s *Server) oauthProfile(c *gin.Context) {
	sessionID := c.Query("session_id")
	s.mu.Lock()
	token, ok := s.oauthPending[sessionID]
	if ok {
		delete(s.oauthPending, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		abortWithError(c, withDetail(errUnauthorized, "invalid session"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_token": token})
}

func (s *Server) setSession(c *gin.Context) {
	token := c.Query("session_token")
	if token == "" {
		abortWithError(c, withDetail(errInvalidRequest, "session_token is required"))
		return
	}
	var session sessionRecord
	if err := s.db.WithContext(c.Request.Context()).First(&session, "token = ?", token).Error; err != nil {
		abortWithError(c, withDetail(errUnauthorized, "invalid session"))
		return
	}
	c.SetCookie(sessionCookie, token, int(time.Until(session.ExpiresAt).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) whoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.db.WithContext(c.Request.Context()).Delete(&sessionRecord{}, "token = ?", token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
