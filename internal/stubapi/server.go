// Package stubapi is an in-process rendition of the CRM backend used by
// integration tests and local development. It speaks the same REST
// contract the client consumes: cookie sessions, plain JSON bodies, and
// `detail` error envelopes. State lives in an in-memory SQLite database.
package stubapi

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/lumicrm/lumicrm-go/internal/stubapi/password"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	sessionCookie  = "session_token"
	sessionTTL     = 7 * 24 * time.Hour
	contextUserKey = "current_user"
)

type Server struct {
	db     *gorm.DB
	log    *zap.Logger
	ids    *snowflake.Node
	router *gin.Engine

	invoiceSeq atomic.Int64

	mu           sync.Mutex
	viesFixtures map[string]viesResult
	oauthPending map[string]string
}

func New(log *zap.Logger) (*Server, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// A pooled in-memory sqlite would give every connection its own empty
	// database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userRecord{},
		&sessionRecord{},
		&contactRecord{},
		&accountRecord{},
		&productRecord{},
		&invoiceRecord{},
		&eventRecord{},
		&customFieldRecord{},
		&paymentSessionRecord{},
	); err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	s := &Server{
		db:           db,
		log:          log.Named("stubapi"),
		ids:          node,
		viesFixtures: defaultVIESFixtures(),
		oauthPending: make(map[string]string),
	}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), errorHandler())

	r.POST("/auth/register", s.register)
	r.POST("/auth/login", s.login)
	r.GET("/auth/profile", s.oauthProfile)
	r.POST("/auth/set-session", s.setSession)

	authed := r.Group("/", s.sessionRequired())
	authed.GET("auth/me", s.whoAmI)
	authed.POST("auth/logout", s.logout)

	authed.GET("contacts", s.listContacts)
	authed.POST("contacts", s.createContact)
	authed.PUT("contacts/:id", s.updateContact)
	authed.DELETE("contacts/:id", s.deleteContact)

	authed.GET("accounts", s.listAccounts)
	authed.POST("accounts", s.createAccount)
	authed.PUT("accounts/:id", s.updateAccount)
	authed.DELETE("accounts/:id", s.deleteAccount)
	authed.GET("accounts/vies-lookup/:vat", s.viesLookup)

	authed.GET("products", s.listProducts)
	authed.POST("products", s.createProduct)
	authed.PUT("products/:id", s.updateProduct)
	authed.DELETE("products/:id", s.deleteProduct)

	authed.GET("invoices", s.listInvoices)
	authed.POST("invoices", s.createInvoice)
	authed.PUT("invoices/:id", s.updateInvoice)
	authed.DELETE("invoices/:id", s.deleteInvoice)
	authed.GET("invoices/:id/pdf", s.invoicePDF)

	authed.GET("calendar/events", s.listEvents)
	authed.POST("calendar/events", s.createEvent)
	authed.PUT("calendar/events/:id", s.updateEvent)
	authed.DELETE("calendar/events/:id", s.deleteEvent)

	authed.GET("users/current-plan", s.currentPlan)
	authed.POST("users/select-plan", s.selectPlan)

	authed.GET("dashboard/stats", s.dashboardStats)

	authed.POST("payments/checkout/session", s.createCheckoutSession)
	authed.GET("payments/checkout/status/:id", s.checkoutStatus)
	authed.POST("payments/paypal/create-order", s.createWalletOrder)
	authed.POST("payments/paypal/capture-order/:id", s.captureWalletOrder)

	admin := authed.Group("admin", s.adminRequired())
	admin.GET("/users", s.adminListUsers)
	admin.POST("/users", s.adminCreateUser)
	admin.POST("/users/:id/role", s.adminAssignRole)
	admin.DELETE("/users/:id/role/:role", s.adminRemoveRole)
	admin.PUT("/users/:id/status", s.adminSetUserStatus)
	admin.GET("/custom-fields", s.adminListCustomFields)
	admin.POST("/custom-fields", s.adminCreateCustomField)
	admin.DELETE("/custom-fields/:id", s.adminDeleteCustomField)

	return r
}

// sessionRequired resolves the session cookie (or a bearer token) into
// the current user.
func (s *Server) sessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if cookie, err := c.Cookie(sessionCookie); err == nil {
			token = cookie
		}
		if token == "" {
			header := strings.TrimSpace(c.GetHeader("Authorization"))
			if parts := strings.Fields(header); len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			abortWithError(c, errUnauthorized)
			return
		}

		var session sessionRecord
		if err := s.db.WithContext(c.Request.Context()).First(&session, "token = ?", token).Error; err != nil {
			abortWithError(c, withDetail(errUnauthorized, "invalid session"))
			return
		}
		if time.Now().After(session.ExpiresAt) {
			abortWithError(c, withDetail(errUnauthorized, "session expired"))
			return
		}

		var user userRecord
		if err := s.db.WithContext(c.Request.Context()).First(&user, "id = ?", session.UserID).Error; err != nil {
			abortWithError(c, withDetail(errUnauthorized, "invalid session"))
			return
		}
		if !user.IsActive {
			abortWithError(c, withDetail(errUnauthorized, "account deactivated"))
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func (s *Server) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		for _, role := range user.Roles {
			if role == "admin" {
				c.Next()
				return
			}
		}
		abortWithError(c, withDetail(errForbidden, "admin access required"))
	}
}

func currentUser(c *gin.Context) userRecord {
	value, _ := c.Get(contextUserKey)
	user, _ := value.(userRecord)
	return user
}

func (s *Server) newID() string {
	return s.ids.Generate().String()
}

// SeedUser creates an account directly, for tests and local bootstrap.
func (s *Server) SeedUser(name, email, plaintext string, roles ...string) (string, error) {
	hash, err := password.Hash(plaintext)
	if err != nil {
		return "", err
	}
	user := userRecord{
		ID:           s.newID(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		AuthType:     "traditional",
		PasswordHash: hash,
		IsActive:     true,
		Plan:         defaultPlanID,
		Roles:        append([]string{}, roles...),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", err
	}
	return user.ID, nil
}

// SeedOAuthSession registers a provider-issued session id that
// /auth/profile can exchange for a session token belonging to email.
func (s *Server) SeedOAuthSession(sessionID, email string) error {
	var user userRecord
	if err := s.db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return err
	}
	token, err := s.mintSession(user.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.oauthPending[sessionID] = token
	s.mu.Unlock()
	return nil
}

func (s *Server) mintSession(userID string) (string, error) {
	session := sessionRecord{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", err
	}
	return session.Token, nil
}
