// Package auth holds the client's session state. Two login mechanisms — an
// identity-provider redirect flow and a direct username/password submission
// — converge on the same authenticated state, established by the whoAmI
// check.
package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// State is the session lifecycle: unknown -> checking -> authenticated or
// anonymous, with explicit invalidation back to anonymous on logout.
type State string

const (
	StateUnknown       State = "unknown"
	StateChecking      State = "checking"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// User is the whoAmI identity.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	AuthType  string    `json:"auth_type,omitempty"`
	Roles     []string  `json:"roles,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrNoSessionID means the redirect-return URL fragment carried no session
// identifier to exchange.
var ErrNoSessionID = errors.New("auth_missing_session_id")

var Module = fx.Module("auth",
	fx.Provide(NewService),
)

// Service tracks the current session. It is the single source of the
// currentUser value every guarded screen reads.
type Service struct {
	api *apiclient.Client
	cfg config.Config
	log *zap.Logger

	mu    sync.RWMutex
	state State
	user  *User
}

func NewService(api *apiclient.Client, cfg config.Config, logger *zap.Logger) *Service {
	return &Service{
		api:   api,
		cfg:   cfg,
		log:   logger.Named("auth"),
		state: StateUnknown,
	}
}

// Snapshot returns the current state and user. The user is nil unless the
// state is authenticated.
func (s *Service) Snapshot() (State, *User) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return s.state, nil
	}
	user := *s.user
	return s.state, &user
}

// CurrentUser returns the authenticated user, nil when unauthenticated.
func (s *Service) CurrentUser() *User {
	_, user := s.Snapshot()
	return user
}

// CheckAuth runs the whoAmI call and settles the session state. Any failure
// leaves the client anonymous; an auth rejection is the normal
// not-logged-in outcome and reports no error.
func (s *Service) CheckAuth(ctx context.Context) error {
	s.setState(StateChecking, nil)

	var user User
	if err := s.api.Get(ctx, "auth/me", &user); err != nil {
		s.setState(StateAnonymous, nil)
		if apiclient.IsAuth(err) {
			return nil
		}
		return err
	}

	s.setState(StateAuthenticated, &user)
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginWithPassword submits credentials directly. The server responds by
// setting the session cookie; the follow-up whoAmI establishes the user.
func (s *Service) LoginWithPassword(ctx context.Context, email, password string) error {
	if err := s.api.Post(ctx, "auth/login", loginRequest{Email: email, Password: password}, nil); err != nil {
		return err
	}
	return s.CheckAuth(ctx)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a traditional account and logs it in.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	if err := s.api.Post(ctx, "auth/register", registerRequest{Name: name, Email: email, Password: password}, nil); err != nil {
		return err
	}
	return s.CheckAuth(ctx)
}

// BeginOAuth builds the identity-provider URL the browser is sent to. The
// provider returns to returnURL with a fragment-encoded session_id.
func (s *Service) BeginOAuth(returnURL string) string {
	return s.cfg.OAuthLoginURL + "?redirect=" + url.QueryEscape(returnURL)
}

type profileResponse struct {
	SessionToken string `json:"session_token"`
}

// CompleteOAuth finishes the redirect flow: it extracts the session_id from
// the return URL fragment, exchanges it for a session token, sets the
// session cookie through the API, and settles the state with a whoAmI.
func (s *Service) CompleteOAuth(ctx context.Context, fragment string) error {
	sessionID := sessionIDFromFragment(fragment)
	if sessionID == "" {
		return ErrNoSessionID
	}

	var profile profileResponse
	if err := s.api.Get(ctx, "auth/profile?session_id="+url.QueryEscape(sessionID), &profile); err != nil {
		return err
	}
	if err := s.api.Post(ctx, "auth/set-session?session_token="+url.QueryEscape(profile.SessionToken), nil, nil); err != nil {
		return err
	}
	return s.CheckAuth(ctx)
}

// Logout invalidates the session remotely and locally.
func (s *Service) Logout(ctx context.Context) error {
	err := s.api.Post(ctx, "auth/logout", nil, nil)
	s.setState(StateAnonymous, nil)
	return err
}

func (s *Service) setState(state State, user *User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.mu.Unlock()
}

func sessionIDFromFragment(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	if idx := strings.Index(fragment, "session_id="); idx >= 0 {
		value := fragment[idx+len("session_id="):]
		if amp := strings.IndexByte(value, '&'); amp >= 0 {
			value = value[:amp]
		}
		return value
	}
	return ""
}
