package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := apiclient.NewWithHTTPClient(srv.URL, srv.Client(), zap.NewNop())
	return NewService(api, config.Config{OAuthLoginURL: "https://auth.example.test/login"}, zap.NewNop())
}

func authBackend(authenticated bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !authenticated {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "not authenticated"})
			return
		}
		_ = json.NewEncoder(w).Encode(User{ID: "u1", Name: "Alice", Email: "alice@acme.be"})
	})
	return mux
}

func TestGuard_PublicPathsAlwaysAllowed(t *testing.T) {
	s := newAuthService(t, authBackend(false))

	for _, path := range []string{"/", "/login", "/register", "/pricing"} {
		assert.Equal(t, DecisionAllow, s.Guard(path), path)
	}
}

func TestGuard_NeverRendersProtectedContentBeforeResolve(t *testing.T) {
	s := newAuthService(t, authBackend(true))

	// Before the whoAmI settles, a protected screen shows the loading
	// state, not content and not a login redirect.
	assert.Equal(t, DecisionLoading, s.Guard("/contacts"))

	require.NoError(t, s.CheckAuth(context.Background()))
	assert.Equal(t, DecisionAllow, s.Guard("/contacts"))
}

func TestGuard_AnonymousRedirects(t *testing.T) {
	s := newAuthService(t, authBackend(false))

	require.NoError(t, s.CheckAuth(context.Background()))
	assert.Equal(t, DecisionRedirect, s.Guard("/invoices"))
}

func TestCheckAuth_RejectionIsAnonymousNotError(t *testing.T) {
	s := newAuthService(t, authBackend(false))

	err := s.CheckAuth(context.Background())
	assert.NoError(t, err, "an auth rejection is the normal signed-out outcome")

	state, user := s.Snapshot()
	assert.Equal(t, StateAnonymous, state)
	assert.Nil(t, user)
}

func TestCheckAuth_Authenticated(t *testing.T) {
	s := newAuthService(t, authBackend(true))

	require.NoError(t, s.CheckAuth(context.Background()))
	state, user := s.Snapshot()
	assert.Equal(t, StateAuthenticated, state)
	require.NotNil(t, user)
	assert.Equal(t, "alice@acme.be", user.Email)
}

func TestBeginOAuth_BuildsRedirect(t *testing.T) {
	s := newAuthService(t, authBackend(false))

	url := s.BeginOAuth("https://app.example.test/profile")
	assert.Equal(t, "https://auth.example.test/login?redirect=https%3A%2F%2Fapp.example.test%2Fprofile", url)
}

func TestSessionIDFromFragment(t *testing.T) {
	assert.Equal(t, "abc123", sessionIDFromFragment("#session_id=abc123"))
	assert.Equal(t, "abc123", sessionIDFromFragment("session_id=abc123&foo=bar"))
	assert.Empty(t, sessionIDFromFragment("#token=abc123"))
}

func TestLogout_InvalidatesLocalState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(User{ID: "u1", Name: "Alice"})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	s := newAuthService(t, mux)

	require.NoError(t, s.CheckAuth(context.Background()))
	require.NoError(t, s.Logout(context.Background()))

	state, user := s.Snapshot()
	assert.Equal(t, StateAnonymous, state)
	assert.Nil(t, user)
}
