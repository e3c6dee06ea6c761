package auth

import "strings"

// Decision is the route guard outcome for a screen request.
type Decision string

const (
	// DecisionAllow renders the guarded content.
	DecisionAllow Decision = "allow"
	// DecisionLoading shows a loading indicator while the initial whoAmI is
	// unresolved — never the guarded content and never a redirect, so the
	// login page does not flash during the check.
	DecisionLoading Decision = "loading"
	// DecisionRedirect sends the anonymous visitor to the login path.
	DecisionRedirect Decision = "redirect"
)

// LoginPath is where redirected visitors land.
const LoginPath = "/"

var publicPaths = map[string]struct{}{
	"/":         {},
	"/login":    {},
	"/register": {},
	"/pricing":  {},
	"/profile":  {},
}

// Public reports whether a path is reachable without a session.
func Public(path string) bool {
	_, ok := publicPaths[normalizePath(path)]
	return ok
}

// Guard decides whether the session may see path. Protected content is
// never rendered, even transiently, before the auth check resolves to
// authenticated.
func (s *Service) Guard(path string) Decision {
	if Public(path) {
		return DecisionAllow
	}

	state, _ := s.Snapshot()
	switch state {
	case StateAuthenticated:
		return DecisionAllow
	case StateAnonymous:
		return DecisionRedirect
	default:
		return DecisionLoading
	}
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
