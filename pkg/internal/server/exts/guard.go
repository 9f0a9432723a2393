package exts

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

var (
	PublicRoutes         = []string{"/", "/signin", "/signup"}
	ProtectedRoutePrefix = []string{"/meeting", "/dashboard"}
	GuardExclusionPrefix = []string{"/api", "/static", "/favicon.ico", "/.well-known"}
)

type GuardDecision struct {
	Allow    bool
	Redirect string
}

// Guard decides what to do with a page request before any handler runs.
func Guard(path string, authenticated bool) GuardDecision {
	if authenticated && lo.Contains(PublicRoutes, path) {
		// Redirecting "/" to itself would loop.
		if path == "/" {
			return GuardDecision{Allow: true}
		}
		return GuardDecision{Redirect: "/"}
	}

	if !authenticated && lo.ContainsBy(ProtectedRoutePrefix, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	}) {
		query := url.Values{"callbackUrl": []string{path}}
		return GuardDecision{Redirect: "/signin?" + query.Encode()}
	}

	return GuardDecision{Allow: true}
}

func IsGuardExcluded(path string) bool {
	return lo.ContainsBy(GuardExclusionPrefix, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

func RouteGuardMiddleware(c *fiber.Ctx) error {
	if IsGuardExcluded(c.Path()) {
		return c.Next()
	}

	decision := Guard(c.Path(), IsAuthenticated(c))
	if !decision.Allow {
		return c.Redirect(decision.Redirect, fiber.StatusFound)
	}
	return c.Next()
}
