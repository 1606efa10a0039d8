package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/zenithmfg/order-tracking/internal/apperr"
)

// RequireRole returns the second stage of the authorization pipeline.
// It enforces that the request carries an authenticated identity whose
// role is in the allow-list; an empty list admits any authenticated
// role. "Not logged in" and "logged in but wrong role" are distinct
// user-visible conditions and produce distinct error kinds (401
// unauthenticated vs 403 forbidden). It assumes Authenticate ran
// earlier in the chain.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := AuthRole(c)
			if role == "" {
				return apperr.Render(c, false, apperr.Unauthenticated())
			}
			if len(allowed) > 0 && !allowed[role] {
				return apperr.Render(c, false, apperr.Forbidden("role not permitted for this operation"))
			}
			return next(c)
		}
	}
}
