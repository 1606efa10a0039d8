package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zenithmfg/order-tracking/internal/model"
	"github.com/zenithmfg/order-tracking/internal/token"
)

// Context keys populated by Authenticate for downstream middleware and
// handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// UserSource loads the authenticated user fresh from the store. Defined
// here so tests can substitute a fake; *repository.UserRepo satisfies it.
type UserSource interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Authenticate returns the first stage of the authorization pipeline.
// It inspects the Authorization header, verifies the bearer token and
// loads the user record by the token's subject. On success the user's
// id, email and role are stored in the echo context. Every failure
// leaves the context unauthenticated and lets the request continue:
// rejecting is the job of RequireRole, since some procedures are
// public. The user is loaded from the store on every request so role
// and account changes take effect immediately.
func Authenticate(codec *token.Codec, users UserSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return next(c)
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if raw == "" {
				return next(c)
			}

			id, err := codec.Verify(raw)
			if err != nil {
				// The concrete rejection cause is log-only; callers see
				// a uniform unauthenticated context.
				zap.L().Debug("token rejected", zap.Error(err))
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, id.ID)
			if err != nil {
				zap.L().Debug("token subject not resolvable",
					zap.Uint64("sub", id.ID), zap.Error(err))
				return next(c)
			}

			c.Set(CtxUserID, u.ID)
			c.Set(CtxEmail, u.Email)
			c.Set(CtxRole, u.Role)
			return next(c)
		}
	}
}

// AuthUserID returns the authenticated user's id, or false when the
// request carries no authenticated identity.
func AuthUserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}

// AuthRole returns the authenticated user's role, or "" when the
// request is unauthenticated.
func AuthRole(c echo.Context) string {
	role, _ := c.Get(CtxRole).(string)
	return role
}
