package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zenithmfg/order-tracking/internal/apperr"
	"github.com/zenithmfg/order-tracking/internal/config"
	"github.com/zenithmfg/order-tracking/internal/middleware"
	"github.com/zenithmfg/order-tracking/internal/model"
	"github.com/zenithmfg/order-tracking/internal/token"
	"github.com/zenithmfg/order-tracking/internal/utils"
)

// AuthHandler bundles dependencies for the user-facing procedures.
type AuthHandler struct {
	Cfg   config.Config
	Codec *token.Codec
	Users UserStore
}

func NewAuthHandler(cfg config.Config, codec *token.Codec, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Codec: codec, Users: users}
}

func (h *AuthHandler) dev() bool { return h.Cfg.Env == "dev" }

// ----- DTOs -----

// loginReq is the single accepted login shape. Anything else is
// rejected as missing credentials; there is no probing of alternative
// payload layouts.
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordReq struct {
	UserID      uint64 `json:"userId"`
	NewPassword string `json:"newPassword"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResp struct {
	User  userPart `json:"user"`
	Token string   `json:"token"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Login implements users.login: verify credentials and mint a 24h
// access token. Missing fields and non-matching pairs are distinct
// error kinds, but a wrong email and a wrong password are reported
// identically.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.Render(c, h.dev(), apperr.MissingCredentials("email and password are required"))
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return apperr.Render(c, h.dev(), apperr.MissingCredentials("email and password are required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		ae := storeErr(err, "user")
		if ae.Code == apperr.CodeNotFound {
			return apperr.Render(c, h.dev(), apperr.InvalidCredentials())
		}
		return apperr.Render(c, h.dev(), ae)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return apperr.Render(c, h.dev(), apperr.InvalidCredentials())
	}

	signed, err := h.Codec.Mint(token.Identity{ID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return apperr.Render(c, h.dev(), apperr.Internal("issue token failed").WithDetail(err.Error()))
	}

	return c.JSON(http.StatusOK, loginResp{User: toUserPart(u), Token: signed})
}

// Me implements users.me: echo the authenticated identity loaded by the
// authorization pipeline.
func (h *AuthHandler) Me(c echo.Context) error {
	id, _ := middleware.AuthUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "user"))
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// GetAll implements users.getAll (admin only). Password hashes never
// leave the store layer's types.
func (h *AuthHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.GetAll(ctx)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "user"))
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// ResetPassword implements users.resetPassword (admin only): the only
// way a password changes in this service.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return apperr.Render(c, h.dev(), apperr.Validation("invalid body"))
	}
	if req.UserID == 0 || strings.TrimSpace(req.NewPassword) == "" {
		return apperr.Render(c, h.dev(), apperr.Validation("userId and newPassword are required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, req.UserID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "user"))
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}
