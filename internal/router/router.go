package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/zenithmfg/order-tracking/internal/config"
	"github.com/zenithmfg/order-tracking/internal/handler"
	"github.com/zenithmfg/order-tracking/internal/middleware"
	"github.com/zenithmfg/order-tracking/internal/model"
	"github.com/zenithmfg/order-tracking/internal/token"
)

// RegisterRoutes registers routes that carry no identity at all.
// Currently that is only the liveness probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI mounts every procedure under /api. The surface is
// RPC-style: each operation is a POST to /api/<operation> with a JSON
// body. The whole group runs the Authenticate stage; per-route
// RequireRole middleware attaches each operation's role allow-list
// (an empty list admits any authenticated role). users.login is the
// only procedure that tolerates an unauthenticated context, and it is
// additionally guarded by the Redis rate limiter.
func RegisterAPI(
	e *echo.Echo,
	codec *token.Codec,
	users middleware.UserSource,
	a *handler.AuthHandler,
	o *handler.OrderHandler,
	x *handler.ERPHandler,
	rlCfg config.RateLimitConfig,
	rdb *redis.Client,
) {
	api := e.Group("/api", middleware.Authenticate(codec, users))

	// ---- Users ----
	api.POST("/users.login", a.Login, middleware.RateLimit(rlCfg, rdb))
	api.POST("/users.me", a.Me, middleware.RequireRole())
	api.POST("/users.getAll", a.GetAll, middleware.RequireRole(model.RoleAdmin))
	api.POST("/users.resetPassword", a.ResetPassword, middleware.RequireRole(model.RoleAdmin))

	// ---- Orders ----
	api.POST("/orders.getAll", o.GetAll, middleware.RequireRole(model.RoleAdmin))
	api.POST("/orders.getByUserId", o.GetByUserID, middleware.RequireRole())
	api.POST("/orders.getByStatus", o.GetByStatus, middleware.RequireRole(model.RoleFactory))
	api.POST("/orders.getById", o.GetByID, middleware.RequireRole())
	api.POST("/orders.getOrderTimeline", o.GetTimeline, middleware.RequireRole())
	api.POST("/orders.updateStatus", o.UpdateStatus, middleware.RequireRole(model.RoleAdmin))
	api.POST("/orders.addSuggestion", o.AddSuggestion, middleware.RequireRole(model.RoleFactory))
	api.POST("/orders.createOrder", o.Create, middleware.RequireRole(model.RoleAdmin))
	api.POST("/orders.deleteOrder", o.Delete, middleware.RequireRole(model.RoleAdmin))
	api.POST("/orders.getAnalytics", o.GetAnalytics, middleware.RequireRole(model.RoleAdmin))

	// ---- ERP ----
	api.POST("/erp.getLogicMateStatus", x.LogicMateStatus, middleware.RequireRole(model.RoleAdmin))
	api.POST("/erp.getSuntecStatus", x.SuntecStatus, middleware.RequireRole(model.RoleAdmin, model.RoleFactory))
	api.POST("/erp.getOrderDetails", x.OrderDetails, middleware.RequireRole(model.RoleAdmin, model.RoleFactory))
	api.POST("/erp.syncAll", x.SyncAll, middleware.RequireRole(model.RoleAdmin))
}
