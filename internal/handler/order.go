package handler

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zenithmfg/order-tracking/internal/apperr"
	"github.com/zenithmfg/order-tracking/internal/config"
	"github.com/zenithmfg/order-tracking/internal/middleware"
	"github.com/zenithmfg/order-tracking/internal/model"
	"github.com/zenithmfg/order-tracking/internal/queue"
)

// OrderHandler bundles dependencies for the order lifecycle procedures.
// Events may be nil; publishing is best-effort and never fails a
// request.
type OrderHandler struct {
	Cfg    config.Config
	Orders OrderStore
	Users  UserStore
	Events StatusPublisher
}

func NewOrderHandler(cfg config.Config, orders OrderStore, users UserStore, events StatusPublisher) *OrderHandler {
	return &OrderHandler{Cfg: cfg, Orders: orders, Users: users, Events: events}
}

func (h *OrderHandler) dev() bool { return h.Cfg.Env == "dev" }

// ----- DTOs -----

type orderIDReq struct {
	OrderID uint64 `json:"orderId"`
}

type byUserReq struct {
	UserID uint64 `json:"userId"`
}

type byStatusReq struct {
	Status string `json:"status"`
}

type updateStatusReq struct {
	OrderID     uint64 `json:"orderId"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type suggestionReq struct {
	OrderID    uint64 `json:"orderId"`
	Suggestion string `json:"suggestion"`
}

type createOrderReq struct {
	UserID       uint64 `json:"userId"`
	Status       string `json:"status"`
	CustomerName string `json:"customerName"`
	AmountCents  uint64 `json:"amountCents"`
	Details      string `json:"details"`
}

type orderPart struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"userId"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customerName"`
	AmountCents  uint64    `json:"amountCents"`
	Details      string    `json:"details"`
	Suggestion   *string   `json:"suggestion,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type eventPart struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type statusBucket struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

func toOrderPart(o model.Order) orderPart {
	return orderPart{
		ID:           o.ID,
		UserID:       o.UserID,
		Status:       o.Status,
		CustomerName: o.CustomerName,
		AmountCents:  o.AmountCents,
		Details:      o.Details,
		Suggestion:   o.Suggestion,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toOrderParts(orders []model.Order) []orderPart {
	out := make([]orderPart, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderPart(o))
	}
	return out
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// ownedBy enforces the customer ownership rule: customers may only
// touch orders they own, other roles pass.
func ownedBy(c echo.Context, o model.Order) bool {
	if middleware.AuthRole(c) != model.RoleCustomer {
		return true
	}
	callerID, _ := middleware.AuthUserID(c)
	return o.UserID == callerID
}

// GetAll implements orders.getAll (admin only).
func (h *OrderHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.GetAll(ctx)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": toOrderParts(orders)})
}

// GetByUserID implements orders.getByUserId. Any authenticated role may
// call it, but a customer asking for another user's orders is rejected
// as forbidden, never answered with data or an empty list.
func (h *OrderHandler) GetByUserID(c echo.Context) error {
	var req byUserReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return apperr.Render(c, h.dev(), apperr.Validation("userId is required"))
	}
	if callerID, _ := middleware.AuthUserID(c); middleware.AuthRole(c) == model.RoleCustomer && req.UserID != callerID {
		return apperr.Render(c, h.dev(), apperr.Forbidden("customers may only list their own orders"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	orders, err := h.Orders.GetByUserID(ctx, req.UserID)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": toOrderParts(orders)})
}

// GetByStatus implements orders.getByStatus (factory only).
func (h *OrderHandler) GetByStatus(c echo.Context) error {
	var req byStatusReq
	if err := c.Bind(&req); err != nil || !model.ValidStatus(req.Status) {
		return apperr.Render(c, h.dev(), apperr.Validation("a valid status is required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	orders, err := h.Orders.GetByStatus(ctx, req.Status)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": toOrderParts(orders)})
}

// GetByID implements orders.getById with the customer ownership rule.
func (h *OrderHandler) GetByID(c echo.Context) error {
	var req orderIDReq
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		return apperr.Render(c, h.dev(), apperr.Validation("orderId is required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	o, err := h.Orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	if !ownedBy(c, o) {
		return apperr.Render(c, h.dev(), apperr.Forbidden("customers may only view their own orders"))
	}
	return c.JSON(http.StatusOK, echo.Map{"order": toOrderPart(o)})
}

// GetTimeline implements orders.getOrderTimeline: the order's status
// history ascending by time, same ownership rule as getById.
func (h *OrderHandler) GetTimeline(c echo.Context) error {
	var req orderIDReq
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		return apperr.Render(c, h.dev(), apperr.Validation("orderId is required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	o, err := h.Orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	if !ownedBy(c, o) {
		return apperr.Render(c, h.dev(), apperr.Forbidden("customers may only view their own orders"))
	}

	events, err := h.Orders.Timeline(ctx, req.OrderID)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	out := make([]eventPart, 0, len(events))
	for _, e := range events {
		out = append(out, eventPart{Status: e.Status, Description: e.Description, CreatedAt: e.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"timeline": out})
}

// UpdateStatus implements orders.updateStatus (admin only). The order
// row update and the timeline append commit as one unit in the store;
// on success a status-changed event is published best-effort.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		return apperr.Render(c, h.dev(), apperr.Validation("orderId and status are required"))
	}
	if !model.ValidStatus(req.Status) {
		return apperr.Render(c, h.dev(), apperr.Validation("unknown status value"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The store reports the previous status from inside its transaction,
	// so the published event cannot carry a stale value under concurrent
	// updates.
	o, prev, err := h.Orders.UpdateStatus(ctx, req.OrderID, req.Status, req.Description)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}

	if h.Events != nil {
		ev := queue.OrderStatusChangedEvent{
			OrderID:        o.ID,
			PreviousStatus: prev,
			NewStatus:      o.Status,
			Description:    req.Description,
			CustomerName:   o.CustomerName,
			ChangedAt:      o.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := h.Events.PublishStatusChanged(ctx, ev); err != nil {
			zap.L().Warn("status event not published", zap.Uint64("order_id", o.ID), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"order": toOrderPart(o)})
}

// AddSuggestion implements orders.addSuggestion (factory only). The
// suggestion is overwritten, not appended; at most one is retained.
func (h *OrderHandler) AddSuggestion(c echo.Context) error {
	var req suggestionReq
	if err := c.Bind(&req); err != nil || req.OrderID == 0 || req.Suggestion == "" {
		return apperr.Render(c, h.dev(), apperr.Validation("orderId and suggestion are required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Orders.SetSuggestion(ctx, req.OrderID, req.Suggestion); err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Create implements orders.createOrder (admin only): inserts the order
// plus the timeline event recording its initial status.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 || req.CustomerName == "" {
		return apperr.Render(c, h.dev(), apperr.Validation("userId and customerName are required"))
	}
	if req.Status == "" {
		req.Status = model.StatusPending
	}
	if !model.ValidStatus(req.Status) {
		return apperr.Render(c, h.dev(), apperr.Validation("unknown status value"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The FK would catch this too; checking first gives the caller a
	// not_found instead of an opaque storage failure.
	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "user"))
	}

	o, err := h.Orders.Create(ctx, req.UserID, req.Status, req.CustomerName, req.AmountCents, req.Details, "")
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	return c.JSON(http.StatusCreated, echo.Map{"order": toOrderPart(o)})
}

// Delete implements orders.deleteOrder (admin only). Timeline events go
// first, then the order, to respect the foreign key.
func (h *OrderHandler) Delete(c echo.Context) error {
	var req orderIDReq
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		return apperr.Render(c, h.dev(), apperr.Validation("orderId is required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Orders.Delete(ctx, req.OrderID); err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

// GetAnalytics implements orders.getAnalytics (admin only): counts per
// status and each status's share of the total. With zero orders the
// breakdown is empty and every share is 0 by convention; there is no
// division by zero.
func (h *OrderHandler) GetAnalytics(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	counts, err := h.Orders.CountByStatus(ctx)
	if err != nil {
		return apperr.Render(c, h.dev(), storeErr(err, "order"))
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	breakdown := make([]statusBucket, 0, len(counts))
	if total > 0 {
		// Walk the canonical status order so the breakdown is stable.
		for _, s := range model.Statuses() {
			n, ok := counts[s]
			if !ok {
				continue
			}
			pct := float64(n) / float64(total) * 100
			breakdown = append(breakdown, statusBucket{
				Status:     s,
				Count:      n,
				Percentage: math.Round(pct*100) / 100,
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalOrders": total,
		"breakdown":   breakdown,
	})
}
