package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zenithmfg/order-tracking/internal/apperr"
	"github.com/zenithmfg/order-tracking/internal/config"
	"github.com/zenithmfg/order-tracking/internal/erp"
)

// ERPHandler exposes the outbound ERP facade. The facade is injected,
// never a package-level singleton.
type ERPHandler struct {
	Cfg    config.Config
	Facade *erp.Facade
}

func NewERPHandler(cfg config.Config, facade *erp.Facade) *ERPHandler {
	return &ERPHandler{Cfg: cfg, Facade: facade}
}

func (h *ERPHandler) dev() bool { return h.Cfg.Env == "dev" }

func (h *ERPHandler) status(c echo.Context, system string) error {
	data, err := h.Facade.Status(c.Request().Context(), system)
	if err != nil {
		return apperr.Render(c, h.dev(),
			apperr.Upstream(system+" is unavailable").WithDetail(err.Error()))
	}
	return c.JSON(http.StatusOK, echo.Map{"system": system, "data": data})
}

// LogicMateStatus implements erp.getLogicMateStatus (admin only).
func (h *ERPHandler) LogicMateStatus(c echo.Context) error {
	return h.status(c, erp.SystemLogicMate)
}

// SuntecStatus implements erp.getSuntecStatus (admin and factory).
func (h *ERPHandler) SuntecStatus(c echo.Context) error {
	return h.status(c, erp.SystemSuntec)
}

// SyncAll implements erp.syncAll (admin only). A failing adapter shows
// up as a per-system error marker next to the surviving system's data,
// never as a whole-call failure.
func (h *ERPHandler) SyncAll(c echo.Context) error {
	res := h.Facade.SyncAll(c.Request().Context())
	return c.JSON(http.StatusOK, res)
}

// OrderDetails implements erp.getOrderDetails: both systems are asked
// about the order and their answers come back under per-system keys,
// with the merged status under "combined".
func (h *ERPHandler) OrderDetails(c echo.Context) error {
	var req struct {
		OrderID uint64 `json:"orderId"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		return apperr.Render(c, h.dev(), apperr.Validation("orderId is required"))
	}
	res := h.Facade.OrderDetails(c.Request().Context(), req.OrderID)
	return c.JSON(http.StatusOK, res)
}
