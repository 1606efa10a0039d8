package apperr

import "github.com/labstack/echo/v4"

// envelope is the wire shape of every error response:
// {"error":{"code":"...","message":"...","detail":"..."}}.
type envelope struct {
	Error body `json:"error"`
}

type body struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Render writes err as a structured JSON error response. Detail is
// included only when dev is set; production callers never see internal
// error text.
func Render(c echo.Context, dev bool, err error) error {
	ae := From(err)
	b := body{Code: ae.Code, Message: ae.Message}
	if dev {
		b.Detail = ae.Detail
	}
	return c.JSON(ae.Status, envelope{Error: b})
}
