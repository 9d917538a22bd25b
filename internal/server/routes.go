package server

import (
	"net/http"

	"bodega/internal/handler"
	"bodega/internal/metrics"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
}

// RegisterRoutes mounts every handler; gate guards everything but login, the public
// catalog, health and metrics.
func RegisterRoutes(e *echo.Echo, h Handlers, gate echo.MiddlewareFunc, m *metrics.Metrics) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	h.Auth.RegisterRoutes(e, gate)
	h.Product.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, gate)
	h.Cart.RegisterRoutes(e, gate)
	h.Checkout.RegisterRoutes(e, gate)
}
